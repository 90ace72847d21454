package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
)

// Login exchanges a character name and password for a credential
func (c *Client) Login(ctx context.Context, characterName, password string) (*entities.LoginResult, error) {
	var result entities.LoginResult
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/api/v1/auth/login",
		body:     &loginRequest{CharacterName: strings.TrimSpace(characterName), Password: password},
		fallback: "Login failed",
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, types.NewRemoteFailure(http.StatusOK, "Login failed")
	}
	return &result, nil
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, characterName, password, faction string) error {
	return c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body: &registerRequest{
			CharacterName: strings.TrimSpace(characterName),
			Password:      password,
			Faction:       faction,
		},
		fallback: "Registration failed",
	}, nil)
}

type accountResponse struct {
	Account entities.Identity `json:"account"`
}

// Account fetches the current account using the session credential
func (c *Client) Account(ctx context.Context) (entities.Identity, error) {
	var resp accountResponse
	err := c.do(ctx, call{
		op:       "account",
		method:   http.MethodGet,
		path:     "/api/v1/account",
		auth:     true,
		fallback: "Failed to load account",
	}, &resp)
	return resp.Account, err
}

// Hydrate fetches the account for an explicit credential. A rejection is
// reported as SESSION_EXPIRED but never clears the session.
func (c *Client) Hydrate(ctx context.Context, credential string) (entities.Identity, error) {
	var resp accountResponse
	err := c.do(ctx, call{
		op:       "hydrate",
		method:   http.MethodGet,
		path:     "/api/v1/account",
		auth:     true,
		token:    credential,
		fallback: "Failed to load account",
	}, &resp)
	return resp.Account, err
}

type transactionsResponse struct {
	Transactions []entities.Transaction `json:"transactions"`
}

// Transactions lists the most recent transactions
func (c *Client) Transactions(ctx context.Context, limit int) ([]entities.Transaction, error) {
	if limit <= 0 {
		return nil, types.NewClientError(types.ErrValidation, "limit must be positive")
	}
	var resp transactionsResponse
	err := c.do(ctx, call{
		op:       "transactions",
		method:   http.MethodGet,
		path:     "/api/v1/account/transactions",
		query:    url.Values{"limit": {strconv.Itoa(limit)}},
		auth:     true,
		fallback: "Failed to load transactions",
	}, &resp)
	return resp.Transactions, err
}

// SearchTransactions filters transactions by memo or account number
func (c *Client) SearchTransactions(ctx context.Context, query string) ([]entities.Transaction, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.NewClientError(types.ErrValidation, "Search query required")
	}
	var resp transactionsResponse
	err := c.do(ctx, call{
		op:       "search_transactions",
		method:   http.MethodGet,
		path:     "/api/v1/account/transactions/search",
		query:    url.Values{"q": {query}},
		auth:     true,
		fallback: "Search failed",
	}, &resp)
	return resp.Transactions, err
}

// Transfer sends amount to another account
func (c *Client) Transfer(ctx context.Context, toAccount string, amount decimal.Decimal, memo string) (*entities.TransferResult, error) {
	var result entities.TransferResult
	err := c.do(ctx, call{
		op:     "transfer",
		method: http.MethodPost,
		path:   "/api/v1/transactions",
		body: &transferRequest{
			ToAccount: strings.TrimSpace(toAccount),
			Amount:    amount,
			Memo:      memo,
		},
		auth:     true,
		fallback: "Transaction failed",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type profileResponse struct {
	Message string             `json:"message"`
	User    *entities.Identity `json:"user"`
}

// UpdateProfile changes faction and profile picture. The returned
// identity is nil when the backend does not echo the account.
func (c *Client) UpdateProfile(ctx context.Context, faction, profilePicture string) (*entities.Identity, error) {
	var resp profileResponse
	err := c.do(ctx, call{
		op:       "update_profile",
		method:   http.MethodPut,
		path:     "/api/v1/account/profile",
		body:     &profileRequest{Faction: faction, ProfilePicture: profilePicture},
		auth:     true,
		fallback: "Failed to update profile",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ChangePassword replaces the account password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.do(ctx, call{
		op:       "change_password",
		method:   http.MethodPut,
		path:     "/api/v1/account/password",
		body:     &passwordRequest{CurrentPassword: currentPassword, NewPassword: newPassword},
		auth:     true,
		fallback: "Failed to change password",
	}, nil)
}
