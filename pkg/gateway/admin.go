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

// Admin operations. Privilege is enforced by the backend; a non-admin
// caller gets a REMOTE_FAILURE carrying the server's message.

type usersResponse struct {
	Users []entities.Identity `json:"users"`
}

// SearchUsers finds accounts by character name or account number
func (c *Client) SearchUsers(ctx context.Context, query string) ([]entities.Identity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.NewClientError(types.ErrValidation, "Search query required")
	}
	var resp usersResponse
	err := c.do(ctx, call{
		op:       "admin_search_users",
		method:   http.MethodGet,
		path:     "/api/admin/users/search",
		query:    url.Values{"q": {query}},
		auth:     true,
		fallback: "Search failed",
	}, &resp)
	return resp.Users, err
}

type adjustBalanceResponse struct {
	Message     string               `json:"message"`
	Transaction entities.Transaction `json:"transaction"`
}

// AdjustBalance credits (positive) or debits (negative) an account
func (c *Client) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, reason string) (*entities.Transaction, error) {
	var resp adjustBalanceResponse
	err := c.do(ctx, call{
		op:       "admin_adjust_balance",
		method:   http.MethodPost,
		path:     "/api/admin/users/" + url.PathEscape(accountNumber) + "/adjust-balance",
		body:     &adjustBalanceRequest{Amount: amount, Reason: strings.TrimSpace(reason)},
		auth:     true,
		fallback: "Failed to adjust balance",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

type toggleAdminResponse struct {
	Message string            `json:"message"`
	User    entities.Identity `json:"user"`
}

// ToggleAdmin grants or revokes admin status. It returns the updated user
// and the server's confirmation message.
func (c *Client) ToggleAdmin(ctx context.Context, accountNumber string) (entities.Identity, string, error) {
	var resp toggleAdminResponse
	err := c.do(ctx, call{
		op:       "admin_toggle_admin",
		method:   http.MethodPost,
		path:     "/api/admin/users/" + url.PathEscape(accountNumber) + "/toggle-admin",
		auth:     true,
		fallback: "Failed to update admin status",
	}, &resp)
	return resp.User, resp.Message, err
}

type apiKeysResponse struct {
	APIKeys []entities.APIKey `json:"api_keys"`
}

// APIKeys lists integration keys
func (c *Client) APIKeys(ctx context.Context) ([]entities.APIKey, error) {
	var resp apiKeysResponse
	err := c.do(ctx, call{
		op:       "admin_list_api_keys",
		method:   http.MethodGet,
		path:     "/api/admin/api-keys",
		auth:     true,
		fallback: "Failed to load API keys",
	}, &resp)
	return resp.APIKeys, err
}

type apiKeyResponse struct {
	Message string          `json:"message"`
	APIKey  entities.APIKey `json:"api_key"`
}

// CreateAPIKey issues a new integration key
func (c *Client) CreateAPIKey(ctx context.Context, description string) (entities.APIKey, error) {
	var resp apiKeyResponse
	err := c.do(ctx, call{
		op:       "admin_create_api_key",
		method:   http.MethodPost,
		path:     "/api/admin/api-keys",
		body:     &apiKeyRequest{Description: strings.TrimSpace(description)},
		auth:     true,
		fallback: "Failed to create API key",
	}, &resp)
	return resp.APIKey, err
}

// RevokeAPIKey deactivates an integration key
func (c *Client) RevokeAPIKey(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		op:       "admin_revoke_api_key",
		method:   http.MethodDelete,
		path:     "/api/admin/api-keys/" + strconv.FormatInt(id, 10),
		auth:     true,
		fallback: "Failed to revoke API key",
	}, nil)
}

type casinoConfigsResponse struct {
	Games []entities.CasinoGameConfig `json:"games"`
}

// CasinoConfigs lists server-side game settings
func (c *Client) CasinoConfigs(ctx context.Context) ([]entities.CasinoGameConfig, error) {
	var resp casinoConfigsResponse
	err := c.do(ctx, call{
		op:       "admin_casino_config",
		method:   http.MethodGet,
		path:     "/api/admin/casino/config",
		auth:     true,
		fallback: "Failed to load casino config",
	}, &resp)
	return resp.Games, err
}

type casinoConfigResponse struct {
	Message string                    `json:"message"`
	Config  entities.CasinoGameConfig `json:"config"`
}

// UpdateCasinoConfig changes a game's switch or payout percentage
func (c *Client) UpdateCasinoConfig(ctx context.Context, gameName string, update CasinoConfigUpdate) (entities.CasinoGameConfig, error) {
	if update.IsEnabled == nil && update.PayoutPercentage == nil {
		return entities.CasinoGameConfig{}, types.NewClientError(types.ErrValidation, "Nothing to update")
	}
	var resp casinoConfigResponse
	err := c.do(ctx, call{
		op:       "admin_update_casino_config",
		method:   http.MethodPut,
		path:     "/api/admin/casino/config/" + url.PathEscape(gameName),
		body:     &update,
		auth:     true,
		fallback: "Failed to update casino config",
	}, &resp)
	return resp.Config, err
}

type factionsResponse struct {
	Factions []entities.FactionSummary `json:"factions"`
}

// Factions lists factions with member counts and balances
func (c *Client) Factions(ctx context.Context) ([]entities.FactionSummary, error) {
	var resp factionsResponse
	err := c.do(ctx, call{
		op:       "admin_list_factions",
		method:   http.MethodGet,
		path:     "/api/admin/factions/list",
		auth:     true,
		fallback: "Failed to load factions",
	}, &resp)
	return resp.Factions, err
}

// AddFactionCredits credits every member of faction
func (c *Client) AddFactionCredits(ctx context.Context, faction string, amount decimal.Decimal, reason string) (*entities.FactionCredit, error) {
	var result entities.FactionCredit
	err := c.do(ctx, call{
		op:       "admin_faction_credits",
		method:   http.MethodPost,
		path:     "/api/admin/factions/" + url.PathEscape(faction) + "/add-credits",
		body:     &factionCreditsRequest{Amount: amount, Reason: strings.TrimSpace(reason)},
		auth:     true,
		fallback: "Failed to add credits",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateFaction registers a new faction
func (c *Client) CreateFaction(ctx context.Context, name, description string) error {
	return c.do(ctx, call{
		op:     "admin_create_faction",
		method: http.MethodPost,
		path:   "/api/admin/factions/create",
		body: &factionRequest{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(description),
		},
		auth:     true,
		fallback: "Failed to create faction",
	}, nil)
}

// ExportUsers returns the raw CSV export of all accounts
func (c *Client) ExportUsers(ctx context.Context) ([]byte, error) {
	return c.send(ctx, call{
		op:       "admin_export_users",
		method:   http.MethodGet,
		path:     "/api/admin/users/export",
		auth:     true,
		fallback: "Failed to export users",
	})
}

type auditLogsResponse struct {
	Logs []entities.AuditLog `json:"logs"`
}

// AuditLogs pages through admin audit entries, newest first
func (c *Client) AuditLogs(ctx context.Context, limit, offset int) ([]entities.AuditLog, error) {
	if limit <= 0 || offset < 0 {
		return nil, types.NewClientError(types.ErrValidation, "Invalid page")
	}
	var resp auditLogsResponse
	err := c.do(ctx, call{
		op:     "admin_audit_logs",
		method: http.MethodGet,
		path:   "/api/admin/audit-logs",
		query: url.Values{
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
		},
		auth:     true,
		fallback: "Failed to load audit logs",
	}, &resp)
	return resp.Logs, err
}
