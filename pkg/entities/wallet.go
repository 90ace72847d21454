package entities

import (
	"github.com/shopspring/decimal"
)

// Identity is the account holder as returned by the backend
type Identity struct {
	CharacterName  string          `json:"character_name"`
	AccountNumber  string          `json:"account_number"`
	Faction        string          `json:"faction"`
	Balance        decimal.Decimal `json:"balance"`
	IsAdmin        bool            `json:"is_admin"`
	ProfilePicture string          `json:"profile_picture,omitempty"`
	CreatedAt      Timestamp       `json:"created_at"`
}

// TransactionType represents the ledger category of a transaction
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeCasinoBet  TransactionType = "casino_bet"
	TransactionTypeCasinoWin  TransactionType = "casino_win"
	TransactionTypeAdjustment TransactionType = "admin_adjustment"
	TransactionTypeExternal   TransactionType = "external"
)

// Transaction represents a single ledger entry
type Transaction struct {
	ID          int64           `json:"id"`
	FromAccount string          `json:"from_account"`
	FromName    string          `json:"from_name"`
	ToAccount   string          `json:"to_account"`
	ToName      string          `json:"to_name"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
	Timestamp   Timestamp       `json:"timestamp"`
	Type        TransactionType `json:"type"`
}

// Outgoing reports whether the transaction debits account
func (t Transaction) Outgoing(account string) bool {
	return t.FromAccount == account
}

// LoginResult is the credential and identity issued on login
type LoginResult struct {
	Token    string   `json:"access_token"`
	Identity Identity `json:"user"`
}

// TransferResult is the backend's answer to a peer-to-peer transfer
type TransferResult struct {
	Message     string          `json:"message"`
	Transaction Transaction     `json:"transaction"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}
