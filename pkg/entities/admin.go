package entities

import "github.com/shopspring/decimal"

// APIKey is an integration key issued by an admin
type APIKey struct {
	ID          int64     `json:"id"`
	Value       string    `json:"key_value"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
	LastUsed    Timestamp `json:"last_used"`
}

// CasinoGameConfig is the server-side switchboard for one game
type CasinoGameConfig struct {
	GameName         string          `json:"game_name"`
	IsEnabled        bool            `json:"is_enabled"`
	PayoutPercentage decimal.Decimal `json:"payout_percentage"`
	UpdatedAt        Timestamp       `json:"updated_at"`
}

// FactionSummary aggregates the members of a faction
type FactionSummary struct {
	Faction      string          `json:"faction"`
	UserCount    int             `json:"user_count"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// FactionCredit is the result of crediting every member of a faction
type FactionCredit struct {
	Message       string `json:"message"`
	Faction       string `json:"faction"`
	UsersAffected int    `json:"affected_users"`
}

// AuditLog records one admin action
type AuditLog struct {
	ID        int64     `json:"id"`
	Admin     string    `json:"admin"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Details   string    `json:"details"`
	Timestamp Timestamp `json:"timestamp"`
}
