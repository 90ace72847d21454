package controller

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/gateway"
	"github.com/fadedpez/neobank/pkg/notify"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/session"
	"github.com/fadedpez/neobank/pkg/spin"
	"github.com/fadedpez/neobank/pkg/wager"
)

// Gateway is the slice of the backend the controller drives
type Gateway interface {
	Hydrate(ctx context.Context, credential string) (entities.Identity, error)
	Login(ctx context.Context, characterName, password string) (*entities.LoginResult, error)
	Register(ctx context.Context, characterName, password, faction string) error
	Account(ctx context.Context) (entities.Identity, error)
	Transactions(ctx context.Context, limit int) ([]entities.Transaction, error)
	SearchTransactions(ctx context.Context, query string) ([]entities.Transaction, error)
	Transfer(ctx context.Context, toAccount string, amount decimal.Decimal, memo string) (*entities.TransferResult, error)
	UpdateProfile(ctx context.Context, faction, profilePicture string) (*entities.Identity, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	AdminGateway
}

// AdminGateway covers the privilege-gated operations. The server enforces
// the privilege; the client only displays the results.
type AdminGateway interface {
	SearchUsers(ctx context.Context, query string) ([]entities.Identity, error)
	AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, reason string) (*entities.Transaction, error)
	ToggleAdmin(ctx context.Context, accountNumber string) (entities.Identity, string, error)
	APIKeys(ctx context.Context) ([]entities.APIKey, error)
	CreateAPIKey(ctx context.Context, description string) (entities.APIKey, error)
	RevokeAPIKey(ctx context.Context, id int64) error
	CasinoConfigs(ctx context.Context) ([]entities.CasinoGameConfig, error)
	UpdateCasinoConfig(ctx context.Context, gameName string, update gateway.CasinoConfigUpdate) (entities.CasinoGameConfig, error)
	Factions(ctx context.Context) ([]entities.FactionSummary, error)
	AddFactionCredits(ctx context.Context, faction string, amount decimal.Decimal, reason string) (*entities.FactionCredit, error)
	CreateFaction(ctx context.Context, name, description string) error
	ExportUsers(ctx context.Context) ([]byte, error)
	AuditLogs(ctx context.Context, limit, offset int) ([]entities.AuditLog, error)
}

// Session is the session store as seen by the controller
type Session interface {
	Restore(ctx context.Context, hydrator session.Hydrator) bool
	Establish(ctx context.Context, credential string, identity entities.Identity) error
	Clear(ctx context.Context) error
	Identity() (entities.Identity, bool)
	Authenticated() bool
	UpdateBalance(balance decimal.Decimal)
	UpdateIdentity(identity entities.Identity)
	Subscribe(fn func(session.Event)) func()
}

// Wagers adjusts per-game bets
type Wagers interface {
	Increase(gameID string) (int64, error)
	Decrease(gameID string) (int64, error)
	Set(gameID string, amount int64) (int64, error)
	Spec(gameID string) (wager.Spec, error)
}

// Spinner starts rounds
type Spinner interface {
	Spin(ctx context.Context, gameID string) (*spin.Round, error)
}

// Notifier publishes toasts
type Notifier interface {
	Publish(message string, kind notify.Kind) notify.Toast
	PublishCategory(message string, kind notify.Kind, category string) notify.Toast
}

// Statistics summarizes recorded rounds
type Statistics interface {
	Summary(ctx context.Context, accountNumber string, recent int) (*statistics.Summary, error)
	Game(ctx context.Context, accountNumber, gameID string, recent int) (*statistics.GameSummary, error)
}
