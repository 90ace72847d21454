package console

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fadedpez/neobank/pkg/controller"
	"github.com/fadedpez/neobank/pkg/gateway"
	"github.com/fadedpez/neobank/pkg/services/statistics"
	"github.com/fadedpez/neobank/pkg/spin"
	"github.com/fadedpez/neobank/pkg/wager"
)

// MockActions implements Actions for testing
type MockActions struct {
	mock.Mock
}

func (m *MockActions) State() controller.State {
	args := m.Called()
	return args.Get(0).(controller.State)
}

func (m *MockActions) Start(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) Login(ctx context.Context, characterName, password string) bool {
	return m.Called(ctx, characterName, password).Bool(0)
}

func (m *MockActions) Register(ctx context.Context, characterName, password, faction string) bool {
	return m.Called(ctx, characterName, password, faction).Bool(0)
}

func (m *MockActions) Logout(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) Refresh(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) LoadTransactions(ctx context.Context, limit int) bool {
	return m.Called(ctx, limit).Bool(0)
}

func (m *MockActions) Search(ctx context.Context, query string) {
	m.Called(ctx, query)
}

func (m *MockActions) Transfer(ctx context.Context, toAccount string, amount decimal.Decimal, memo string) bool {
	return m.Called(ctx, toAccount, amount, memo).Bool(0)
}

func (m *MockActions) Bet(gameID string) (wager.Spec, bool) {
	args := m.Called(gameID)
	return args.Get(0).(wager.Spec), args.Bool(1)
}

func (m *MockActions) IncreaseBet(gameID string) (int64, bool) {
	args := m.Called(gameID)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockActions) DecreaseBet(gameID string) (int64, bool) {
	args := m.Called(gameID)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockActions) SetBet(gameID string, amount int64) (int64, bool) {
	args := m.Called(gameID, amount)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockActions) Spin(ctx context.Context, gameID string) *spin.Round {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*spin.Round)
}

func (m *MockActions) Stats(ctx context.Context, recent int) (*statistics.Summary, bool) {
	args := m.Called(ctx, recent)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*statistics.Summary), args.Bool(1)
}

func (m *MockActions) GameStats(ctx context.Context, gameID string, recent int) (*statistics.GameSummary, bool) {
	args := m.Called(ctx, gameID, recent)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*statistics.GameSummary), args.Bool(1)
}

func (m *MockActions) UpdateProfile(ctx context.Context, faction, profilePicture string) bool {
	return m.Called(ctx, faction, profilePicture).Bool(0)
}

func (m *MockActions) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) bool {
	return m.Called(ctx, currentPassword, newPassword, confirmPassword).Bool(0)
}

func (m *MockActions) SearchUsers(ctx context.Context, query string) bool {
	return m.Called(ctx, query).Bool(0)
}

func (m *MockActions) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, reason string) bool {
	return m.Called(ctx, accountNumber, amount, reason).Bool(0)
}

func (m *MockActions) ToggleAdmin(ctx context.Context, accountNumber string) bool {
	return m.Called(ctx, accountNumber).Bool(0)
}

func (m *MockActions) LoadAPIKeys(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) CreateAPIKey(ctx context.Context, description string) bool {
	return m.Called(ctx, description).Bool(0)
}

func (m *MockActions) RevokeAPIKey(ctx context.Context, id int64) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *MockActions) LoadCasinoConfigs(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) UpdateCasinoConfig(ctx context.Context, gameName string, update gateway.CasinoConfigUpdate) bool {
	return m.Called(ctx, gameName, update).Bool(0)
}

func (m *MockActions) LoadFactions(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockActions) CreateFaction(ctx context.Context, name, description string) bool {
	return m.Called(ctx, name, description).Bool(0)
}

func (m *MockActions) AddFactionCredits(ctx context.Context, faction string, amount decimal.Decimal, reason string) bool {
	return m.Called(ctx, faction, amount, reason).Bool(0)
}

func (m *MockActions) ExportUsers(ctx context.Context, dir string) (string, bool) {
	args := m.Called(ctx, dir)
	return args.String(0), args.Bool(1)
}

func (m *MockActions) LoadAuditLogs(ctx context.Context, limit, offset int) bool {
	return m.Called(ctx, limit, offset).Bool(0)
}
