package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/repositories/history"
)

// Service summarizes local round history per game
type Service struct {
	repository history.Repository
	games      []config.GameConfig
	now        func() time.Time
}

// NewService creates a new statistics service for the configured games
func NewService(repository history.Repository, games []config.GameConfig) *Service {
	return &Service{
		repository: repository,
		games:      games,
		now:        time.Now,
	}
}

// GameSummary is the statistics of one game with derived figures
type GameSummary struct {
	*entities.GameStatistics
	Name         string                  `json:"name"`
	WinRate      float64                 `json:"win_rate"`
	NetProfit    decimal.Decimal         `json:"net_profit"`
	RecentRounds []*entities.RoundRecord `json:"recent_rounds"`
}

// Summary covers every configured game of one account
type Summary struct {
	AccountNumber string          `json:"account_number"`
	Games         []*GameSummary  `json:"games"`
	TotalRounds   int             `json:"total_rounds"`
	TotalWagered  int64           `json:"total_wagered"`
	TotalWon      decimal.Decimal `json:"total_won"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	BestGame      string          `json:"best_game,omitempty"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// Game returns the statistics of one game with its most recent rounds
func (s *Service) Game(ctx context.Context, accountNumber, gameID string, recent int) (*GameSummary, error) {
	for _, game := range s.games {
		if game.ID == gameID {
			return s.summarize(ctx, accountNumber, game, recent)
		}
	}
	return nil, types.NewClientError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
}

// Summary returns statistics for every configured game. BestGame is the
// played game with the highest net profit.
func (s *Service) Summary(ctx context.Context, accountNumber string, recent int) (*Summary, error) {
	summary := &Summary{
		AccountNumber: accountNumber,
		Games:         make([]*GameSummary, 0, len(s.games)),
		LastUpdated:   s.now(),
	}

	var best *GameSummary
	for _, game := range s.games {
		gs, err := s.summarize(ctx, accountNumber, game, recent)
		if err != nil {
			return nil, err
		}
		summary.Games = append(summary.Games, gs)

		summary.TotalRounds += gs.RoundsPlayed
		summary.TotalWagered += gs.TotalWagered
		summary.TotalWon = summary.TotalWon.Add(gs.TotalWon)

		if gs.RoundsPlayed > gs.Failures && (best == nil || gs.NetProfit.GreaterThan(best.NetProfit)) {
			best = gs
		}
	}
	summary.NetProfit = summary.TotalWon.Sub(decimal.NewFromInt(summary.TotalWagered))
	if best != nil {
		summary.BestGame = best.Name
	}
	return summary, nil
}

func (s *Service) summarize(ctx context.Context, accountNumber string, game config.GameConfig, recent int) (*GameSummary, error) {
	stats, err := s.repository.Statistics(ctx, accountNumber, game.ID)
	if err != nil {
		return nil, types.WrapError(types.ErrStorageError, "Failed to load statistics", err)
	}

	gs := &GameSummary{
		GameStatistics: stats,
		Name:           game.Name,
		WinRate:        stats.WinRate(),
		NetProfit:      stats.NetProfit(),
		RecentRounds:   []*entities.RoundRecord{},
	}
	if recent > 0 {
		rounds, err := s.repository.Rounds(ctx, accountNumber, game.ID, recent)
		if err != nil {
			return nil, types.WrapError(types.ErrStorageError, "Failed to load rounds", err)
		}
		gs.RecentRounds = rounds
	}
	return gs, nil
}
