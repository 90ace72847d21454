package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/repositories/history"
)

// failingRepository fails every read
type failingRepository struct {
	*history.MemoryRepository
}

func (f failingRepository) Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error) {
	return nil, errors.New("database is locked")
}

type ServiceTestSuite struct {
	suite.Suite
	repo    *history.MemoryRepository
	service *Service
	ctx     context.Context
	base    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = history.NewMemoryRepository()
	s.service = NewService(s.repo, config.DefaultGames())
	s.ctx = context.Background()
	s.base = time.Date(2077, 3, 14, 20, 0, 0, 0, time.UTC)
}

func (s *ServiceTestSuite) save(id, game string, wager, win int64, status entities.RoundStatus) {
	s.Require().NoError(s.repo.SaveRound(s.ctx, &entities.RoundRecord{
		ID:            id,
		GameID:        game,
		AccountNumber: "NC-1234-5678",
		Wager:         wager,
		Status:        status,
		WinAmount:     decimal.NewFromInt(win),
		SettledAt:     s.base,
	}))
}

func (s *ServiceTestSuite) TestSummary() {
	// Setup
	s.save("g1", config.GlitchGrid, 10, 0, entities.RoundSettled)
	s.save("g2", config.GlitchGrid, 10, 0, entities.RoundSettled)
	s.save("s1", config.StarlightSmuggler, 5, 50, entities.RoundSettled)
	s.save("s2", config.StarlightSmuggler, 5, 0, entities.RoundFailed)

	// Execute
	summary, err := s.service.Summary(s.ctx, "NC-1234-5678", 1)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(summary.Games, 2)
	s.Equal(4, summary.TotalRounds)
	s.Equal(int64(25), summary.TotalWagered)
	s.True(decimal.NewFromInt(50).Equal(summary.TotalWon))
	s.True(decimal.NewFromInt(25).Equal(summary.NetProfit))
	s.Equal("Starlight Smuggler", summary.BestGame)

	glitch := summary.Games[0]
	s.Equal("Glitch Grid", glitch.Name)
	s.True(decimal.NewFromInt(-20).Equal(glitch.NetProfit))
	s.Zero(glitch.WinRate)
	s.Len(glitch.RecentRounds, 1)

	starlight := summary.Games[1]
	s.Equal(100.0, starlight.WinRate, "Failed rounds do not count against the win rate")
}

func (s *ServiceTestSuite) TestSummaryNoRounds() {
	summary, err := s.service.Summary(s.ctx, "NC-0000-0000", 5)

	s.Require().NoError(err)
	s.Zero(summary.TotalRounds)
	s.Empty(summary.BestGame)
	s.Empty(summary.Games[0].RecentRounds)
}

func (s *ServiceTestSuite) TestGame() {
	// Setup
	s.save("g1", config.GlitchGrid, 10, 250, entities.RoundSettled)

	// Execute
	gs, err := s.service.Game(s.ctx, "NC-1234-5678", config.GlitchGrid, 0)

	// Assert
	s.Require().NoError(err)
	s.Equal(1, gs.Wins)
	s.True(decimal.NewFromInt(250).Equal(gs.BiggestWin))
	s.Empty(gs.RecentRounds)
}

func (s *ServiceTestSuite) TestGameNotFound() {
	_, err := s.service.Game(s.ctx, "NC-1234-5678", "roulette", 0)

	s.True(types.Is(err, types.ErrGameNotFound))
}

func (s *ServiceTestSuite) TestRepositoryFailure() {
	service := NewService(failingRepository{s.repo}, config.DefaultGames())

	_, err := service.Summary(s.ctx, "NC-1234-5678", 0)

	s.True(types.Is(err, types.ErrStorageError))
}
