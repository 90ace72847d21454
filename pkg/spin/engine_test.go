package spin

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/notify"
	mock_spin "github.com/fadedpez/neobank/pkg/spin/mock"
)

type EngineTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	spinner  *mock_spin.MockSpinner
	session  *mock_spin.MockSession
	wagers   *mock_spin.MockWagers
	notifier *mock_spin.MockNotifier
	clock    *clockwork.FakeClock
	engine   *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.spinner = mock_spin.NewMockSpinner(s.ctrl)
	s.session = mock_spin.NewMockSession(s.ctrl)
	s.wagers = mock_spin.NewMockWagers(s.ctrl)
	s.notifier = mock_spin.NewMockNotifier(s.ctrl)
	s.clock = clockwork.NewFakeClock()

	s.engine = NewEngine(Dependencies{
		Spinner:  s.spinner,
		Session:  s.session,
		Wagers:   s.wagers,
		Notifier: s.notifier,
	}, WithClock(s.clock), WithLogger(logging.Discard))
}

func (s *EngineTestSuite) TearDownTest() {
	s.engine.Close()
}

func (s *EngineTestSuite) TestRegisterDefaults() {
	// Execute
	for _, game := range config.DefaultGames() {
		_, err := s.engine.Register(game)
		s.Require().NoError(err)
	}

	// Assert
	s.Equal([]string{config.GlitchGrid, config.StarlightSmuggler}, s.engine.Games())
	m, err := s.engine.Machine(config.StarlightSmuggler)
	s.Require().NoError(err)
	s.Equal(Idle, m.Status())
	s.Len(m.Board(), m.Game().Rows)
}

func (s *EngineTestSuite) TestRegisterDuplicate() {
	// Setup
	_, err := s.engine.Register(testGame)
	s.Require().NoError(err)

	// Execute
	_, err = s.engine.Register(testGame)

	// Assert
	s.True(types.Is(err, types.ErrInvalidAction))
}

func (s *EngineTestSuite) TestRegisterRejectsEmptyBoard() {
	game := testGame
	game.Symbols = nil

	_, err := s.engine.Register(game)

	s.True(types.Is(err, types.ErrConfigError))
}

func (s *EngineTestSuite) TestUnknownGame() {
	_, err := s.engine.Spin(context.Background(), "roulette")

	s.True(types.Is(err, types.ErrGameNotFound))
}

func (s *EngineTestSuite) TestGamesRunIndependently() {
	// Setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	starlight := testGame
	starlight.ID = "starlight"
	starlight.Endpoint = "starlight-smuggler"
	starlight.SpinDuration = 2500 * time.Millisecond

	_, err := s.engine.Register(testGame)
	s.Require().NoError(err)
	_, err = s.engine.Register(starlight)
	s.Require().NoError(err)

	s.session.EXPECT().Credential().Return("token", nil).Times(2)
	s.wagers.EXPECT().Amount("glitch").Return(int64(10), nil)
	s.wagers.EXPECT().Amount("starlight").Return(int64(5), nil)
	s.spinner.EXPECT().Spin(gomock.Any(), "glitch-grid", int64(10)).Return(&entities.SpinResult{
		Board:      entities.Board{{"A", "B", "C"}, {"A", "B", "C"}, {"A", "B", "C"}},
		WinAmount:  decimal.Zero,
		NewBalance: decimal.NewFromInt(990),
	}, nil)
	s.spinner.EXPECT().Spin(gomock.Any(), "starlight-smuggler", int64(5)).Return(&entities.SpinResult{
		Board:      entities.Board{{"C", "C", "C"}, {"C", "C", "C"}, {"C", "C", "C"}},
		WinAmount:  decimal.NewFromInt(40),
		NewBalance: decimal.NewFromInt(1025),
	}, nil)
	s.session.EXPECT().UpdateBalance(decimal.NewFromInt(990))
	s.session.EXPECT().UpdateBalance(decimal.NewFromInt(1025))
	s.notifier.EXPECT().PublishCategory("You won ¤40!", notify.Success, notify.CategoryWin).Return(notify.Toast{})

	// Execute
	glitchRound, err := s.engine.Spin(ctx, "glitch")
	s.Require().NoError(err)
	starlightRound, err := s.engine.Spin(ctx, "starlight")
	s.Require().NoError(err)
	s.Require().NoError(s.clock.BlockUntilContext(ctx, 4))

	s.clock.Advance(2000 * time.Millisecond)
	_, glitchErr := glitchRound.Wait(ctx)

	// Assert
	s.NoError(glitchErr)
	starlightMachine, err := s.engine.Machine("starlight")
	s.Require().NoError(err)
	s.True(starlightMachine.Status().Spinning(), "Settling one game leaves the other in flight")

	s.clock.Advance(500 * time.Millisecond)
	_, starlightErr := starlightRound.Wait(ctx)
	s.NoError(starlightErr)
	s.Equal(Idle, starlightMachine.Status())
}
