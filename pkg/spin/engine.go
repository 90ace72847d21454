package spin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
)

// Dependencies are the collaborators shared by every machine. Recorder
// may be nil.
type Dependencies struct {
	Spinner  Spinner
	Session  Session
	Wagers   Wagers
	Notifier Notifier
	Recorder Recorder
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the real clock
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithLogger overrides the engine logger
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRandom overrides the symbol picker used for animation frames
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) {
		e.intn = intn
	}
}

// Engine owns one Machine per registered game
type Engine struct {
	spinner  Spinner
	session  Session
	wagers   Wagers
	notifier Notifier
	recorder Recorder

	clock  clockwork.Clock
	logger *logging.Logger
	intn   func(n int) int

	machines map[string]*Machine
	mu       sync.RWMutex

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool
}

// NewEngine creates an engine with no games registered
func NewEngine(deps Dependencies, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		spinner:  deps.Spinner,
		session:  deps.Session,
		wagers:   deps.Wagers,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		clock:    clockwork.NewRealClock(),
		logger:   logging.Default,
		intn:     rand.IntN,
		machines: make(map[string]*Machine),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a machine for game
func (e *Engine) Register(game config.GameConfig) (*Machine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.machines[game.ID]; exists {
		return nil, types.NewClientError(types.ErrInvalidAction, fmt.Sprintf("Game %s is already registered", game.ID))
	}
	if len(game.Symbols) == 0 || game.Rows <= 0 || game.Cols <= 0 {
		return nil, types.NewClientError(types.ErrConfigError, fmt.Sprintf("Game %s has no board", game.ID))
	}

	m := newMachine(e, game)
	e.machines[game.ID] = m
	return m, nil
}

// Machine returns the machine for gameID
func (e *Engine) Machine(gameID string) (*Machine, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, exists := e.machines[gameID]
	if !exists {
		return nil, types.NewClientError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
	}
	return m, nil
}

// Spin starts a round on gameID's machine
func (e *Engine) Spin(ctx context.Context, gameID string) (*Round, error) {
	m, err := e.Machine(gameID)
	if err != nil {
		return nil, err
	}
	return m.Spin(ctx)
}

// Games returns the registered game ids in order
func (e *Engine) Games() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	games := make([]string, 0, len(e.machines))
	for id := range e.machines {
		games = append(games, id)
	}
	sort.Strings(games)
	return games
}

// Close cancels in-flight rounds and waits for them to resolve
func (e *Engine) Close() {
	e.closeMu.Lock()
	e.closed = true
	e.closeMu.Unlock()

	e.cancel()
	e.wg.Wait()
}

func (e *Engine) acquire() error {
	e.closeMu.RLock()
	defer e.closeMu.RUnlock()

	if e.closed {
		return types.NewClientError(types.ErrInvalidAction, "Spin engine is closed")
	}
	e.wg.Add(1)
	return nil
}

func (e *Engine) release() {
	e.wg.Done()
}
