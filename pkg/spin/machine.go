package spin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/metrics"
	"github.com/fadedpez/neobank/pkg/notify"
)

// FailedMessage is shown when a failed round carries no server message
const FailedMessage = "Spin failed"

const recordTimeout = 5 * time.Second

// Machine runs the rounds of a single game. At most one round is in
// flight; requests made while spinning are dropped.
type Machine struct {
	game   config.GameConfig
	engine *Engine

	mu     sync.Mutex
	status Status
	board  entities.Board
	round  *Round

	subsMu sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func newMachine(engine *Engine, game config.GameConfig) *Machine {
	return &Machine{
		game:   game,
		engine: engine,
		status: Idle,
		board:  entities.NewBoard(game.Rows, game.Cols),
		subs:   make(map[int]func(Event)),
	}
}

// Game returns the game configuration the machine runs
func (m *Machine) Game() config.GameConfig {
	return m.game
}

// Status returns the current lifecycle state
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Board returns a copy of the visible board
func (m *Machine) Board() entities.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Clone()
}

// Spin starts a round. It returns (nil, nil) when a round is already in
// flight and NOT_AUTHENTICATED when there is no session.
func (m *Machine) Spin(ctx context.Context) (*Round, error) {
	e := m.engine
	if _, err := e.session.Credential(); err != nil {
		return nil, err
	}
	wager, err := e.wagers.Amount(m.game.ID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.status != Idle {
		m.mu.Unlock()
		metrics.SpinRequestsDropped.WithLabelValues(m.game.ID).Inc()
		e.logger.Debug("[SPIN] %s: spin ignored, round already in flight", m.game.ID)
		return nil, nil
	}
	if err := e.acquire(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	round := newRound(uuid.New().String(), m.game.ID, wager, e.clock.Now())
	m.status = Animating
	m.round = round
	board := m.board.Clone()
	m.mu.Unlock()

	e.logger.Info("[SPIN] %s: round %s started with wager %d", m.game.ID, round.ID, wager)
	m.publish(Event{Game: m.game.ID, Status: Animating, Board: board})

	go m.run(e.ctx, round)
	return round, nil
}

// Subscribe registers fn for status changes and frames. Observers are
// called from the round goroutine and must not block.
func (m *Machine) Subscribe(fn func(Event)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Machine) run(ctx context.Context, round *Round) {
	e := m.engine
	defer e.release()

	animCtx, cancelAnim := context.WithCancel(ctx)
	animDone := make(chan struct{})
	go m.animate(animCtx, animDone)

	var stopOnce sync.Once
	stopAnimation := func() {
		stopOnce.Do(func() {
			cancelAnim()
			<-animDone
		})
	}
	defer stopAnimation()

	var (
		result  *entities.SpinResult
		callErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m.transition(Animating, AwaitingResult)
		result, callErr = e.spinner.Spin(gctx, m.game.Endpoint, round.Wager)
		return nil
	})
	g.Go(func() error {
		select {
		case <-e.clock.After(m.game.SpinDuration):
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil && callErr == nil {
		callErr = types.WrapError(types.ErrInternalError, FailedMessage, err)
	}

	m.setStatus(Settling)
	stopAnimation()

	if callErr != nil || result == nil {
		result = nil
		if callErr == nil {
			callErr = types.NewClientError(types.ErrRemoteFailure, FailedMessage)
		}
		m.fail(ctx, round, callErr)
	} else {
		m.settle(round, result)
	}

	m.record(ctx, round, result, callErr)
	metrics.SpinRoundDuration.WithLabelValues(m.game.ID).Observe(e.clock.Since(round.StartedAt).Seconds())

	m.mu.Lock()
	m.status = Idle
	m.round = nil
	board := m.board.Clone()
	m.mu.Unlock()
	m.publish(Event{Game: m.game.ID, Status: Idle, Board: board})

	round.finish(result, callErr)
}

// settle commits the authoritative board, then the balance, then the toast
func (m *Machine) settle(round *Round, result *entities.SpinResult) {
	e := m.engine

	m.mu.Lock()
	m.board = result.Board.Clone()
	m.status = Settled
	board := m.board.Clone()
	m.mu.Unlock()
	m.publish(Event{Game: m.game.ID, Status: Settled, Board: board})

	e.session.UpdateBalance(result.NewBalance)
	if result.Won() {
		e.notifier.PublishCategory(fmt.Sprintf("You won ¤%s!", result.WinAmount.String()), notify.Success, notify.CategoryWin)
	}

	metrics.SpinRoundsTotal.WithLabelValues(m.game.ID, metrics.OutcomeSettled).Inc()
	e.logger.Info("[SPIN] %s: round %s settled, won %s", m.game.ID, round.ID, result.WinAmount.String())
}

// fail leaves the last animation frame in place and never touches the balance
func (m *Machine) fail(ctx context.Context, round *Round, err error) {
	e := m.engine

	m.mu.Lock()
	m.status = Failed
	board := m.board.Clone()
	m.mu.Unlock()
	m.publish(Event{Game: m.game.ID, Status: Failed, Board: board})

	metrics.SpinRoundsTotal.WithLabelValues(m.game.ID, metrics.OutcomeFailed).Inc()
	e.logger.Warn("[SPIN] %s: round %s failed: %v", m.game.ID, round.ID, err)

	// session expiry has its own notification; teardown is silent
	if types.Is(err, types.ErrSessionExpired) || ctx.Err() != nil {
		return
	}
	e.notifier.PublishCategory(types.MessageOf(err, FailedMessage), notify.Error, notify.CategoryGeneral)
}

func (m *Machine) record(ctx context.Context, round *Round, result *entities.SpinResult, err error) {
	e := m.engine
	if e.recorder == nil {
		return
	}

	rec := &entities.RoundRecord{
		ID:        round.ID,
		GameID:    m.game.ID,
		Wager:     round.Wager,
		StartedAt: round.StartedAt,
		SettledAt: e.clock.Now(),
	}
	if identity, ok := e.session.Identity(); ok {
		rec.AccountNumber = identity.AccountNumber
	}
	if err != nil {
		rec.Status = entities.RoundFailed
		rec.Error = types.MessageOf(err, FailedMessage)
	} else {
		rec.Status = entities.RoundSettled
		rec.WinAmount = result.WinAmount
		rec.NewBalance = result.NewBalance
		rec.Board = result.Board.Clone()
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := e.recorder.SaveRound(recordCtx, rec); err != nil {
		e.logger.Warn("[SPIN] %s: failed to record round %s: %v", m.game.ID, round.ID, err)
	}
}

// animate fills provisional frames until ctx is cancelled
func (m *Machine) animate(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := m.engine.clock.NewTicker(m.game.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			frame := m.randomBoard()

			m.mu.Lock()
			if m.status != Animating && m.status != AwaitingResult {
				m.mu.Unlock()
				continue
			}
			m.board = frame
			status := m.status
			m.mu.Unlock()

			m.publish(Event{Game: m.game.ID, Status: status, Board: frame.Clone(), Provisional: true})
		}
	}
}

func (m *Machine) randomBoard() entities.Board {
	symbols := m.game.Symbols
	board := entities.NewBoard(m.game.Rows, m.game.Cols)
	for r := range board {
		for c := range board[r] {
			board[r][c] = symbols[m.engine.intn(len(symbols))]
		}
	}
	return board
}

func (m *Machine) transition(from, to Status) {
	m.mu.Lock()
	if m.status != from {
		m.mu.Unlock()
		return
	}
	m.status = to
	board := m.board.Clone()
	m.mu.Unlock()
	m.publish(Event{Game: m.game.ID, Status: to, Board: board})
}

func (m *Machine) setStatus(status Status) {
	m.mu.Lock()
	m.status = status
	board := m.board.Clone()
	m.mu.Unlock()
	m.publish(Event{Game: m.game.ID, Status: status, Board: board})
}

func (m *Machine) publish(event Event) {
	m.subsMu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
