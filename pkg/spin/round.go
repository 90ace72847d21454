package spin

import (
	"context"
	"time"

	"github.com/fadedpez/neobank/pkg/entities"
)

// Status is the lifecycle state of a Machine
type Status int

const (
	Idle Status = iota
	Animating
	AwaitingResult
	Settling
	Settled
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Animating:
		return "ANIMATING"
	case AwaitingResult:
		return "AWAITING_RESULT"
	case Settling:
		return "SETTLING"
	case Settled:
		return "SETTLED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Spinning reports whether a round is in flight
func (s Status) Spinning() bool {
	return s != Idle
}

// Event is published to machine observers on every status change and
// animation frame. Provisional boards are client-side animation only.
type Event struct {
	Game        string
	Status      Status
	Board       entities.Board
	Provisional bool
}

// Round is one accepted spin request
type Round struct {
	ID        string
	GameID    string
	Wager     int64
	StartedAt time.Time

	done   chan struct{}
	result *entities.SpinResult
	err    error
}

func newRound(id, gameID string, wager int64, startedAt time.Time) *Round {
	return &Round{
		ID:        id,
		GameID:    gameID,
		Wager:     wager,
		StartedAt: startedAt,
		done:      make(chan struct{}),
	}
}

// Done is closed once the round has settled or failed and the machine
// is idle again
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the round completes and returns its outcome
func (r *Round) Wait(ctx context.Context) (*entities.SpinResult, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Round) finish(result *entities.SpinResult, err error) {
	r.result = result
	r.err = err
	close(r.done)
}
