package wager

import (
	"fmt"
	"sync"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/internal/types"
)

// Spec is the wager state of one game. Min <= Amount <= Max and Amount is
// a multiple of Step at all times.
type Spec struct {
	GameID string
	Amount int64
	Min    int64
	Max    int64
	Step   int64
}

// Controller owns the current wager of every configured game. It is the
// only writer of wager amounts.
type Controller struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

// NewController creates a controller seeded with each game's default bet
func NewController(games []config.GameConfig) *Controller {
	c := &Controller{
		specs: make(map[string]*Spec, len(games)),
	}
	for _, g := range games {
		c.specs[g.ID] = &Spec{
			GameID: g.ID,
			Amount: g.DefaultBet,
			Min:    g.MinBet,
			Max:    g.MaxBet,
			Step:   g.BetStep,
		}
	}
	return c
}

// Increase raises the wager by one step, clamped to Max
func (c *Controller) Increase(gameID string) (int64, error) {
	return c.mutate(gameID, func(s *Spec) int64 { return s.Amount + s.Step })
}

// Decrease lowers the wager by one step, clamped to Min
func (c *Controller) Decrease(gameID string) (int64, error) {
	return c.mutate(gameID, func(s *Spec) int64 { return s.Amount - s.Step })
}

// Set snaps amount down onto the step grid and clamps it to the range
func (c *Controller) Set(gameID string, amount int64) (int64, error) {
	return c.mutate(gameID, func(s *Spec) int64 { return amount })
}

// Amount returns the current wager for gameID
func (c *Controller) Amount(gameID string) (int64, error) {
	spec, err := c.Spec(gameID)
	if err != nil {
		return 0, err
	}
	return spec.Amount, nil
}

// Spec returns a copy of the wager state for gameID
func (c *Controller) Spec(gameID string) (Spec, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.specs[gameID]
	if !ok {
		return Spec{}, types.NewClientError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
	}
	return *spec, nil
}

func (c *Controller) mutate(gameID string, next func(*Spec) int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec, ok := c.specs[gameID]
	if !ok {
		return 0, types.NewClientError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
	}
	spec.Amount = Clamp(next(spec), spec.Min, spec.Max, spec.Step)
	return spec.Amount, nil
}

// Clamp snaps amount down to a multiple of step and bounds it to
// [min, max]. min and max must themselves be multiples of step.
func Clamp(amount, min, max, step int64) int64 {
	if amount <= min {
		return min
	}
	if amount >= max {
		return max
	}
	return amount - amount%step
}
