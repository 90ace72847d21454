package history

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/neobank/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// rounds in insertion order
	rounds []*entities.RoundRecord
	ids    map[string]bool
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		ids: make(map[string]bool),
	}
}

// SaveRound stores a round
func (r *MemoryRepository) SaveRound(ctx context.Context, round *entities.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids[round.ID] {
		return nil
	}
	stored := *round
	stored.Board = round.Board.Clone()
	r.rounds = append(r.rounds, &stored)
	r.ids[round.ID] = true
	return nil
}

// Rounds returns recent rounds, newest first
func (r *MemoryRepository) Rounds(ctx context.Context, accountNumber, gameID string, limit int) ([]*entities.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []*entities.RoundRecord{}
	for i := len(r.rounds) - 1; i >= 0; i-- {
		if limit > 0 && len(results) >= limit {
			break
		}
		round := r.rounds[i]
		if round.AccountNumber != accountNumber || round.GameID != gameID {
			continue
		}
		copied := *round
		results = append(results, &copied)
	}
	return results, nil
}

// Statistics aggregates stored rounds
func (r *MemoryRepository) Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &entities.GameStatistics{
		GameID:        gameID,
		AccountNumber: accountNumber,
	}
	for _, round := range r.rounds {
		if round.AccountNumber == accountNumber && round.GameID == gameID {
			accumulate(stats, round)
		}
	}
	return stats, nil
}

// Prune drops rounds settled before cutoff
func (r *MemoryRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rounds[:0]
	var removed int64
	for _, round := range r.rounds {
		if round.SettledAt.Before(cutoff) {
			delete(r.ids, round.ID)
			removed++
			continue
		}
		kept = append(kept, round)
	}
	for i := len(kept); i < len(r.rounds); i++ {
		r.rounds[i] = nil
	}
	r.rounds = kept
	return removed, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
