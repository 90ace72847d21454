package history

import (
	"context"
	"time"

	"github.com/fadedpez/neobank/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_history

// Repository defines storage operations for completed spin rounds
type Repository interface {
	// SaveRound stores a completed round. Saving the same id twice is a no-op.
	SaveRound(ctx context.Context, round *entities.RoundRecord) error

	// Rounds returns the most recent rounds of an account for a game, newest first
	Rounds(ctx context.Context, accountNumber, gameID string, limit int) ([]*entities.RoundRecord, error)

	// Statistics aggregates every stored round of an account for a game
	Statistics(ctx context.Context, accountNumber, gameID string) (*entities.GameStatistics, error)

	// Prune removes rounds settled before cutoff and returns how many were removed
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close closes any resources used by the repository
	Close() error
}

// accumulate folds one round into stats
func accumulate(stats *entities.GameStatistics, round *entities.RoundRecord) {
	stats.RoundsPlayed++
	if round.SettledAt.After(stats.LastPlayed) {
		stats.LastPlayed = round.SettledAt
	}
	if round.Status == entities.RoundFailed {
		stats.Failures++
		return
	}
	stats.TotalWagered += round.Wager
	stats.TotalWon = stats.TotalWon.Add(round.WinAmount)
	if round.WinAmount.IsPositive() {
		stats.Wins++
	}
	if round.WinAmount.GreaterThan(stats.BiggestWin) {
		stats.BiggestWin = round.WinAmount
	}
}
