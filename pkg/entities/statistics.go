package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundStatus is the terminal state a recorded round reached
type RoundStatus string

const (
	RoundSettled RoundStatus = "SETTLED"
	RoundFailed  RoundStatus = "FAILED"
)

// RoundRecord is one completed spin as kept in local history
type RoundRecord struct {
	ID            string          `json:"id"`
	GameID        string          `json:"game_id"`
	AccountNumber string          `json:"account_number"`
	Wager         int64           `json:"wager"`
	Status        RoundStatus     `json:"status"`
	WinAmount     decimal.Decimal `json:"win_amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Board         Board           `json:"board,omitempty"`
	Error         string          `json:"error,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	SettledAt     time.Time       `json:"settled_at"`
}

// GameStatistics aggregates local round history for one game
type GameStatistics struct {
	GameID        string
	AccountNumber string
	RoundsPlayed  int
	Wins          int
	Failures      int
	TotalWagered  int64
	TotalWon      decimal.Decimal
	BiggestWin    decimal.Decimal
	LastPlayed    time.Time
}

// NetProfit calculates winnings minus wagers over settled rounds
func (s *GameStatistics) NetProfit() decimal.Decimal {
	return s.TotalWon.Sub(decimal.NewFromInt(s.TotalWagered))
}

// WinRate calculates the win rate over settled rounds as a percentage
func (s *GameStatistics) WinRate() float64 {
	settled := s.RoundsPlayed - s.Failures
	if settled <= 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(settled) * 100.0
}
