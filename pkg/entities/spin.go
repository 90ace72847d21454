package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Board is a grid of symbol tokens, row major
type Board [][]string

// NewBoard returns an empty rows x cols board
func NewBoard(rows, cols int) Board {
	b := make(Board, rows)
	for i := range b {
		b[i] = make([]string, cols)
	}
	return b
}

// Clone returns a deep copy so callers can never mutate a published board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, row := range b {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Equal reports whether two boards hold the same symbols
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(other[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders one row per line
func (b Board) String() string {
	lines := make([]string, len(b))
	for i, row := range b {
		lines[i] = strings.Join(row, " ")
	}
	return strings.Join(lines, "\n")
}

// SpinResult is the authoritative outcome of one spin as reported by the
// server. The client never derives any of these fields itself.
type SpinResult struct {
	GameID        string          `json:"game_id"`
	Board         Board           `json:"board"`
	Bet           decimal.Decimal `json:"bet"`
	TotalBet      decimal.Decimal `json:"total_bet"`
	WinAmount     decimal.Decimal `json:"win_amount"`
	WinMultiplier decimal.Decimal `json:"win_multiplier"`
	NewBalance    decimal.Decimal `json:"balance"`
	WinningLines  []int           `json:"winning_lines,omitempty"`
	ScatterCount  int             `json:"scatter_count,omitempty"`
	BonusSpins    int             `json:"bonus_spins,omitempty"`
}

// Won reports whether the round paid out
func (r *SpinResult) Won() bool {
	return r.WinAmount.IsPositive()
}
