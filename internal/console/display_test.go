package console

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fadedpez/neobank/internal/config"
	"github.com/fadedpez/neobank/pkg/entities"
)

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "¤0.00", formatBalance(decimal.Zero))
	assert.Equal(t, "¤1,234.50", formatBalance(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "¤-25.00", formatBalance(decimal.NewFromInt(-25)))
}

func TestFormatBoardFillsEmptyCells(t *testing.T) {
	board := entities.Board{{"🚀", "", "💎"}, {"⭐", "⭐", "⭐"}}

	assert.Equal(t, "| 🚀 | ·· | 💎 |\n| ⭐ | ⭐ | ⭐ |", formatBoard(board))
}

func TestFormatTransactionDirection(t *testing.T) {
	at := entities.Timestamp{Time: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	out := entities.Transaction{FromAccount: "NC-1001", ToAccount: "NC-2002", ToName: "Nyx", Amount: decimal.NewFromInt(25), Memo: "rent", Timestamp: at, Type: entities.TransactionTypeTransfer}
	in := entities.Transaction{FromAccount: "NC-3003", ToAccount: "NC-1001", Amount: decimal.NewFromInt(100), Timestamp: at, Type: entities.TransactionTypeExternal}

	assert.Contains(t, formatTransaction(out, "NC-1001"), "-¤25.00")
	assert.Contains(t, formatTransaction(out, "NC-1001"), "Nyx")
	assert.Contains(t, formatTransaction(out, "NC-1001"), "\"rent\"")
	assert.Contains(t, formatTransaction(in, "NC-1001"), "+¤100.00")
	assert.Contains(t, formatTransaction(in, "NC-1001"), "NC-3003")
}

func TestFormatResultShowsServerDetails(t *testing.T) {
	game := config.DefaultGames()[1]
	result := &entities.SpinResult{
		Board:         entities.Board{{"⭐", "⭐", "⭐", "🚀", "💎"}},
		WinAmount:     decimal.NewFromInt(40),
		WinMultiplier: decimal.NewFromInt(8),
		NewBalance:    decimal.NewFromInt(1035),
		WinningLines:  []int{1, 3},
		ScatterCount:  3,
		BonusSpins:    5,
	}

	out := formatResult(game, result)

	assert.Contains(t, out, "Starlight Smuggler")
	assert.Contains(t, out, "WIN ¤40.00 (x8)")
	assert.Contains(t, out, "Winning lines: 1, 3")
	assert.Contains(t, out, "Scatters: 3, bonus spins: 5")
	assert.Contains(t, out, "Balance: ¤1,035.00")
}

func TestFormatResultLosingRound(t *testing.T) {
	game := config.DefaultGames()[0]
	result := &entities.SpinResult{
		Board:      entities.Board{{"💀", "01", "🔌"}},
		WinAmount:  decimal.Zero,
		NewBalance: decimal.NewFromInt(90),
	}

	out := formatResult(game, result)

	assert.NotContains(t, out, "WIN")
	assert.Contains(t, out, "Balance: ¤90.00")
}
