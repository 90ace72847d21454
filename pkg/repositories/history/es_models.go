package history

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/pkg/entities"
)

// ESRound represents a round document in Elasticsearch
type ESRound struct {
	RoundID       string          `json:"round_id"`
	GameID        string          `json:"game_id"`
	AccountNumber string          `json:"account_number"`
	Wager         int64           `json:"wager"`
	Status        string          `json:"status"`
	Won           bool            `json:"won"`
	WinAmount     decimal.Decimal `json:"win_amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Symbols       []string        `json:"symbols,omitempty"`
	Error         string          `json:"error,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	SettledAt     time.Time       `json:"settled_at"`
}

// newESRound flattens a round for indexing; the board is kept as the
// row-major list of its symbols
func newESRound(round *entities.RoundRecord) ESRound {
	doc := ESRound{
		RoundID:       round.ID,
		GameID:        round.GameID,
		AccountNumber: round.AccountNumber,
		Wager:         round.Wager,
		Status:        string(round.Status),
		Won:           round.WinAmount.IsPositive(),
		WinAmount:     round.WinAmount,
		NewBalance:    round.NewBalance,
		Error:         round.Error,
		StartedAt:     round.StartedAt.UTC(),
		SettledAt:     round.SettledAt.UTC(),
	}
	for _, row := range round.Board {
		doc.Symbols = append(doc.Symbols, row...)
	}
	return doc
}

const roundMapping = `{
	"mappings": {
		"properties": {
			"round_id": { "type": "keyword" },
			"game_id": { "type": "keyword" },
			"account_number": { "type": "keyword" },
			"wager": { "type": "long" },
			"status": { "type": "keyword" },
			"won": { "type": "boolean" },
			"win_amount": { "type": "scaled_float", "scaling_factor": 100 },
			"new_balance": { "type": "scaled_float", "scaling_factor": 100 },
			"symbols": { "type": "keyword" },
			"error": { "type": "text" },
			"started_at": { "type": "date" },
			"settled_at": { "type": "date" }
		}
	}
}`
