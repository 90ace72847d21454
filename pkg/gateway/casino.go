package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/entities"
)

// SpinFailedMessage is used when a spin fails without a server message
const SpinFailedMessage = "Spin failed"

// spinResponse covers both machines: the single-row game reports reels
// and bet, the grid game reports grid, bet_per_line and total_bet
type spinResponse struct {
	Reels         []string            `json:"reels"`
	Grid          [][]string          `json:"grid"`
	Bet           decimal.Decimal     `json:"bet"`
	BetPerLine    decimal.Decimal     `json:"bet_per_line"`
	TotalBet      decimal.Decimal     `json:"total_bet"`
	WinAmount     decimal.Decimal     `json:"win_amount"`
	WinMultiplier decimal.Decimal     `json:"win_multiplier"`
	Balance       decimal.NullDecimal `json:"balance"`
	WinningLines  []int               `json:"winning_lines"`
	ScatterCount  int                 `json:"scatter_count"`
	BonusSpins    int                 `json:"bonus_spins"`
}

// Spin submits a wager to the machine at endpoint and returns the server's
// authoritative outcome
func (c *Client) Spin(ctx context.Context, endpoint string, bet int64) (*entities.SpinResult, error) {
	var resp spinResponse
	err := c.do(ctx, call{
		op:       "spin",
		method:   http.MethodPost,
		path:     "/api/v1/casino/" + url.PathEscape(endpoint) + "/spin",
		body:     &spinRequest{BetAmount: bet},
		auth:     true,
		fallback: SpinFailedMessage,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result()
}

func (r *spinResponse) result() (*entities.SpinResult, error) {
	var board entities.Board
	switch {
	case len(r.Grid) > 0:
		board = entities.Board(r.Grid).Clone()
	case len(r.Reels) > 0:
		board = entities.Board{append([]string(nil), r.Reels...)}
	default:
		return nil, types.NewRemoteFailure(http.StatusOK, SpinFailedMessage)
	}
	if !r.Balance.Valid {
		return nil, types.NewRemoteFailure(http.StatusOK, SpinFailedMessage)
	}

	bet := r.Bet
	if bet.IsZero() {
		bet = r.BetPerLine
	}
	total := r.TotalBet
	if total.IsZero() {
		total = bet
	}

	return &entities.SpinResult{
		Board:         board,
		Bet:           bet,
		TotalBet:      total,
		WinAmount:     r.WinAmount,
		WinMultiplier: r.WinMultiplier,
		NewBalance:    r.Balance.Decimal,
		WinningLines:  r.WinningLines,
		ScatterCount:  r.ScatterCount,
		BonusSpins:    r.BonusSpins,
	}, nil
}
