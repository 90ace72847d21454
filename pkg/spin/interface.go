package spin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/pkg/entities"
	"github.com/fadedpez/neobank/pkg/notify"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_spin

// Spinner performs the authoritative spin against the backend
type Spinner interface {
	Spin(ctx context.Context, endpoint string, bet int64) (*entities.SpinResult, error)
}

// Session is the slice of the session store a round needs
type Session interface {
	Credential() (string, error)
	Identity() (entities.Identity, bool)
	UpdateBalance(balance decimal.Decimal)
}

// Wagers supplies the current bet of a game
type Wagers interface {
	Amount(gameID string) (int64, error)
}

// Notifier shows round outcomes to the user
type Notifier interface {
	PublishCategory(message string, kind notify.Kind, category string) notify.Toast
}

// Recorder keeps completed rounds
type Recorder interface {
	SaveRound(ctx context.Context, round *entities.RoundRecord) error
}
