package gateway

import "github.com/shopspring/decimal"

type loginRequest struct {
	CharacterName string `json:"character_name" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

type registerRequest struct {
	CharacterName string `json:"character_name" validate:"required,max=50"`
	Password      string `json:"password" validate:"required"`
	Faction       string `json:"faction,omitempty" validate:"max=50"`
}

type transferRequest struct {
	ToAccount string          `json:"to_account" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Memo      string          `json:"memo,omitempty" validate:"max=140"`
}

type spinRequest struct {
	BetAmount int64 `json:"bet_amount" validate:"gt=0"`
}

type profileRequest struct {
	Faction        string `json:"faction" validate:"max=50"`
	ProfilePicture string `json:"profile_picture"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type adjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"ne=0"`
	Reason string          `json:"reason" validate:"required"`
}

type apiKeyRequest struct {
	Description string `json:"description" validate:"max=200"`
}

// CasinoConfigUpdate changes a game's server-side settings; nil fields are
// left untouched
type CasinoConfigUpdate struct {
	IsEnabled        *bool            `json:"is_enabled,omitempty"`
	PayoutPercentage *decimal.Decimal `json:"payout_percentage,omitempty" validate:"omitempty,gte=50,lte=99"`
}

type factionCreditsRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Reason string          `json:"reason,omitempty"`
}

type factionRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description,omitempty"`
}
