package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Contribution struct {
	ID          int             `json:"id"`
	PlayerID    int             `json:"player_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	Player *Player `json:"player,omitempty"`
}
