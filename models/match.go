package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Match struct {
	ID            int             `json:"id"`
	TeamID        *int            `json:"team_id,omitempty"`
	Date          time.Time       `json:"date"`
	Opponent      *string         `json:"opponent,omitempty"`
	Venue         *string         `json:"venue,omitempty"`
	GroundFee     decimal.Decimal `json:"ground_fee"`
	BallAmount    decimal.Decimal `json:"ball_amount"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`

	// Derived on every roster change, never edited directly.
	TotalExpense     decimal.Decimal `json:"total_expense"`
	PlayersCount     int             `json:"players_count"`
	ExpensePerPlayer decimal.Decimal `json:"expense_per_player"`

	CreatedAt time.Time `json:"created_at"`

	Team           *Team                `json:"team,omitempty"`
	Participations []MatchParticipation `json:"participations,omitempty"`
}

type MatchParticipation struct {
	ID           int             `json:"id"`
	MatchID      int             `json:"match_id"`
	PlayerID     int             `json:"player_id"`
	IsPaying     bool            `json:"is_paying"`
	ExpenseShare decimal.Decimal `json:"expense_share"`
	CreatedAt    time.Time       `json:"created_at"`

	Player *Player `json:"player,omitempty"`
}
