package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Derived financial views. These are computed at read time from
// contributions, matches and general expenses, never persisted.

type PlayerBalance struct {
	PlayerID           int             `json:"player_id"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalMatchExpenses decimal.Decimal `json:"total_match_expenses"`
	Balance            decimal.Decimal `json:"balance"`
}

// MatchExpenseEntry is one line of a player's expense history: the match
// context plus that player's share, not the match total.
type MatchExpenseEntry struct {
	MatchID      int             `json:"match_id"`
	Date         time.Time       `json:"date"`
	TeamName     *string         `json:"team_name,omitempty"`
	Opponent     *string         `json:"opponent,omitempty"`
	Venue        *string         `json:"venue,omitempty"`
	ExpenseShare decimal.Decimal `json:"expense_share"`
}

type PlayerHistory struct {
	Contributions []Contribution      `json:"contributions"`
	MatchExpenses []MatchExpenseEntry `json:"match_expenses"`
}

type TeamFinancials struct {
	TeamID             int             `json:"team_id"`
	TeamName           string          `json:"team_name"`
	PlayerCount        int             `json:"player_count"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	Balance            decimal.Decimal `json:"balance"`
}

type OrganizationSummary struct {
	Teams              []TeamFinancials `json:"teams"`
	TeamCount          int              `json:"team_count"`
	TotalContributions decimal.Decimal  `json:"total_contributions"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	Balance            decimal.Decimal  `json:"balance"`
}
