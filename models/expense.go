package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a club-wide general expense not tied to any match. Team
// financials prorate these by relative team size.
type Expense struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}
