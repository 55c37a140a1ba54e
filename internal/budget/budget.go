// Package budget stores monthly planned amounts for Income and Expense
// accounts. One entry exists per account and month; actual spending is
// computed from transactions at report time, never stored here.
package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("budget entry not found")

	// ErrNotBudgetable is returned for account types that have no place in a
	// monthly budget, such as Asset or Liability accounts.
	ErrNotBudgetable = errors.New("account type cannot be budgeted")
)

// Entry is the planned amount for one account in one month.
type Entry struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Month     time.Time // normalized to the first day of the month, UTC
	Amount    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NormalizeMonth collapses any timestamp to the first day of its month.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
