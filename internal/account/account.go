package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("account not found")

// ErrSubTypeMismatch is returned when an account is assigned a subtype that
// belongs to a different account type.
var ErrSubTypeMismatch = errors.New("subtype belongs to a different account type")

// Type classifies accounts in the chart of accounts.
type Type string

const (
	TypeAsset     Type = "Asset"
	TypeLiability Type = "Liability"
	TypeIncome    Type = "Income"
	TypeExpense   Type = "Expense"
	TypeEquity    Type = "Equity"
	TypeGoal      Type = "Goal"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeIncome, TypeExpense, TypeEquity, TypeGoal:
		return true
	}

	return false
}

// DefaultIcon is shown for accounts without an icon of their own.
const DefaultIcon = "💰"

// DefaultGroup is the grouping label for accounts without a subtype.
const DefaultGroup = "Other"

// SubType is a named grouping scoped to a single account type.
type SubType struct {
	ID          uuid.UUID
	Name        string
	AccountType Type
}

// Account is one entry in the chart of accounts. Balance and
// ReconciledBalance are derived from transactions and recomputed by the
// store; they are never written directly by callers.
type Account struct {
	ID                uuid.UUID
	Name              string
	Num               int
	Type              Type
	SubType           *SubType
	Icon              string
	Balance           decimal.Decimal
	ReconciledBalance decimal.Decimal
	InBankFeed        bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Goal is the savings target attached to a Goal-type account.
type Goal struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	TargetAmount decimal.Decimal
	CreatedAt    time.Time
}

// DisplayIcon returns the account icon, falling back to the default glyph.
func (a *Account) DisplayIcon() string {
	if a.Icon == "" {
		return DefaultIcon
	}

	return a.Icon
}

// GroupName returns the subtype label used for report grouping.
func (a *Account) GroupName() string {
	if a.SubType == nil {
		return DefaultGroup
	}

	return a.SubType.Name
}
