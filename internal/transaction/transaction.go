package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")

	// ErrSameAccount is returned when debit and credit reference the same account.
	ErrSameAccount = errors.New("debit and credit must be different accounts")

	// ErrNegativeAmount is returned for a negative amount. Direction is never
	// encoded in the amount; it is carried by the debit/credit sides.
	ErrNegativeAmount = errors.New("amount must not be negative")

	ErrInvalidStatus = errors.New("invalid transaction status")
)

// Status represents the review lifecycle of a transaction.
type Status string

const (
	StatusReview      Status = "review"
	StatusCategorized Status = "categorized"
	StatusReconciled  Status = "reconciled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReview, StatusCategorized, StatusReconciled:
		return true
	}

	return false
}

// CanTransition reports whether a status change is allowed. Every move
// between two distinct known statuses is valid and reversible; the machine
// only rejects unknown statuses and no-op transitions.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid() && from != to
}

// Transaction is a double-entry record: Amount is non-negative and the
// direction is encoded by which account sits on the debit (receiving) and
// credit (giving) side.
type Transaction struct {
	ID       uuid.UUID
	Date     time.Time // calendar date, no time component
	Amount   decimal.Decimal
	Debit    uuid.UUID
	Credit   uuid.UUID
	Notes    string
	Merchant string
	Status   Status

	// IsReconciled is a legacy mirror of Status == reconciled, kept in sync
	// by the store for older API consumers.
	IsReconciled bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SetStatus changes the status and keeps the legacy reconciled flag in sync.
func (t *Transaction) SetStatus(s Status) {
	t.Status = s
	t.IsReconciled = s == StatusReconciled
}

// Participates reports whether the given account sits on either side.
func (t *Transaction) Participates(accountID uuid.UUID) bool {
	return t.Debit == accountID || t.Credit == accountID
}
