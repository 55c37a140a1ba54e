// Package ledger implements the double-entry display and reporting rules:
// sign conventions, viewpoint-adjusted amounts, budget/balance/flow
// aggregation and the reconciliation balance preview. Every function is a
// pure transform over immutable snapshots; nothing here performs I/O.
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount marks a transaction amount that is not a
	// non-negative decimal.
	ErrInvalidAmount = errors.New("invalid transaction amount")

	// ErrNotParticipant is returned when the viewpoint account sits on
	// neither the debit nor the credit side of a transaction.
	ErrNotParticipant = errors.New("account does not participate in transaction")

	// ErrUnknownAccountType indicates a data-model contract violation. It is
	// never swallowed: silent mis-signing would corrupt financial displays.
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrMissingAccountRecord is a soft failure: the row falls back to a
	// placeholder label and aggregation continues.
	ErrMissingAccountRecord = errors.New("account record not loaded")
)

// RowDiagnostic records a soft per-row failure collected during aggregation.
// One bad record must not blank a whole report, so these are returned to the
// caller alongside the result instead of aborting.
type RowDiagnostic struct {
	AccountID uuid.UUID
	Err       error
}

func (d RowDiagnostic) Error() string {
	return fmt.Sprintf("account %s: %v", d.AccountID, d.Err)
}

func (d RowDiagnostic) Unwrap() error { return d.Err }
