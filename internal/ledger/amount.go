package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/transaction"
)

// Placeholder labels for soft category-resolution failures. These are
// display fallbacks, never correctness fallbacks.
const (
	LabelSelectCategory = "Select Category"
	LabelUnknownAccount = "Unknown Account"
)

// ParseAmount parses a transaction amount from its wire representation.
// Backends serialize amounts sometimes as decimal strings and sometimes as
// numbers; callers normalize either to a string before parsing. Negative
// amounts are rejected: direction lives in the debit/credit sides.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}

	return d, nil
}

// ParseAmountLenient parses like ParseAmount but maps any failure to zero.
// Only the reconciliation preview uses this: an unparsable amount must not
// block the confirmation dialog, it just contributes nothing to the delta.
func ParseAmountLenient(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// AmountFor returns the transaction amount signed from the viewpoint
// account's perspective: positive when the viewpoint is debited, negative
// when it is credited. This viewpoint convention is independent of the
// account-type table in ResolveSign.
func AmountFor(tx *transaction.Transaction, viewpointID uuid.UUID) (decimal.Decimal, error) {
	switch viewpointID {
	case tx.Debit:
		return tx.Amount, nil
	case tx.Credit:
		return tx.Amount.Neg(), nil
	}

	return decimal.Decimal{}, fmt.Errorf("%w: account %s on transaction %s", ErrNotParticipant, viewpointID, tx.ID)
}

// Category is the "other side" of a transaction as seen from a viewpoint
// account: the label and icon shown in the register's category column.
type Category struct {
	AccountID uuid.UUID
	Label     string
	Icon      string
}

// CategoryFor resolves the account on the non-viewpoint side. A missing
// account record falls back to the Select Category placeholder rather than
// failing: the transaction may simply not be categorized yet.
func CategoryFor(tx *transaction.Transaction, viewpointID uuid.UUID, accounts map[uuid.UUID]*account.Account) (Category, error) {
	var otherID uuid.UUID

	switch viewpointID {
	case tx.Debit:
		otherID = tx.Credit
	case tx.Credit:
		otherID = tx.Debit
	default:
		return Category{}, fmt.Errorf("%w: account %s on transaction %s", ErrNotParticipant, viewpointID, tx.ID)
	}

	other, ok := accounts[otherID]
	if !ok || other == nil {
		return Category{AccountID: otherID, Label: LabelSelectCategory, Icon: account.DefaultIcon}, nil
	}

	return Category{AccountID: otherID, Label: other.Name, Icon: other.DisplayIcon()}, nil
}

// AccountName returns the display name for an account id, falling back to
// the Unknown Account placeholder when the record is not loaded.
func AccountName(accounts map[uuid.UUID]*account.Account, id uuid.UUID) string {
	if a, ok := accounts[id]; ok && a != nil {
		return a.Name
	}

	return LabelUnknownAccount
}

// Perspective is a register row viewed from one account: the signed amount
// and the counterparty category.
type Perspective struct {
	Amount   decimal.Decimal
	Category Category
}

// AmountAndCategory derives the full register-row view of a transaction from
// a viewpoint account.
func AmountAndCategory(tx *transaction.Transaction, viewpointID uuid.UUID, accounts map[uuid.UUID]*account.Account) (Perspective, error) {
	amount, err := AmountFor(tx, viewpointID)
	if err != nil {
		return Perspective{}, err
	}

	cat, err := CategoryFor(tx, viewpointID, accounts)
	if err != nil {
		return Perspective{}, err
	}

	return Perspective{Amount: amount, Category: cat}, nil
}
