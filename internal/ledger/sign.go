package ledger

import (
	"fmt"

	"github.com/centbook/centbook/internal/account"
)

// Side identifies which leg of a transaction an account occupies.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// positiveSide maps each account type to the side that increases it. The
// table is fixed, not configurable: assets and expenses (and goals, which
// behave like assets) grow on debit; liabilities, income and equity grow on
// credit.
var positiveSide = map[account.Type]Side{
	account.TypeAsset:     SideDebit,
	account.TypeLiability: SideCredit,
	account.TypeIncome:    SideCredit,
	account.TypeExpense:   SideDebit,
	account.TypeEquity:    SideCredit,
	account.TypeGoal:      SideDebit,
}

// ResolveSign returns +1 or -1 for an account type occupying the given side.
// This is the account-type convention that governs aggregate report totals.
// It is distinct from the viewpoint convention of AmountFor, which renders
// the credit side negative regardless of account type; the two must never be
// collapsed into one.
func ResolveSign(t account.Type, side Side) (int, error) {
	if side != SideDebit && side != SideCredit {
		return 0, fmt.Errorf("invalid transaction side %q", side)
	}

	pos, ok := positiveSide[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAccountType, t)
	}

	if side == pos {
		return 1, nil
	}

	return -1, nil
}

// typeMultiplier is ResolveSign for the raw debit-positive sums produced by
// the stores: it converts a debit-minus-credit total into the display total
// for the account type.
func typeMultiplier(t account.Type) (int, error) {
	return ResolveSign(t, SideDebit)
}
