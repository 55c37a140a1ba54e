package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
)

func TestResolveSign(t *testing.T) {
	type testCase struct {
		name    string
		typ     account.Type
		side    ledger.Side
		want    int
		wantErr error
	}

	tests := []testCase{
		{name: "AssetDebit", typ: account.TypeAsset, side: ledger.SideDebit, want: 1},
		{name: "AssetCredit", typ: account.TypeAsset, side: ledger.SideCredit, want: -1},
		{name: "GoalDebit", typ: account.TypeGoal, side: ledger.SideDebit, want: 1},
		{name: "GoalCredit", typ: account.TypeGoal, side: ledger.SideCredit, want: -1},
		{name: "ExpenseDebit", typ: account.TypeExpense, side: ledger.SideDebit, want: 1},
		{name: "ExpenseCredit", typ: account.TypeExpense, side: ledger.SideCredit, want: -1},
		{name: "LiabilityCredit", typ: account.TypeLiability, side: ledger.SideCredit, want: 1},
		{name: "LiabilityDebit", typ: account.TypeLiability, side: ledger.SideDebit, want: -1},
		{name: "IncomeCredit", typ: account.TypeIncome, side: ledger.SideCredit, want: 1},
		{name: "IncomeDebit", typ: account.TypeIncome, side: ledger.SideDebit, want: -1},
		{name: "EquityCredit", typ: account.TypeEquity, side: ledger.SideCredit, want: 1},
		{name: "EquityDebit", typ: account.TypeEquity, side: ledger.SideDebit, want: -1},
		{name: "UnknownType", typ: account.Type("Crypto"), side: ledger.SideDebit, wantErr: ledger.ErrUnknownAccountType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ResolveSign(tt.typ, tt.side)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSign_InvalidSide(t *testing.T) {
	_, err := ledger.ResolveSign(account.TypeAsset, ledger.Side("left"))
	assert.Error(t, err)
}

// Sign consistency: for every known type the two sides resolve to opposite
// multipliers.
func TestResolveSign_SidesAreOpposite(t *testing.T) {
	types := []account.Type{
		account.TypeAsset, account.TypeLiability, account.TypeIncome,
		account.TypeExpense, account.TypeEquity, account.TypeGoal,
	}

	for _, typ := range types {
		debit, err := ledger.ResolveSign(typ, ledger.SideDebit)
		require.NoError(t, err)

		credit, err := ledger.ResolveSign(typ, ledger.SideCredit)
		require.NoError(t, err)

		assert.Equal(t, -debit, credit, "type %s", typ)
	}
}
