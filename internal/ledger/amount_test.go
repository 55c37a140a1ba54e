package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

func newAccount(name string, typ account.Type) *account.Account {
	return &account.Account{ID: uuid.New(), Name: name, Type: typ}
}

func newTx(amount string, debit, credit uuid.UUID) *transaction.Transaction {
	return &transaction.Transaction{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString(amount),
		Debit:  debit,
		Credit: credit,
		Status: transaction.StatusReview,
	}
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		in      string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", in: "100.00", want: "100"},
		{name: "NoFraction", in: "42", want: "42"},
		{name: "Whitespace", in: "  19.99 ", want: "19.99"},
		{name: "Zero", in: "0", want: "0"},
		{name: "Negative", in: "-5.00", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
		{name: "Garbage", in: "12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ParseAmount(tt.in)

			if tt.wantErr {
				require.ErrorIs(t, err, ledger.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseAmountLenient(t *testing.T) {
	assert.True(t, ledger.ParseAmountLenient("25.50").Equal(decimal.RequireFromString("25.50")))
	assert.True(t, ledger.ParseAmountLenient("not a number").IsZero())
	assert.True(t, ledger.ParseAmountLenient("-3").IsZero())
	assert.True(t, ledger.ParseAmountLenient("").IsZero())
}

func TestAmountFor(t *testing.T) {
	checking := newAccount("Checking", account.TypeAsset)
	salary := newAccount("Salary", account.TypeIncome)
	tx := newTx("100.00", checking.ID, salary.ID)

	fromDebit, err := ledger.AmountFor(tx, checking.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", fromDebit.StringFixed(2))

	fromCredit, err := ledger.AmountFor(tx, salary.ID)
	require.NoError(t, err)
	assert.Equal(t, "-100.00", fromCredit.StringFixed(2))

	_, err = ledger.AmountFor(tx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotParticipant)
}

// The same transaction viewed from either side yields exactly opposite
// signed amounts of equal magnitude.
func TestAmountFor_OppositeSides(t *testing.T) {
	amounts := []string{"0.01", "12.34", "999.99", "1000000.00", "0"}

	for _, amt := range amounts {
		debit, credit := uuid.New(), uuid.New()
		tx := newTx(amt, debit, credit)

		fromDebit, err := ledger.AmountFor(tx, debit)
		require.NoError(t, err)

		fromCredit, err := ledger.AmountFor(tx, credit)
		require.NoError(t, err)

		assert.True(t, fromDebit.Equal(fromCredit.Neg()), "amount %s: %s vs %s", amt, fromDebit, fromCredit)
	}
}

func TestCategoryFor(t *testing.T) {
	checking := newAccount("Checking", account.TypeAsset)
	groceries := newAccount("Groceries", account.TypeExpense)
	groceries.Icon = "🛒"

	accounts := map[uuid.UUID]*account.Account{
		checking.ID:  checking,
		groceries.ID: groceries,
	}

	tx := newTx("45.00", groceries.ID, checking.ID)

	t.Run("ResolvesOtherSide", func(t *testing.T) {
		cat, err := ledger.CategoryFor(tx, checking.ID, accounts)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", cat.Label)
		assert.Equal(t, "🛒", cat.Icon)
		assert.Equal(t, groceries.ID, cat.AccountID)
	})

	t.Run("MissingRecordFallsBack", func(t *testing.T) {
		cat, err := ledger.CategoryFor(tx, checking.ID, map[uuid.UUID]*account.Account{checking.ID: checking})
		require.NoError(t, err)
		assert.Equal(t, ledger.LabelSelectCategory, cat.Label)
		assert.Equal(t, account.DefaultIcon, cat.Icon)
	})

	t.Run("NotParticipant", func(t *testing.T) {
		_, err := ledger.CategoryFor(tx, uuid.New(), accounts)
		assert.ErrorIs(t, err, ledger.ErrNotParticipant)
	})
}

func TestAccountName(t *testing.T) {
	checking := newAccount("Checking", account.TypeAsset)
	accounts := map[uuid.UUID]*account.Account{checking.ID: checking}

	assert.Equal(t, "Checking", ledger.AccountName(accounts, checking.ID))
	assert.Equal(t, ledger.LabelUnknownAccount, ledger.AccountName(accounts, uuid.New()))
}

func TestAmountAndCategory(t *testing.T) {
	checking := newAccount("Checking", account.TypeAsset)
	salary := newAccount("Salary", account.TypeIncome)

	accounts := map[uuid.UUID]*account.Account{
		checking.ID: checking,
		salary.ID:   salary,
	}

	tx := newTx("2500.00", checking.ID, salary.ID)

	p, err := ledger.AmountAndCategory(tx, checking.ID, accounts)
	require.NoError(t, err)
	assert.Equal(t, "2500.00", p.Amount.StringFixed(2))
	assert.Equal(t, "Salary", p.Category.Label)

	p, err = ledger.AmountAndCategory(tx, salary.ID, accounts)
	require.NoError(t, err)
	assert.Equal(t, "-2500.00", p.Amount.StringFixed(2))
	assert.Equal(t, "Checking", p.Category.Label)
}
