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

func newGroupedAccount(name string, typ account.Type, subType string) *account.Account {
	a := newAccount(name, typ)
	if subType != "" {
		a.SubType = &account.SubType{ID: uuid.New(), Name: subType, AccountType: typ}
	}

	return a
}

func budgetLine(id uuid.UUID, budgeted, actual string) ledger.BudgetLine {
	return ledger.BudgetLine{
		AccountID: id,
		Budgeted:  decimal.RequireFromString(budgeted),
		Actual:    decimal.RequireFromString(actual),
	}
}

func TestAggregateBudget(t *testing.T) {
	salary := newGroupedAccount("Salary", account.TypeIncome, "")
	rent := newGroupedAccount("Rent", account.TypeExpense, "Housing")
	utilities := newGroupedAccount("Utilities", account.TypeExpense, "Housing")
	dining := newGroupedAccount("Dining", account.TypeExpense, "")

	accounts := []*account.Account{salary, rent, utilities, dining}
	lines := []ledger.BudgetLine{
		budgetLine(salary.ID, "3000.00", "3200.00"),
		budgetLine(rent.ID, "1500.00", "1500.00"),
		budgetLine(utilities.ID, "200.00", "250.00"),
		budgetLine(dining.ID, "300.00", "180.00"),
	}

	table, err := ledger.AggregateBudget(accounts, lines)
	require.NoError(t, err)
	require.Len(t, table.Blocks, 2)

	income := table.Blocks[0]
	require.Equal(t, account.TypeIncome, income.Type)
	require.Len(t, income.Groups, 1)
	assert.Equal(t, account.DefaultGroup, income.Groups[0].SubType)

	// Income: difference is actual - budgeted.
	salaryRow := income.Groups[0].Rows[0]
	assert.Equal(t, "200.00", salaryRow.Difference.StringFixed(2))

	expense := table.Blocks[1]
	require.Equal(t, account.TypeExpense, expense.Type)
	require.Len(t, expense.Groups, 2)
	assert.Equal(t, "Housing", expense.Groups[0].SubType)
	assert.Equal(t, account.DefaultGroup, expense.Groups[1].SubType)

	// Expense: difference is budgeted - actual.
	housing := expense.Groups[0]
	assert.Equal(t, "0.00", housing.Rows[0].Difference.StringFixed(2))
	assert.Equal(t, "-50.00", housing.Rows[1].Difference.StringFixed(2))
	assert.Equal(t, "-50.00", housing.Subtotal.Difference.StringFixed(2))

	// Grand totals are Income minus Expense for every column.
	assert.Equal(t, "1000.00", table.GrandTotal.Budgeted.StringFixed(2))
	assert.Equal(t, "1270.00", table.GrandTotal.Actual.StringFixed(2))
	assert.Equal(t, "130.00", table.GrandTotal.Difference.StringFixed(2))

	assert.Empty(t, table.Diagnostics)
}

// Aggregation associativity: subtotals are sums of their rows, type totals
// sums of their subtotals, and the grand total income minus expense.
func TestAggregateBudget_SumOfPartsEqualsWhole(t *testing.T) {
	accounts := []*account.Account{
		newGroupedAccount("Salary", account.TypeIncome, "Work"),
		newGroupedAccount("Bonus", account.TypeIncome, "Work"),
		newGroupedAccount("Interest", account.TypeIncome, ""),
		newGroupedAccount("Rent", account.TypeExpense, "Housing"),
		newGroupedAccount("Power", account.TypeExpense, "Housing"),
		newGroupedAccount("Groceries", account.TypeExpense, "Food"),
		newGroupedAccount("Dining", account.TypeExpense, "Food"),
	}

	amounts := []struct{ budgeted, actual string }{
		{"3000.00", "3123.45"},
		{"500.00", "0.00"},
		{"12.34", "11.11"},
		{"1500.00", "1500.00"},
		{"180.55", "210.40"},
		{"400.00", "377.89"},
		{"250.00", "301.22"},
	}

	lines := make([]ledger.BudgetLine, len(accounts))
	for i, a := range accounts {
		lines[i] = budgetLine(a.ID, amounts[i].budgeted, amounts[i].actual)
	}

	table, err := ledger.AggregateBudget(accounts, lines)
	require.NoError(t, err)

	grand := ledger.BudgetTotals{}

	for _, block := range table.Blocks {
		total := ledger.BudgetTotals{}

		for _, g := range block.Groups {
			sub := ledger.BudgetTotals{}
			for _, row := range g.Rows {
				sub.Budgeted = sub.Budgeted.Add(row.Budgeted)
				sub.Actual = sub.Actual.Add(row.Actual)
				sub.Difference = sub.Difference.Add(row.Difference)
			}

			assert.True(t, sub.Budgeted.Equal(g.Subtotal.Budgeted))
			assert.True(t, sub.Actual.Equal(g.Subtotal.Actual))
			assert.True(t, sub.Difference.Equal(g.Subtotal.Difference))

			total.Budgeted = total.Budgeted.Add(g.Subtotal.Budgeted)
			total.Actual = total.Actual.Add(g.Subtotal.Actual)
			total.Difference = total.Difference.Add(g.Subtotal.Difference)
		}

		assert.True(t, total.Budgeted.Equal(block.Total.Budgeted))
		assert.True(t, total.Actual.Equal(block.Total.Actual))
		assert.True(t, total.Difference.Equal(block.Total.Difference))

		if block.Type == account.TypeIncome {
			grand.Budgeted = grand.Budgeted.Add(block.Total.Budgeted)
			grand.Actual = grand.Actual.Add(block.Total.Actual)
			grand.Difference = grand.Difference.Add(block.Total.Difference)
		} else {
			grand.Budgeted = grand.Budgeted.Sub(block.Total.Budgeted)
			grand.Actual = grand.Actual.Sub(block.Total.Actual)
			grand.Difference = grand.Difference.Sub(block.Total.Difference)
		}
	}

	assert.True(t, grand.Budgeted.Equal(table.GrandTotal.Budgeted))
	assert.True(t, grand.Actual.Equal(table.GrandTotal.Actual))
	assert.True(t, grand.Difference.Equal(table.GrandTotal.Difference))
}

// Running aggregation twice on identical inputs yields identical decimal
// outputs: decimal math has no accumulation drift.
func TestAggregateBudget_Idempotent(t *testing.T) {
	accounts := make([]*account.Account, 0, 40)
	lines := make([]ledger.BudgetLine, 0, 40)

	for i := 0; i < 40; i++ {
		a := newGroupedAccount("Exp", account.TypeExpense, "Recurring")
		accounts = append(accounts, a)
		lines = append(lines, budgetLine(a.ID, "0.10", "0.03"))
	}

	first, err := ledger.AggregateBudget(accounts, lines)
	require.NoError(t, err)

	second, err := ledger.AggregateBudget(accounts, lines)
	require.NoError(t, err)

	assert.Equal(t, first.GrandTotal.Budgeted.String(), second.GrandTotal.Budgeted.String())
	assert.Equal(t, first.GrandTotal.Actual.String(), second.GrandTotal.Actual.String())
	assert.Equal(t, "-4.00", first.GrandTotal.Budgeted.StringFixed(2))
	assert.Equal(t, "-1.20", first.GrandTotal.Actual.StringFixed(2))
}

func TestAggregateBudget_UnknownAccountDiagnostic(t *testing.T) {
	salary := newGroupedAccount("Salary", account.TypeIncome, "")

	table, err := ledger.AggregateBudget(
		[]*account.Account{salary},
		[]ledger.BudgetLine{
			budgetLine(salary.ID, "100", "100"),
			budgetLine(uuid.New(), "50", "50"),
		},
	)
	require.NoError(t, err)

	require.Len(t, table.Diagnostics, 1)
	assert.ErrorIs(t, table.Diagnostics[0], ledger.ErrMissingAccountRecord)

	// The bad line never leaks into totals.
	assert.Equal(t, "100.00", table.GrandTotal.Budgeted.StringFixed(2))
}

func TestAggregateBudget_UnknownTypeIsHardError(t *testing.T) {
	bad := newAccount("Mystery", account.Type("Crypto"))

	_, err := ledger.AggregateBudget([]*account.Account{bad}, nil)
	assert.ErrorIs(t, err, ledger.ErrUnknownAccountType)
}

func TestAggregateBalance(t *testing.T) {
	checking := newGroupedAccount("Checking", account.TypeAsset, "Cash")
	visa := newGroupedAccount("Visa", account.TypeLiability, "Cards")
	salary := newGroupedAccount("Salary", account.TypeIncome, "")

	// Raw balances are debit-positive: an owed liability is credit-heavy,
	// so its raw sum is negative.
	raw := map[uuid.UUID]decimal.Decimal{
		checking.ID: decimal.RequireFromString("5000.00"),
		visa.ID:     decimal.RequireFromString("-1200.00"),
	}

	sheet, err := ledger.AggregateBalance([]*account.Account{checking, visa, salary}, raw)
	require.NoError(t, err)
	require.Len(t, sheet.Blocks, 2)

	assets := sheet.Blocks[0]
	require.Equal(t, account.TypeAsset, assets.Type)
	assert.Equal(t, "5000.00", assets.Total.StringFixed(2))

	liabilities := sheet.Blocks[1]
	require.Equal(t, account.TypeLiability, liabilities.Type)
	assert.Equal(t, "1200.00", liabilities.Total.StringFixed(2))
	assert.Equal(t, "1200.00", liabilities.Groups[0].Rows[0].Amount.StringFixed(2))

	// Net worth: assets minus liabilities-as-positive.
	assert.Equal(t, "3800.00", sheet.NetWorth.StringFixed(2))
}

func TestAggregateBalance_MissingBalanceIsZero(t *testing.T) {
	savings := newGroupedAccount("Savings", account.TypeAsset, "")

	sheet, err := ledger.AggregateBalance([]*account.Account{savings}, nil)
	require.NoError(t, err)
	assert.True(t, sheet.NetWorth.IsZero())
	assert.True(t, sheet.Blocks[0].Groups[0].Rows[0].Amount.IsZero())
}

func TestAggregateFlow(t *testing.T) {
	checking := newGroupedAccount("Checking", account.TypeAsset, "")
	salary := newGroupedAccount("Salary", account.TypeIncome, "Work")
	groceries := newGroupedAccount("Groceries", account.TypeExpense, "Food")
	dining := newGroupedAccount("Dining", account.TypeExpense, "Food")

	accounts := []*account.Account{checking, salary, groceries, dining}

	txs := []*transaction.Transaction{
		// Paycheck: checking debited, salary credited.
		newTx("3200.00", checking.ID, salary.ID),
		// Spending: expense debited, checking credited.
		newTx("410.55", groceries.ID, checking.ID),
		newTx("89.45", dining.ID, checking.ID),
		// Refund: money flows back out of the expense account.
		newTx("10.55", checking.ID, groceries.ID),
	}

	stmt, err := ledger.AggregateFlow(accounts, txs)
	require.NoError(t, err)
	require.Len(t, stmt.Blocks, 2)

	income := stmt.Blocks[0]
	require.Equal(t, account.TypeIncome, income.Type)
	// Income displays credits positive.
	assert.Equal(t, "3200.00", income.Total.StringFixed(2))

	expense := stmt.Blocks[1]
	require.Equal(t, account.TypeExpense, expense.Type)
	require.Len(t, expense.Groups, 1)

	food := expense.Groups[0]
	assert.Equal(t, "Food", food.SubType)
	assert.Equal(t, "400.00", food.Rows[0].Amount.StringFixed(2))
	assert.Equal(t, "89.45", food.Rows[1].Amount.StringFixed(2))
	assert.Equal(t, "489.45", food.Subtotal.StringFixed(2))

	// Net flow for the period: income minus expense.
	assert.Equal(t, "2710.55", stmt.GrandTotal.StringFixed(2))
}

func TestAggregateFlow_ManySmallAmountsExact(t *testing.T) {
	coffee := newGroupedAccount("Coffee", account.TypeExpense, "")
	checking := newGroupedAccount("Checking", account.TypeAsset, "")

	txs := make([]*transaction.Transaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		txs = append(txs, newTx("0.10", coffee.ID, checking.ID))
	}

	stmt, err := ledger.AggregateFlow([]*account.Account{coffee}, txs)
	require.NoError(t, err)

	// 1000 * 0.10 must be exactly 100.00, no binary drift.
	assert.Equal(t, "100.00", stmt.Blocks[1].Total.StringFixed(2))
	assert.Equal(t, "100", stmt.Blocks[1].Total.String())
}

func TestAggregateFlow_GroupOrderIsFirstSeen(t *testing.T) {
	a := newGroupedAccount("A", account.TypeExpense, "Travel")
	b := newGroupedAccount("B", account.TypeExpense, "Food")
	c := newGroupedAccount("C", account.TypeExpense, "Travel")

	stmt, err := ledger.AggregateFlow([]*account.Account{a, b, c}, nil)
	require.NoError(t, err)

	expense := stmt.Blocks[1]
	require.Len(t, expense.Groups, 2)
	assert.Equal(t, "Travel", expense.Groups[0].SubType)
	assert.Equal(t, "Food", expense.Groups[1].SubType)
	require.Len(t, expense.Groups[0].Rows, 2)
	assert.Equal(t, "A", expense.Groups[0].Rows[0].Account.Name)
	assert.Equal(t, "C", expense.Groups[0].Rows[1].Account.Name)
}
