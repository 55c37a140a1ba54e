package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/transaction"
)

// BudgetLine pairs an account with its budgeted and actual amounts for one
// month. Actuals are already signed per the account type by the store.
type BudgetLine struct {
	AccountID uuid.UUID
	Budgeted  decimal.Decimal
	Actual    decimal.Decimal
}

// BudgetTotals is one row of sums in the budget table. Totals are always
// accumulated from their parts, never recomputed from raw figures, so
// sum-of-parts equals the whole at every level.
type BudgetTotals struct {
	Budgeted   decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
}

func (t *BudgetTotals) add(o BudgetTotals) {
	t.Budgeted = t.Budgeted.Add(o.Budgeted)
	t.Actual = t.Actual.Add(o.Actual)
	t.Difference = t.Difference.Add(o.Difference)
}

func (t *BudgetTotals) sub(o BudgetTotals) {
	t.Budgeted = t.Budgeted.Sub(o.Budgeted)
	t.Actual = t.Actual.Sub(o.Actual)
	t.Difference = t.Difference.Sub(o.Difference)
}

// BudgetRow is one account line in the budget table.
type BudgetRow struct {
	Account    *account.Account
	BudgetTotals
}

// BudgetGroup is a subtype section with its subtotal.
type BudgetGroup struct {
	SubType  string
	Rows     []BudgetRow
	Subtotal BudgetTotals
}

// BudgetBlock is an account-type section (Income or Expense).
type BudgetBlock struct {
	Type   account.Type
	Groups []BudgetGroup
	Total  BudgetTotals
}

// BudgetTable is the aggregated budget-vs-actual report. GrandTotal is
// Income minus Expense for every column.
type BudgetTable struct {
	Blocks      []BudgetBlock
	GrandTotal  BudgetTotals
	Diagnostics []RowDiagnostic
}

// budgetTypeOrder fixes the display order of the budget table sections.
var budgetTypeOrder = []account.Type{account.TypeIncome, account.TypeExpense}

// AggregateBudget builds the budget table for Income and Expense accounts.
// Per account the difference is actual-budgeted for Income and
// budgeted-actual for Expense, so a positive difference always reads as
// "better than planned". Lines referencing accounts outside the input set
// are skipped and reported as diagnostics.
func AggregateBudget(accounts []*account.Account, lines []BudgetLine) (*BudgetTable, error) {
	byAccount := make(map[uuid.UUID]BudgetLine, len(lines))
	for _, l := range lines {
		byAccount[l.AccountID] = l
	}

	known := make(map[uuid.UUID]struct{}, len(accounts))

	table := &BudgetTable{}

	for _, typ := range budgetTypeOrder {
		block := BudgetBlock{Type: typ}
		groupIdx := make(map[string]int)

		for _, a := range accounts {
			if !a.Type.Valid() {
				return nil, RowDiagnostic{AccountID: a.ID, Err: ErrUnknownAccountType}
			}

			known[a.ID] = struct{}{}

			if a.Type != typ {
				continue
			}

			line := byAccount[a.ID]

			row := BudgetRow{Account: a}
			row.Budgeted = line.Budgeted
			row.Actual = line.Actual

			if typ == account.TypeIncome {
				row.Difference = line.Actual.Sub(line.Budgeted)
			} else {
				row.Difference = line.Budgeted.Sub(line.Actual)
			}

			name := a.GroupName()

			idx, ok := groupIdx[name]
			if !ok {
				idx = len(block.Groups)
				groupIdx[name] = idx
				block.Groups = append(block.Groups, BudgetGroup{SubType: name})
			}

			g := &block.Groups[idx]
			g.Rows = append(g.Rows, row)
			g.Subtotal.add(row.BudgetTotals)
		}

		for _, g := range block.Groups {
			block.Total.add(g.Subtotal)
		}

		if typ == account.TypeIncome {
			table.GrandTotal.add(block.Total)
		} else {
			table.GrandTotal.sub(block.Total)
		}

		table.Blocks = append(table.Blocks, block)
	}

	for _, l := range lines {
		if _, ok := known[l.AccountID]; !ok {
			table.Diagnostics = append(table.Diagnostics, RowDiagnostic{AccountID: l.AccountID, Err: ErrMissingAccountRecord})
		}
	}

	return table, nil
}

// ReportRow is one account line in a balance or flow report.
type ReportRow struct {
	Account *account.Account
	Amount  decimal.Decimal
}

// ReportGroup is a subtype section with its subtotal.
type ReportGroup struct {
	SubType  string
	Rows     []ReportRow
	Subtotal decimal.Decimal
}

// ReportBlock is an account-type section with its total.
type ReportBlock struct {
	Type   account.Type
	Groups []ReportGroup
	Total  decimal.Decimal
}

// TotalFor returns the total for an account type, zero when the type has no
// block.
func totalFor(blocks []ReportBlock, t account.Type) decimal.Decimal {
	for _, b := range blocks {
		if b.Type == t {
			return b.Total
		}
	}

	return decimal.Zero
}

// BalanceSheet is the as-of-date balance report. Liability rows carry their
// sign-adjusted (credits-positive) amounts, so NetWorth is assetTotal minus
// liabilityTotal.
type BalanceSheet struct {
	Blocks      []ReportBlock
	NetWorth    decimal.Decimal
	Diagnostics []RowDiagnostic
}

func (s *BalanceSheet) TotalFor(t account.Type) decimal.Decimal { return totalFor(s.Blocks, t) }

// AggregateBalance builds the balance report from raw per-account balances.
// Raw balances are debit-positive sums over transactions up to the as-of
// date; the account-type multiplier flips Liability rows so that owing money
// reads as a positive liability. Accounts without a raw balance contribute
// zero.
func AggregateBalance(accounts []*account.Account, raw map[uuid.UUID]decimal.Decimal) (*BalanceSheet, error) {
	sheet := &BalanceSheet{}

	blocks, err := aggregateSigned(accounts, []account.Type{account.TypeAsset, account.TypeLiability}, func(a *account.Account) decimal.Decimal {
		return raw[a.ID]
	})
	if err != nil {
		return nil, err
	}

	sheet.Blocks = blocks
	sheet.NetWorth = sheet.TotalFor(account.TypeAsset).Sub(sheet.TotalFor(account.TypeLiability))

	return sheet, nil
}

// FlowStatement is the income/expense flow report over a date range.
// GrandTotal is incomeTotal minus expenseTotal: the period's net cash flow.
type FlowStatement struct {
	Blocks      []ReportBlock
	GrandTotal  decimal.Decimal
	Diagnostics []RowDiagnostic
}

func (s *FlowStatement) TotalFor(t account.Type) decimal.Decimal { return totalFor(s.Blocks, t) }

// AggregateFlow builds the flow report from the transactions in range. Each
// account's raw total uses its own debit/credit participation (debits add,
// credits subtract); the account-type multiplier then renders Income with
// credits positive and Expense with debits positive.
func AggregateFlow(accounts []*account.Account, txs []*transaction.Transaction) (*FlowStatement, error) {
	raw := make(map[uuid.UUID]decimal.Decimal, len(accounts))

	for _, tx := range txs {
		raw[tx.Debit] = raw[tx.Debit].Add(tx.Amount)
		raw[tx.Credit] = raw[tx.Credit].Sub(tx.Amount)
	}

	stmt := &FlowStatement{}

	blocks, err := aggregateSigned(accounts, []account.Type{account.TypeIncome, account.TypeExpense}, func(a *account.Account) decimal.Decimal {
		return raw[a.ID]
	})
	if err != nil {
		return nil, err
	}

	stmt.Blocks = blocks
	stmt.GrandTotal = stmt.TotalFor(account.TypeIncome).Sub(stmt.TotalFor(account.TypeExpense))

	return stmt, nil
}

// aggregateSigned partitions accounts of the wanted types into subtype
// groups (first-seen input order) and sums sign-adjusted amounts upward:
// rows into subtotals, subtotals into type totals.
func aggregateSigned(accounts []*account.Account, types []account.Type, rawAmount func(*account.Account) decimal.Decimal) ([]ReportBlock, error) {
	blocks := make([]ReportBlock, 0, len(types))

	for _, typ := range types {
		block := ReportBlock{Type: typ}
		groupIdx := make(map[string]int)

		for _, a := range accounts {
			if !a.Type.Valid() {
				return nil, RowDiagnostic{AccountID: a.ID, Err: ErrUnknownAccountType}
			}

			if a.Type != typ {
				continue
			}

			mult, err := typeMultiplier(a.Type)
			if err != nil {
				return nil, err
			}

			amount := rawAmount(a)
			if mult < 0 {
				amount = amount.Neg()
			}

			name := a.GroupName()

			idx, ok := groupIdx[name]
			if !ok {
				idx = len(block.Groups)
				groupIdx[name] = idx
				block.Groups = append(block.Groups, ReportGroup{SubType: name})
			}

			g := &block.Groups[idx]
			g.Rows = append(g.Rows, ReportRow{Account: a, Amount: amount})
			g.Subtotal = g.Subtotal.Add(amount)
		}

		for _, g := range block.Groups {
			block.Total = block.Total.Add(g.Subtotal)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}
