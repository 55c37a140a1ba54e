// Package report assembles the budget table, balance sheet, cash flow
// statement and the derived series built on top of them.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/budget"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=report
type Store interface {
	// ActualsForMonth returns per-account sign-adjusted transaction totals
	// for the month: Expense accounts debit-positive, Income accounts
	// credit-positive.
	ActualsForMonth(ctx context.Context, month time.Time) (map[uuid.UUID]decimal.Decimal, error)

	// RawBalancesAsOf returns per-account debit-positive sums over all
	// transactions dated on or before the given day.
	RawBalancesAsOf(ctx context.Context, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

type AccountSource interface {
	List(ctx context.Context, filter account.ListFilter) ([]*account.Account, error)
	GetGoal(ctx context.Context, accountID uuid.UUID) (*account.Goal, error)
}

type BudgetSource interface {
	ListMonth(ctx context.Context, month time.Time) ([]*budget.Entry, error)
}

type TransactionSource interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	store        Store
	accounts     AccountSource
	budgets      BudgetSource
	transactions TransactionSource
}

func NewService(store Store, accounts AccountSource, budgets BudgetSource, transactions TransactionSource) *Service {
	return &Service{
		store:        store,
		accounts:     accounts,
		budgets:      budgets,
		transactions: transactions,
	}
}

// Budget builds the budget-vs-actual table for one month.
func (s *Service) Budget(ctx context.Context, month time.Time) (*ledger.BudgetTable, error) {
	month = budget.NormalizeMonth(month)

	accounts, err := s.accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	entries, err := s.budgets.ListMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("listing budget entries: %w", err)
	}

	actuals, err := s.store.ActualsForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("loading actuals: %w", err)
	}

	lines := make([]ledger.BudgetLine, 0, len(entries)+len(actuals))
	seen := make(map[uuid.UUID]struct{}, len(entries))

	for _, e := range entries {
		seen[e.AccountID] = struct{}{}
		lines = append(lines, ledger.BudgetLine{
			AccountID: e.AccountID,
			Budgeted:  e.Amount,
			Actual:    actuals[e.AccountID],
		})
	}

	// Accounts with activity but no plan still show up with a zero budget.
	for id, actual := range actuals {
		if _, ok := seen[id]; ok {
			continue
		}

		lines = append(lines, ledger.BudgetLine{AccountID: id, Actual: actual})
	}

	return ledger.AggregateBudget(accounts, lines)
}

// Balance builds the balance sheet as of a date.
func (s *Service) Balance(ctx context.Context, asOf time.Time) (*ledger.BalanceSheet, error) {
	accounts, err := s.accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	raw, err := s.store.RawBalancesAsOf(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}

	return ledger.AggregateBalance(accounts, raw)
}

// Flow builds the income and expense flow statement over a date range.
func (s *Service) Flow(ctx context.Context, from, to time.Time) (*ledger.FlowStatement, error) {
	accounts, err := s.accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	txs, err := s.transactions.List(ctx, transaction.ListFilter{StartDate: &from, EndDate: &to})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return ledger.AggregateFlow(accounts, txs)
}

// NetWorthPoint is one month-end sample of the net worth series.
type NetWorthPoint struct {
	Month    time.Time
	NetWorth decimal.Decimal
}

// NetWorthHistory samples net worth at the end of each month from the month
// containing from through the month containing to.
func (s *Service) NetWorthHistory(ctx context.Context, from, to time.Time) ([]NetWorthPoint, error) {
	accounts, err := s.accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	var points []NetWorthPoint

	for m := budget.NormalizeMonth(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		monthEnd := m.AddDate(0, 1, -1)

		raw, err := s.store.RawBalancesAsOf(ctx, monthEnd)
		if err != nil {
			return nil, fmt.Errorf("loading balances for %s: %w", m.Format("2006-01"), err)
		}

		sheet, err := ledger.AggregateBalance(accounts, raw)
		if err != nil {
			return nil, err
		}

		points = append(points, NetWorthPoint{Month: m, NetWorth: sheet.NetWorth})
	}

	return points, nil
}

// GoalProgress is one savings goal with how far along it is.
type GoalProgress struct {
	Account *account.Account
	Target  decimal.Decimal
	Saved   decimal.Decimal

	// Percent is Saved over Target scaled to 0-100, zero when no target is
	// set.
	Percent decimal.Decimal
}

// Goals reports progress for every Goal account.
func (s *Service) Goals(ctx context.Context) ([]GoalProgress, error) {
	goalAccounts, err := s.accounts.List(ctx, account.ListFilter{Types: []account.Type{account.TypeGoal}})
	if err != nil {
		return nil, fmt.Errorf("listing goal accounts: %w", err)
	}

	progress := make([]GoalProgress, 0, len(goalAccounts))

	for _, a := range goalAccounts {
		p := GoalProgress{Account: a, Saved: a.Balance}

		g, err := s.accounts.GetGoal(ctx, a.ID)
		if err != nil && !errors.Is(err, account.ErrNotFound) {
			return nil, fmt.Errorf("loading goal for %s: %w", a.ID, err)
		}

		if g != nil {
			p.Target = g.TargetAmount
		}

		if p.Target.IsPositive() {
			p.Percent = p.Saved.Div(p.Target).Mul(decimal.NewFromInt(100)).Round(1)
		}

		progress = append(progress, p)
	}

	return progress, nil
}
