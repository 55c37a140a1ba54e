package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	UpsertEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, accountID uuid.UUID, month time.Time) (*Entry, error)
	ListEntries(ctx context.Context, month time.Time) ([]*Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

// AccountGetter is the slice of the account service the budget needs.
type AccountGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts AccountGetter
}

func NewService(repo Repository, accounts AccountGetter) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Set creates or replaces the planned amount for an account in a month.
// Only Income and Expense accounts can carry a budget.
func (s *Service) Set(ctx context.Context, accountID uuid.UUID, month time.Time, amount decimal.Decimal) (*Entry, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Type != account.TypeIncome && a.Type != account.TypeExpense {
		return nil, ErrNotBudgetable
	}

	e := &Entry{
		AccountID: accountID,
		Month:     NormalizeMonth(month),
		Amount:    amount,
	}
	if err := s.repo.UpsertEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, accountID uuid.UUID, month time.Time) (*Entry, error) {
	return s.repo.GetEntry(ctx, accountID, NormalizeMonth(month))
}

func (s *Service) ListMonth(ctx context.Context, month time.Time) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, NormalizeMonth(month))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEntry(ctx, id)
}
