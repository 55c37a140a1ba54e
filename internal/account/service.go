package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, filter ListFilter) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// RecalculateBalances recomputes balance and reconciled balance for the
	// account from its transactions, per the account-type sign rules.
	RecalculateBalances(ctx context.Context, id uuid.UUID) error

	GetSubType(ctx context.Context, id uuid.UUID) (*SubType, error)
	ListSubTypes(ctx context.Context) ([]*SubType, error)
	CreateSubType(ctx context.Context, st *SubType) error
	DeleteSubType(ctx context.Context, id uuid.UUID) error

	GetGoal(ctx context.Context, accountID uuid.UUID) (*Goal, error)
	UpsertGoal(ctx context.Context, g *Goal) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Types      []Type
	InBankFeed *bool
}

type CreateParams struct {
	Name       string
	Num        int
	Type       Type
	SubTypeID  *uuid.UUID
	Icon       string
	InBankFeed bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("account type %q is not valid", params.Type)
	}

	a := &Account{
		Name:       params.Name,
		Num:        params.Num,
		Type:       params.Type,
		Icon:       params.Icon,
		InBankFeed: params.InBankFeed,
	}

	if params.SubTypeID != nil {
		st, err := s.resolveSubType(ctx, *params.SubTypeID, params.Type)
		if err != nil {
			return nil, err
		}

		a.SubType = st
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, filter)
}

// Map returns all accounts indexed by id, the shape the ledger helpers take.
func (s *Service) Map(ctx context.Context) (map[uuid.UUID]*Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	return byID, nil
}

type UpdateParams struct {
	Name       *string
	Num        *int
	SubTypeID  *uuid.UUID
	ClearSub   bool
	Icon       *string
	InBankFeed *bool
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		a.Name = *params.Name
	}

	if params.Num != nil {
		a.Num = *params.Num
	}

	if params.ClearSub {
		a.SubType = nil
	} else if params.SubTypeID != nil {
		st, err := s.resolveSubType(ctx, *params.SubTypeID, a.Type)
		if err != nil {
			return nil, err
		}

		a.SubType = st
	}

	if params.Icon != nil {
		a.Icon = *params.Icon
	}

	if params.InBankFeed != nil {
		a.InBankFeed = *params.InBankFeed
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// RefreshBalances recomputes the stored balances for every account touched
// by a transaction mutation.
func (s *Service) RefreshBalances(ctx context.Context, ids ...uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}

		if err := s.repo.RecalculateBalances(ctx, id); err != nil {
			return fmt.Errorf("recalculating balances for %s: %w", id, err)
		}
	}

	return nil
}

func (s *Service) ListSubTypes(ctx context.Context) ([]*SubType, error) {
	return s.repo.ListSubTypes(ctx)
}

func (s *Service) CreateSubType(ctx context.Context, name string, accountType Type) (*SubType, error) {
	if !accountType.Valid() {
		return nil, fmt.Errorf("account type %q is not valid", accountType)
	}

	st := &SubType{Name: name, AccountType: accountType}
	if err := s.repo.CreateSubType(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) DeleteSubType(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSubType(ctx, id)
}

// SetGoalTarget attaches or updates the savings target of a Goal account.
func (s *Service) SetGoalTarget(ctx context.Context, accountID uuid.UUID, target decimal.Decimal) (*Goal, error) {
	a, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if a.Type != TypeGoal {
		return nil, fmt.Errorf("account %s is %s, not a goal account", accountID, a.Type)
	}

	g := &Goal{AccountID: accountID, TargetAmount: target}
	if err := s.repo.UpsertGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) GetGoal(ctx context.Context, accountID uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, accountID)
}

func (s *Service) resolveSubType(ctx context.Context, id uuid.UUID, accountType Type) (*SubType, error) {
	st, err := s.repo.GetSubType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving subtype: %w", err)
	}

	if st.AccountType != accountType {
		return nil, fmt.Errorf("%w: subtype %q is for %s accounts", ErrSubTypeMismatch, st.Name, st.AccountType)
	}

	return st, nil
}
