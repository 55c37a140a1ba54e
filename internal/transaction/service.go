package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status Status) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx is a transactional import session. It holds an advisory lock so
// concurrent imports of the same file cannot race past duplicate detection.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// BalanceRefresher recomputes stored account balances after a mutation
// touches the accounts on either side of a transaction.
type BalanceRefresher interface {
	RefreshBalances(ctx context.Context, ids ...uuid.UUID) error
}

type Service struct {
	repo      Repository
	refresher BalanceRefresher
}

func NewService(repo Repository, refresher BalanceRefresher) *Service {
	return &Service{repo: repo, refresher: refresher}
}

type CreateParams struct {
	Date     time.Time
	Amount   decimal.Decimal
	Debit    uuid.UUID
	Credit   uuid.UUID
	Notes    string
	Merchant string
	Status   Status
}

func (p CreateParams) validate() error {
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.Debit == p.Credit {
		return ErrSameAccount
	}

	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}

	return nil
}

type ListFilter struct {
	AccountID *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := paramsToTransaction(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.refresher.RefreshBalances(ctx, tx.Debit, tx.Credit); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

type UpdateParams struct {
	Date     *time.Time
	Amount   *decimal.Decimal
	Debit    *uuid.UUID
	Credit   *uuid.UUID
	Notes    *string
	Merchant *string
	Status   *Status
}

// Update applies a partial edit. Balances are refreshed for every account
// involved before or after the edit, so moving a transaction between
// categories keeps both categories' totals current.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	touched := []uuid.UUID{tx.Debit, tx.Credit}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Debit != nil {
		tx.Debit = *params.Debit
	}

	if params.Credit != nil {
		tx.Credit = *params.Credit
	}

	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	if params.Merchant != nil {
		tx.Merchant = *params.Merchant
	}

	if params.Status != nil {
		if !CanTransition(tx.Status, *params.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatus, tx.Status, *params.Status)
		}

		tx.SetStatus(*params.Status)
	}

	if tx.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if tx.Debit == tx.Credit {
		return nil, ErrSameAccount
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	touched = append(touched, tx.Debit, tx.Credit)
	if err := s.refresher.RefreshBalances(ctx, touched...); err != nil {
		return nil, err
	}

	return tx, nil
}

// UpdateStatusBatch moves every listed transaction to the target status.
// Each transaction's current status must permit the transition.
func (s *Service) UpdateStatusBatch(ctx context.Context, ids []uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if len(ids) == 0 {
		return nil
	}

	touched := make([]uuid.UUID, 0, len(ids)*2)

	moving := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		tx, err := s.repo.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("loading transaction %s: %w", id, err)
		}

		// Rows already at the target are left untouched.
		if tx.Status == status {
			continue
		}

		if !CanTransition(tx.Status, status) {
			return fmt.Errorf("%w: %s to %s for %s", ErrInvalidStatus, tx.Status, status, id)
		}

		moving = append(moving, id)
		touched = append(touched, tx.Debit, tx.Credit)
	}

	if len(moving) == 0 {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, moving, status); err != nil {
		return err
	}

	// Reconciled balances only count reconciled rows, so a status flip
	// changes stored balances even though amounts did not move.
	return s.refresher.RefreshBalances(ctx, touched...)
}

func (s *Service) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	touched := make([]uuid.UUID, 0, len(ids)*2)

	for _, id := range ids {
		tx, err := s.repo.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("loading transaction %s: %w", id, err)
		}

		touched = append(touched, tx.Debit, tx.Credit)
	}

	if err := s.repo.DeleteTransactions(ctx, ids); err != nil {
		return err
	}

	return s.refresher.RefreshBalances(ctx, touched...)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DeleteBatch(ctx, []uuid.UUID{id})
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date     string
	Amount   string
	Debit    uuid.UUID
	Credit   uuid.UUID
	Merchant string
}

func keyFor(date time.Time, amount decimal.Decimal, debit, credit uuid.UUID, merchant string) dupKey {
	return dupKey{
		Date:     date.Format(time.DateOnly),
		Amount:   amount.StringFixed(2),
		Debit:    debit,
		Credit:   credit,
		Merchant: merchant,
	}
}

// ImportBatch inserts a batch of bank-feed rows unless any row collides with
// an already stored transaction on date, amount, accounts and merchant. On
// collision nothing is written and the caller gets the conflicts back.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyFor(d.Date, d.Amount, d.Debit, d.Credit, d.Merchant)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyFor(p.Date, p.Amount, p.Debit, p.Credit, p.Merchant)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	if err := s.refreshFor(ctx, txs); err != nil {
		return nil, err
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch writes the batch without duplicate detection, for imports the
// user has already confirmed.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	if err := s.refreshFor(ctx, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (s *Service) refreshFor(ctx context.Context, txs []*Transaction) error {
	ids := make([]uuid.UUID, 0, len(txs)*2)
	for _, tx := range txs {
		ids = append(ids, tx.Debit, tx.Credit)
	}

	return s.refresher.RefreshBalances(ctx, ids...)
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = paramsToTransaction(p)
	}

	return txs
}

func paramsToTransaction(p CreateParams) *Transaction {
	tx := &Transaction{
		Date:     p.Date,
		Amount:   p.Amount,
		Debit:    p.Debit,
		Credit:   p.Credit,
		Notes:    p.Notes,
		Merchant: p.Merchant,
	}

	status := p.Status
	if status == "" {
		status = StatusReview
	}

	tx.SetStatus(status)

	return tx
}
