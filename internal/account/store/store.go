package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectAccountColumns = `
	a.id, a.name, a.num, a.type, a.icon, a.in_bank_feed,
	a.balance, a.reconciled_balance, a.created_at, a.updated_at,
	st.id, st.name, st.account_type
`

// scanAccount reads an account row joined with its subtype. The subtype
// columns are nullable; the returned account carries a fully-resolved
// *SubType or nil, never a bare id.
func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	var typeStr string

	var icon sql.NullString

	var stID uuid.NullUUID

	var stName, stType sql.NullString

	if err := s.Scan(
		&a.ID, &a.Name, &a.Num, &typeStr, &icon, &a.InBankFeed,
		&a.Balance, &a.ReconciledBalance, &a.CreatedAt, &a.UpdatedAt,
		&stID, &stName, &stType,
	); err != nil {
		return nil, err
	}

	a.Type = account.Type(typeStr)
	a.Icon = icon.String

	if stID.Valid {
		a.SubType = &account.SubType{
			ID:          stID.UUID,
			Name:        stName.String,
			AccountType: account.Type(stType.String),
		}
	}

	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (name, num, type, sub_type_id, icon, in_bank_feed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var subTypeID *uuid.UUID
	if a.SubType != nil {
		subTypeID = &a.SubType.ID
	}

	err := s.db.QueryRowContext(ctx, query,
		a.Name,
		a.Num,
		a.Type,
		subTypeID,
		a.Icon,
		a.InBankFeed,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM accounts a
		LEFT JOIN sub_account_types st ON a.sub_type_id = st.id
		WHERE a.id = $1 AND a.deleted_at IS NULL`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter account.ListFilter) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM accounts a
		LEFT JOIN sub_account_types st ON a.sub_type_id = st.id
		WHERE a.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			placeholders[i] = fmt.Sprintf("$%d", argIdx)

			args = append(args, t)
			argIdx++
		}

		query += fmt.Sprintf(" AND a.type IN (%s)", strings.Join(placeholders, ", "))
	}

	if filter.InBankFeed != nil {
		query += fmt.Sprintf(" AND a.in_bank_feed = $%d", argIdx)

		args = append(args, *filter.InBankFeed)
		argIdx++
	}

	query += " ORDER BY a.num ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account rows: %w", err)
	}

	return accounts, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, num = $2, sub_type_id = $3, icon = $4, in_bank_feed = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`

	var subTypeID *uuid.UUID
	if a.SubType != nil {
		subTypeID = &a.SubType.ID
	}

	_, err := s.db.ExecContext(ctx, query,
		a.Name,
		a.Num,
		subTypeID,
		a.Icon,
		a.InBankFeed,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return nil
}

// RecalculateBalances rebuilds the stored balance and reconciled balance
// from transactions. Asset, Expense and Goal accounts grow on debit;
// Liability, Income and Equity accounts grow on credit.
func (s *Store) RecalculateBalances(ctx context.Context, id uuid.UUID) error {
	query := `
		WITH sums AS (
			SELECT
				COALESCE(SUM(amount) FILTER (WHERE debit = $1), 0) AS debit_sum,
				COALESCE(SUM(amount) FILTER (WHERE credit = $1), 0) AS credit_sum,
				COALESCE(SUM(amount) FILTER (WHERE debit = $1 AND status = 'reconciled'), 0) AS rec_debit_sum,
				COALESCE(SUM(amount) FILTER (WHERE credit = $1 AND status = 'reconciled'), 0) AS rec_credit_sum
			FROM transactions
			WHERE (debit = $1 OR credit = $1) AND deleted_at IS NULL
		)
		UPDATE accounts a
		SET balance = CASE
				WHEN a.type IN ('Asset', 'Expense', 'Goal') THEN s.debit_sum - s.credit_sum
				ELSE s.credit_sum - s.debit_sum
			END,
			reconciled_balance = CASE
				WHEN a.type IN ('Asset', 'Expense', 'Goal') THEN s.rec_debit_sum - s.rec_credit_sum
				ELSE s.rec_credit_sum - s.rec_debit_sum
			END,
			updated_at = NOW()
		FROM sums s
		WHERE a.id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("recalculating balances: %w", err)
	}

	return nil
}

func (s *Store) GetSubType(ctx context.Context, id uuid.UUID) (*account.SubType, error) {
	query := `SELECT id, name, account_type FROM sub_account_types WHERE id = $1`

	var st account.SubType

	var typeStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&st.ID, &st.Name, &typeStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting subtype: %w", err)
	}

	st.AccountType = account.Type(typeStr)

	return &st, nil
}

func (s *Store) ListSubTypes(ctx context.Context) ([]*account.SubType, error) {
	query := `SELECT id, name, account_type FROM sub_account_types ORDER BY account_type, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing subtypes: %w", err)
	}
	defer rows.Close()

	var subTypes []*account.SubType

	for rows.Next() {
		var st account.SubType

		var typeStr string

		if err := rows.Scan(&st.ID, &st.Name, &typeStr); err != nil {
			return nil, fmt.Errorf("scanning subtype: %w", err)
		}

		st.AccountType = account.Type(typeStr)
		subTypes = append(subTypes, &st)
	}

	return subTypes, nil
}

func (s *Store) CreateSubType(ctx context.Context, st *account.SubType) error {
	query := `
		INSERT INTO sub_account_types (name, account_type)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, st.Name, st.AccountType).Scan(&st.ID); err != nil {
		return fmt.Errorf("creating subtype: %w", err)
	}

	return nil
}

func (s *Store) DeleteSubType(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sub_account_types WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting subtype: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, accountID uuid.UUID) (*account.Goal, error) {
	query := `SELECT id, account_id, target_amount, created_at FROM goals WHERE account_id = $1`

	var g account.Goal

	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&g.ID, &g.AccountID, &g.TargetAmount, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return &g, nil
}

func (s *Store) UpsertGoal(ctx context.Context, g *account.Goal) error {
	query := `
		INSERT INTO goals (account_id, target_amount, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (account_id) DO UPDATE SET target_amount = EXCLUDED.target_amount
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, g.AccountID, g.TargetAmount).Scan(&g.ID, &g.CreatedAt); err != nil {
		return fmt.Errorf("upserting goal: %w", err)
	}

	return nil
}
