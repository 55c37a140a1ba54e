package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/budget"
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

const selectEntryColumns = `id, account_id, month, amount, created_at, updated_at`

func scanEntry(s scanner) (*budget.Entry, error) {
	var e budget.Entry

	if err := s.Scan(&e.ID, &e.AccountID, &e.Month, &e.Amount, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Store) UpsertEntry(ctx context.Context, e *budget.Entry) error {
	query := `
		INSERT INTO budgets (account_id, month, amount, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (account_id, month) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, e.AccountID, e.Month, e.Amount).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting budget entry: %w", err)
	}

	return nil
}

func (s *Store) GetEntry(ctx context.Context, accountID uuid.UUID, month time.Time) (*budget.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM budgets WHERE account_id = $1 AND month = $2`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, accountID, month))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, month time.Time) ([]*budget.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM budgets WHERE month = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("listing budget entries: %w", err)
	}
	defer rows.Close()

	var entries []*budget.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return entries, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM budgets WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting budget entry: %w", err)
	}

	return nil
}
