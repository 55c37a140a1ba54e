package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ActualsForMonth sums each Income and Expense account's transactions for
// the month, signed per the account type: Expense grows on debit, Income
// grows on credit.
func (s *Store) ActualsForMonth(ctx context.Context, month time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	monthEnd := month.AddDate(0, 1, 0)

	query := `
		SELECT a.id,
			CASE WHEN a.type = 'Expense'
				THEN COALESCE(SUM(CASE WHEN t.debit = a.id THEN t.amount ELSE -t.amount END), 0)
				ELSE COALESCE(SUM(CASE WHEN t.credit = a.id THEN t.amount ELSE -t.amount END), 0)
			END AS actual
		FROM accounts a
		JOIN transactions t ON (t.debit = a.id OR t.credit = a.id)
		WHERE a.deleted_at IS NULL
			AND a.type IN ('Income', 'Expense')
			AND t.deleted_at IS NULL
			AND t.date >= $1 AND t.date < $2
		GROUP BY a.id, a.type
	`

	return s.amountsByAccount(ctx, query, month, monthEnd)
}

// RawBalancesAsOf sums each account's transactions dated on or before the
// given day, debits positive. The sign convention for display is applied by
// the caller, not here.
func (s *Store) RawBalancesAsOf(ctx context.Context, asOf time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT a.id,
			COALESCE(SUM(CASE WHEN t.debit = a.id THEN t.amount ELSE -t.amount END), 0) AS balance
		FROM accounts a
		JOIN transactions t ON (t.debit = a.id OR t.credit = a.id)
		WHERE a.deleted_at IS NULL
			AND t.deleted_at IS NULL
			AND t.date <= $1
		GROUP BY a.id
	`

	return s.amountsByAccount(ctx, query, asOf)
}

func (s *Store) amountsByAccount(ctx context.Context, query string, args ...any) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying account amounts: %w", err)
	}
	defer rows.Close()

	amounts := make(map[uuid.UUID]decimal.Decimal)

	for rows.Next() {
		var id uuid.UUID

		var amount decimal.Decimal

		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("scanning account amount: %w", err)
		}

		amounts[id] = amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating amount rows: %w", err)
	}

	return amounts, nil
}
