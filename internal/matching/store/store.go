package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch picks the mapping whose pattern appears in the description,
// preferring the longest pattern so "AMAZON PRIME" wins over "AMAZON".
func (s *Store) FindMatch(ctx context.Context, description string) (*matching.Match, error) {
	query := `
		SELECT merchant, account_id
		FROM merchant_mappings
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var m matching.Match

	var accountID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, description).Scan(&m.Merchant, &accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	m.AccountID = accountID.UUID

	return &m, nil
}

func (s *Store) CreateMapping(ctx context.Context, pattern, merchant string, accountID uuid.UUID) error {
	query := `
		INSERT INTO merchant_mappings (pattern, merchant, account_id, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	var id any
	if accountID != uuid.Nil {
		id = accountID
	}

	if _, err := s.db.ExecContext(ctx, query, pattern, merchant, id); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
