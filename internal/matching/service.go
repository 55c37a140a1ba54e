// Package matching learns which category account a merchant's statement
// descriptions belong to, so imported rows arrive pre-categorized.
package matching

import (
	"context"

	"github.com/google/uuid"
)

// Match is a learned mapping from a statement substring to a display name
// and a category account.
type Match struct {
	Merchant  string
	AccountID uuid.UUID
}

type Repository interface {
	FindMatch(ctx context.Context, description string) (*Match, error)
	CreateMapping(ctx context.Context, pattern, merchant string, accountID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category account for a raw statement description,
// uuid.Nil when nothing has been learned for it yet.
func (s *Service) Suggest(ctx context.Context, description string) (uuid.UUID, error) {
	m, err := s.repo.FindMatch(ctx, description)
	if err != nil {
		return uuid.Nil, err
	}

	if m == nil {
		return uuid.Nil, nil
	}

	return m.AccountID, nil
}

// SuggestMerchant returns the cleaned-up merchant name for a raw statement
// description, empty when nothing matches.
func (s *Service) SuggestMerchant(ctx context.Context, description string) (string, error) {
	m, err := s.repo.FindMatch(ctx, description)
	if err != nil {
		return "", err
	}

	if m == nil {
		return "", nil
	}

	return m.Merchant, nil
}

// Learn remembers that descriptions containing pattern belong to the given
// merchant and category account.
func (s *Service) Learn(ctx context.Context, pattern, merchant string, accountID uuid.UUID) error {
	return s.repo.CreateMapping(ctx, pattern, merchant, accountID)
}
