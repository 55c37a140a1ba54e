package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/importer/bankcsv"
	"github.com/centbook/centbook/internal/transaction"
)

// CategorySuggester maps a raw statement description to a suggested
// counterparty account, uuid.Nil when nothing matches.
type CategorySuggester interface {
	Suggest(ctx context.Context, description string) (uuid.UUID, error)
}

type Service struct {
	parser    Parser
	suggester CategorySuggester
}

func NewService(suggester CategorySuggester) *Service {
	return &Service{
		parser:    bankcsv.New(),
		suggester: suggester,
	}
}

// Import parses a statement export and shapes each row into a double-entry
// transaction against the feed account. Money in debits the feed account;
// money out credits it. The counterparty comes from merchant matching and is
// left unset when nothing matches, which renders as "Select Category" until
// the user categorizes the row.
func (s *Service) Import(ctx context.Context, feedAccountID uuid.UUID, r io.Reader) ([]transaction.CreateParams, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	params := make([]transaction.CreateParams, 0, len(rows))

	for _, row := range rows {
		counterparty := uuid.Nil

		if s.suggester != nil {
			counterparty, err = s.suggester.Suggest(ctx, row.Description)
			if err != nil {
				return nil, fmt.Errorf("suggesting category for %q: %w", row.Description, err)
			}
		}

		p := transaction.CreateParams{
			Date:     row.Date,
			Amount:   row.Amount.Abs(),
			Merchant: row.Description,
			Status:   transaction.StatusReview,
		}

		if row.Amount.IsNegative() {
			p.Debit = counterparty
			p.Credit = feedAccountID
		} else {
			p.Debit = feedAccountID
			p.Credit = counterparty
		}

		params = append(params, p)
	}

	return params, nil
}
