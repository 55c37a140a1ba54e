// Package export renders an account's register as CSV, the shape people
// feed into spreadsheets for tax season.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

type TransactionSource interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type AccountSource interface {
	Map(ctx context.Context) (map[uuid.UUID]*account.Account, error)
}

type Service struct {
	transactions TransactionSource
	accounts     AccountSource
}

func NewService(transactions TransactionSource, accounts AccountSource) *Service {
	return &Service{transactions: transactions, accounts: accounts}
}

var registerHeader = []string{"Date", "Merchant", "Notes", "Category", "Status", "Amount"}

// WriteRegisterCSV streams the register of one account as CSV. Amounts are
// signed from the account's viewpoint, credits negative, formatted as USD.
func (s *Service) WriteRegisterCSV(ctx context.Context, w io.Writer, accountID uuid.UUID, start, end *time.Time) error {
	accounts, err := s.accounts.Map(ctx)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	txs, err := s.transactions.List(ctx, transaction.ListFilter{
		AccountID: &accountID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(registerHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		p, err := ledger.AmountAndCategory(tx, accountID, accounts)
		if err != nil {
			return fmt.Errorf("deriving row for %s: %w", tx.ID, err)
		}

		record := []string{
			tx.Date.Format(time.DateOnly),
			tx.Merchant,
			tx.Notes,
			p.Category.Label,
			string(tx.Status),
			ledger.FormatUSD(p.Amount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
