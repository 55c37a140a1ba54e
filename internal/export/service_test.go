package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/export"
	"github.com/centbook/centbook/internal/transaction"
)

type fakeTransactions struct {
	txs []*transaction.Transaction
}

func (f *fakeTransactions) List(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f.txs, nil
}

type fakeAccounts struct {
	byID map[uuid.UUID]*account.Account
}

func (f *fakeAccounts) Map(_ context.Context) (map[uuid.UUID]*account.Account, error) {
	return f.byID, nil
}

func TestWriteRegisterCSV(t *testing.T) {
	checking := &account.Account{ID: uuid.New(), Name: "Checking", Type: account.TypeAsset}
	groceries := &account.Account{ID: uuid.New(), Name: "Groceries", Type: account.TypeExpense}

	txs := []*transaction.Transaction{
		{
			ID:       uuid.New(),
			Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("42.50"),
			Debit:    groceries.ID,
			Credit:   checking.ID,
			Merchant: "GROCERY MART",
			Status:   transaction.StatusCategorized,
		},
		{
			ID:     uuid.New(),
			Date:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			Amount: decimal.RequireFromString("2500"),
			Debit:  checking.ID,
			Credit: uuid.Nil,
			Status: transaction.StatusReview,
		},
	}

	svc := export.NewService(
		&fakeTransactions{txs: txs},
		&fakeAccounts{byID: map[uuid.UUID]*account.Account{
			checking.ID:  checking,
			groceries.ID: groceries,
		}},
	)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteRegisterCSV(context.Background(), &buf, checking.ID, nil, nil))

	got := buf.String()
	assert.Contains(t, got, "Date,Merchant,Notes,Category,Status,Amount")
	// Money leaving checking shows credit-negative.
	assert.Contains(t, got, "2024-01-15,GROCERY MART,,Groceries,categorized,-$42.50")
	// The uncategorized deposit falls back to the placeholder label; the
	// grouped amount gets quoted because of its comma.
	assert.Contains(t, got, `2024-01-16,,,Select Category,review,"$2,500.00"`)
}
