package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/importer"
	"github.com/centbook/centbook/internal/transaction"
)

type fakeSuggester struct {
	byDescription map[string]uuid.UUID
}

func (f *fakeSuggester) Suggest(_ context.Context, description string) (uuid.UUID, error) {
	return f.byDescription[description], nil
}

func TestService_Import(t *testing.T) {
	feed := uuid.New()
	groceries := uuid.New()

	svc := importer.NewService(&fakeSuggester{
		byDescription: map[string]uuid.UUID{"GROCERY MART": groceries},
	})

	input := strings.Join([]string{
		"Date,Description,Amount",
		"01/15/2024,GROCERY MART,-42.50",
		"01/16/2024,PAYROLL ACME INC,2500.00",
	}, "\n")

	params, err := svc.Import(context.Background(), feed, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)

	// Money out credits the feed account and debits the matched category.
	out := params[0]
	assert.Equal(t, feed, out.Credit)
	assert.Equal(t, groceries, out.Debit)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, transaction.StatusReview, out.Status)
	assert.Equal(t, "GROCERY MART", out.Merchant)

	// Money in debits the feed account; no match leaves the credit side unset.
	in := params[1]
	assert.Equal(t, feed, in.Debit)
	assert.Equal(t, uuid.Nil, in.Credit)
	assert.True(t, in.Amount.Equal(decimal.RequireFromString("2500")))
}

func TestService_Import_NoSuggester(t *testing.T) {
	feed := uuid.New()
	svc := importer.NewService(nil)

	input := "Date,Description,Amount\n01/15/2024,COFFEE SHOP,-4.50\n"

	params, err := svc.Import(context.Background(), feed, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, uuid.Nil, params[0].Debit)
	assert.Equal(t, feed, params[0].Credit)
}
