package bankcsv_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/importer/bankcsv"
)

func TestParser_ChaseLayout(t *testing.T) {
	input := strings.Join([]string{
		"Transaction Date,Post Date,Description,Category,Type,Amount",
		"01/15/2024,01/16/2024,COFFEE SHOP,Food & Drink,Sale,-4.50",
		"01/16/2024,01/17/2024,PAYROLL ACME INC,Income,Deposit,2500.00",
	}, "\n")

	rows, err := bankcsv.New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "COFFEE SHOP", rows[0].Description)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-4.50")))

	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("2500")))
}

func TestParser_SplitDebitCredit(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Debit,Credit",
		"2024-01-15,GROCERY MART,42.50,",
		"2024-01-16,REFUND,,10.00",
	}, "\n")

	rows, err := bankcsv.New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-42.50")))
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("10")))
}

func TestParser_SkipsPreambleAndFooter(t *testing.T) {
	input := strings.Join([]string{
		"Statement for account ending 1234",
		"",
		"Date,Description,Amount",
		"01/15/2024,COFFEE SHOP,-4.50",
		"Total,,-4.50",
	}, "\n")

	rows, err := bankcsv.New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "COFFEE SHOP", rows[0].Description)
}

func TestParser_SemicolonEuropeanAmounts(t *testing.T) {
	input := strings.Join([]string{
		"Date;Description;Amount",
		"15-01-2024;SUPERMERCADO;-1.234,56",
	}, "\n")

	rows, err := bankcsv.New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-1234.56")))
}

func TestParser_UnknownLayout(t *testing.T) {
	input := "Foo,Bar\n1,2\n"

	_, err := bankcsv.New().Parse(strings.NewReader(input))
	assert.Error(t, err)
}
