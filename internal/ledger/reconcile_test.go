package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

func newStatusTx(amount string, debit, credit uuid.UUID, status transaction.Status) *transaction.Transaction {
	tx := newTx(amount, debit, credit)
	tx.Status = status

	return tx
}

func TestPreviewReconciliation(t *testing.T) {
	selected := uuid.New()
	other := uuid.New()

	t.Run("MixedSides", func(t *testing.T) {
		// One credit of 50 (money leaving), one debit of 30 (money entering),
		// starting balance 100 -> 80.
		txs := []*transaction.Transaction{
			newStatusTx("50", other, selected, transaction.StatusReview),
			newStatusTx("30", selected, other, transaction.StatusReview),
		}

		preview := ledger.PreviewReconciliation(txs, selected, decimal.RequireFromString("100.00"))

		assert.True(t, preview.Reconciling)
		assert.Equal(t, transaction.StatusReconciled, preview.TargetStatus)
		assert.Equal(t, "-20.00", preview.TotalDelta.StringFixed(2))
		assert.Equal(t, "80.00", preview.NewBalance.StringFixed(2))
	})

	t.Run("AnyReconciledMeansUnreconcile", func(t *testing.T) {
		txs := []*transaction.Transaction{
			newStatusTx("25", selected, other, transaction.StatusReconciled),
			newStatusTx("10", selected, other, transaction.StatusCategorized),
		}

		preview := ledger.PreviewReconciliation(txs, selected, decimal.Zero)

		assert.False(t, preview.Reconciling)
		assert.Equal(t, transaction.StatusReview, preview.TargetStatus)
		// Both contribute: neither is at the review target yet. The sign
		// convention is the same in both directions.
		assert.Equal(t, "35.00", preview.TotalDelta.StringFixed(2))
	})

	t.Run("RowsAtTargetAreSkipped", func(t *testing.T) {
		txs := []*transaction.Transaction{
			newStatusTx("40", selected, other, transaction.StatusReview),
			newStatusTx("60", selected, other, transaction.StatusReconciled),
		}

		// A reconciled row in the batch makes this an unreconcile; the
		// review row is already at the target and contributes nothing.
		preview := ledger.PreviewReconciliation(txs, selected, decimal.Zero)

		assert.Equal(t, transaction.StatusReview, preview.TargetStatus)
		assert.Equal(t, "60.00", preview.TotalDelta.StringFixed(2))
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		preview := ledger.PreviewReconciliation(nil, selected, decimal.RequireFromString("42.00"))

		assert.True(t, preview.Reconciling)
		assert.True(t, preview.TotalDelta.IsZero())
		assert.Equal(t, "42.00", preview.NewBalance.StringFixed(2))
	})
}

// Unreconciling a reconciled batch and immediately reconciling it again
// returns the balance to its original value.
func TestPreviewReconciliation_RoundTrip(t *testing.T) {
	selected := uuid.New()
	other := uuid.New()

	start := decimal.RequireFromString("500.00")

	batch := []*transaction.Transaction{
		newStatusTx("120.00", selected, other, transaction.StatusReconciled),
		newStatusTx("45.50", other, selected, transaction.StatusReconciled),
		newStatusTx("3.99", other, selected, transaction.StatusReconciled),
	}

	unreconcile := ledger.PreviewReconciliation(batch, selected, start)
	require.Equal(t, transaction.StatusReview, unreconcile.TargetStatus)

	// Commit the unreconcile, then preview reconciling the same batch.
	// Unreconciling removes the batch from the reconciled balance.
	afterUnreconcile := start.Sub(unreconcile.TotalDelta)

	for _, tx := range batch {
		tx.Status = transaction.StatusReview
	}

	reconcile := ledger.PreviewReconciliation(batch, selected, afterUnreconcile)
	require.Equal(t, transaction.StatusReconciled, reconcile.TargetStatus)

	assert.True(t, reconcile.NewBalance.Equal(start), "round trip: got %s want %s", reconcile.NewBalance, start)
}

func TestCanTransition(t *testing.T) {
	type testCase struct {
		from, to transaction.Status
		want     bool
	}

	tests := []testCase{
		{transaction.StatusReview, transaction.StatusCategorized, true},
		{transaction.StatusReview, transaction.StatusReconciled, true},
		{transaction.StatusCategorized, transaction.StatusReview, true},
		{transaction.StatusCategorized, transaction.StatusReconciled, true},
		{transaction.StatusReconciled, transaction.StatusReview, true},
		{transaction.StatusReconciled, transaction.StatusCategorized, true},
		{transaction.StatusReview, transaction.StatusReview, false},
		{transaction.StatusReview, transaction.Status("archived"), false},
		{transaction.Status(""), transaction.StatusReview, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transaction.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
