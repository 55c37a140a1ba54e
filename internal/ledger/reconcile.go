package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/transaction"
)

// ReconcilePreview is the balance-delta summary shown before a batch status
// change is committed. It is a preview only: the backend recomputes the
// authoritative reconciled balance after the mutation.
type ReconcilePreview struct {
	// Reconciling is true when the batch moves toward reconciled, false for
	// an unreconcile.
	Reconciling  bool
	TargetStatus transaction.Status
	TotalDelta   decimal.Decimal
	NewBalance   decimal.Decimal
}

// PreviewReconciliation computes the net reconciled-balance change of moving
// a batch to/from reconciled status, relative to the fixed selected account.
//
// The batch is treated as a single directional operation: reconciling when
// no transaction in it is currently reconciled, otherwise unreconciling.
// Transactions already at the target status contribute nothing. Amounts use
// the same credit-negative viewpoint convention as the register, for both
// directions.
func PreviewReconciliation(txs []*transaction.Transaction, selectedAccountID uuid.UUID, currentReconciledBalance decimal.Decimal) ReconcilePreview {
	reconciling := true

	for _, tx := range txs {
		if tx.Status == transaction.StatusReconciled {
			reconciling = false
			break
		}
	}

	target := transaction.StatusReconciled
	if !reconciling {
		target = transaction.StatusReview
	}

	sum := decimal.Zero

	for _, tx := range txs {
		if tx.Status == target {
			continue
		}

		amount := tx.Amount
		if tx.Credit == selectedAccountID {
			amount = amount.Neg()
		}

		sum = sum.Add(amount)
	}

	return ReconcilePreview{
		Reconciling:  reconciling,
		TargetStatus: target,
		TotalDelta:   sum,
		NewBalance:   currentReconciledBalance.Add(sum),
	}
}
