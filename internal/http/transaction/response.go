package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

type transactionResponse struct {
	ID           uuid.UUID          `json:"id"`
	Date         string             `json:"date"`
	Amount       decimal.Decimal    `json:"amount"`
	Debit        uuid.UUID          `json:"debit"`
	Credit       uuid.UUID          `json:"credit"`
	Notes        string             `json:"notes,omitempty"`
	Merchant     string             `json:"merchant,omitempty"`
	Status       transaction.Status `json:"status"`
	IsReconciled bool               `json:"is_reconciled"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		Date:         tx.Date.Format(time.DateOnly),
		Amount:       tx.Amount,
		Debit:        tx.Debit,
		Credit:       tx.Credit,
		Notes:        tx.Notes,
		Merchant:     tx.Merchant,
		Status:       tx.Status,
		IsReconciled: tx.IsReconciled,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type categoryResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon"`
}

// registerRowResponse is a transaction viewed from the selected account:
// amount signed credits-negative, counterparty resolved to a category label.
type registerRowResponse struct {
	transactionResponse

	AdjustedAmount  decimal.Decimal  `json:"adjusted_amount"`
	FormattedAmount string           `json:"formatted_amount"`
	Category        categoryResponse `json:"category"`
}

func toRegisterRow(tx *transaction.Transaction, p ledger.Perspective) registerRowResponse {
	return registerRowResponse{
		transactionResponse: toResponse(tx),
		AdjustedAmount:      p.Amount,
		FormattedAmount:     ledger.FormatUSD(p.Amount),
		Category: categoryResponse{
			AccountID: p.Category.AccountID,
			Label:     p.Category.Label,
			Icon:      p.Category.Icon,
		},
	}
}
