package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
	"github.com/centbook/centbook/internal/ledger"
	"github.com/centbook/centbook/internal/transaction"
)

// AccountSource is the slice of the account service the handler needs to
// resolve register categories and reconciled balances.
type AccountSource interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Map(ctx context.Context) (map[uuid.UUID]*account.Account, error)
}

type Handler struct {
	svc      *transaction.Service
	accounts AccountSource
}

func NewHandler(svc *transaction.Service, accounts AccountSource) *Handler {
	return &Handler{svc: svc, accounts: accounts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/register", h.register)
	r.Post("/reconcile/preview", h.reconcilePreview)
	r.Post("/reconcile", h.reconcile)
	r.Patch("/status", h.updateStatusBatch)
	r.Post("/bulk-delete", h.deleteBatch)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Date     string             `json:"date"`
	Amount   decimal.Decimal    `json:"amount"`
	Debit    uuid.UUID          `json:"debit"`
	Credit   uuid.UUID          `json:"credit"`
	Notes    string             `json:"notes"`
	Merchant string             `json:"merchant"`
	Status   transaction.Status `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Date:     date,
		Amount:   req.Amount,
		Debit:    req.Debit,
		Credit:   req.Credit,
		Notes:    req.Notes,
		Merchant: req.Merchant,
		Status:   req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

// register lists an account's transactions with amounts and categories
// derived from that account's viewpoint.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if filter.AccountID == nil {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	accounts, err := h.accounts.Map(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rows := make([]registerRowResponse, 0, len(txs))

	for _, tx := range txs {
		p, err := ledger.AmountAndCategory(tx, *filter.AccountID, accounts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		rows = append(rows, toRegisterRow(tx, p))
	}

	writeJSON(w, http.StatusOK, rows)
}

// previewRow mirrors what the client holds for each selected row. Amount is
// raw JSON because clients send it both as a number and as a string; an
// unparsable value counts as zero in the preview.
type previewRow struct {
	ID     uuid.UUID          `json:"id"`
	Amount json.RawMessage    `json:"amount"`
	Debit  uuid.UUID          `json:"debit"`
	Credit uuid.UUID          `json:"credit"`
	Status transaction.Status `json:"status"`
}

type reconcilePreviewRequest struct {
	AccountID    uuid.UUID    `json:"account_id"`
	Transactions []previewRow `json:"transactions"`
}

type reconcilePreviewResponse struct {
	Reconciling       bool               `json:"reconciling"`
	TargetStatus      transaction.Status `json:"target_status"`
	TotalDelta        decimal.Decimal    `json:"total_delta"`
	NewBalance        decimal.Decimal    `json:"new_balance"`
	FormattedDelta    string             `json:"formatted_delta"`
	FormattedBalance  string             `json:"formatted_balance"`
	TransactionsMoved int                `json:"transactions_moved"`
}

func (h *Handler) reconcilePreview(w http.ResponseWriter, r *http.Request) {
	var req reconcilePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.accounts.Get(r.Context(), req.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	txs := make([]*transaction.Transaction, 0, len(req.Transactions))
	for _, row := range req.Transactions {
		txs = append(txs, &transaction.Transaction{
			ID:     row.ID,
			Amount: ledger.ParseAmountLenient(rawToString(row.Amount)),
			Debit:  row.Debit,
			Credit: row.Credit,
			Status: row.Status,
		})
	}

	preview := ledger.PreviewReconciliation(txs, req.AccountID, a.ReconciledBalance)

	moved := 0

	for _, tx := range txs {
		if tx.Status != preview.TargetStatus {
			moved++
		}
	}

	writeJSON(w, http.StatusOK, reconcilePreviewResponse{
		Reconciling:       preview.Reconciling,
		TargetStatus:      preview.TargetStatus,
		TotalDelta:        preview.TotalDelta,
		NewBalance:        preview.NewBalance,
		FormattedDelta:    ledger.FormatUSD(preview.TotalDelta),
		FormattedBalance:  ledger.FormatUSD(preview.NewBalance),
		TransactionsMoved: moved,
	})
}

type reconcileRequest struct {
	AccountID      uuid.UUID          `json:"account_id"`
	TransactionIDs []uuid.UUID        `json:"transaction_ids"`
	TargetStatus   transaction.Status `json:"target_status"`
}

type reconcileResponse struct {
	ReconciledBalance decimal.Decimal `json:"reconciled_balance"`
	FormattedBalance  string          `json:"formatted_balance"`
}

// reconcile commits the batch status change, then reports the recomputed
// reconciled balance rather than trusting any client-side preview math.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatusBatch(r.Context(), req.TransactionIDs, req.TargetStatus); err != nil {
		writeServiceError(w, err)
		return
	}

	a, err := h.accounts.Get(r.Context(), req.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reconcileResponse{
		ReconciledBalance: a.ReconciledBalance,
		FormattedBalance:  ledger.FormatUSD(a.ReconciledBalance),
	})
}

type updateStatusBatchRequest struct {
	TransactionIDs []uuid.UUID        `json:"transaction_ids"`
	Status         transaction.Status `json:"status"`
}

func (h *Handler) updateStatusBatch(w http.ResponseWriter, r *http.Request) {
	var req updateStatusBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatusBatch(r.Context(), req.TransactionIDs, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deleteBatchRequest struct {
	TransactionIDs []uuid.UUID `json:"transaction_ids"`
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBatch(r.Context(), req.TransactionIDs); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Date     *string             `json:"date,omitempty"`
	Amount   *decimal.Decimal    `json:"amount,omitempty"`
	Debit    *uuid.UUID          `json:"debit,omitempty"`
	Credit   *uuid.UUID          `json:"credit,omitempty"`
	Notes    *string             `json:"notes,omitempty"`
	Merchant *string             `json:"merchant,omitempty"`
	Status   *transaction.Status `json:"status,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		Amount:   req.Amount,
		Debit:    req.Debit,
		Credit:   req.Credit,
		Notes:    req.Notes,
		Merchant: req.Merchant,
		Status:   req.Status,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		params.Date = &date
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, fmt.Errorf("invalid account_id")
		}

		filter.AccountID = new(id)
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date")
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date")
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}

// rawToString normalizes a JSON amount to its string form whether the client
// sent "12.34" or 12.34.
func rawToString(raw json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound), errors.Is(err, account.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, transaction.ErrSameAccount),
		errors.Is(err, transaction.ErrNegativeAmount),
		errors.Is(err, transaction.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
