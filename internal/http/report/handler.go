package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/centbook/centbook/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/budget", h.budget)
	r.Get("/balance", h.balance)
	r.Get("/flow", h.flow)
	r.Get("/net-worth", h.netWorth)
	r.Get("/goals", h.goals)
}

func (h *Handler) budget(w http.ResponseWriter, r *http.Request) {
	month, err := parseDateParam(r, "month", "2006-01")
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	table, err := h.svc.Budget(r.Context(), month)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(table))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r, "as_of", time.DateOnly)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return
	}

	sheet, err := h.svc.Balance(r.Context(), asOf)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(sheet))
}

func (h *Handler) flow(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from", time.DateOnly)
	if err != nil {
		http.Error(w, "invalid from", http.StatusBadRequest)
		return
	}

	to, err := parseDateParam(r, "to", time.DateOnly)
	if err != nil {
		http.Error(w, "invalid to", http.StatusBadRequest)
		return
	}

	stmt, err := h.svc.Flow(r.Context(), from, to)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toFlowResponse(stmt))
}

func (h *Handler) netWorth(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from", "2006-01")
	if err != nil {
		http.Error(w, "invalid from", http.StatusBadRequest)
		return
	}

	to, err := parseDateParam(r, "to", "2006-01")
	if err != nil {
		http.Error(w, "invalid to", http.StatusBadRequest)
		return
	}

	points, err := h.svc.NetWorthHistory(r.Context(), from, to)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toNetWorthResponse(points))
}

func (h *Handler) goals(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.Goals(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toGoalsResponse(progress))
}

func parseDateParam(r *http.Request, name, layout string) (time.Time, error) {
	return time.Parse(layout, r.URL.Query().Get(name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
