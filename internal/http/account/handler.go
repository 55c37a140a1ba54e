package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centbook/centbook/internal/account"
)

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/subtypes", h.listSubTypes)
	r.Post("/subtypes", h.createSubType)
	r.Delete("/subtypes/{id}", h.deleteSubType)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/goal", h.getGoal)
	r.Put("/{id}/goal", h.setGoal)
}

type createAccountRequest struct {
	Name       string     `json:"name"`
	Num        int        `json:"num"`
	Type       string     `json:"type"`
	SubTypeID  *uuid.UUID `json:"sub_type_id,omitempty"`
	Icon       string     `json:"icon"`
	InBankFeed bool       `json:"in_bank_feed"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Create(r.Context(), account.CreateParams{
		Name:       req.Name,
		Num:        req.Num,
		Type:       account.Type(req.Type),
		SubTypeID:  req.SubTypeID,
		Icon:       req.Icon,
		InBankFeed: req.InBankFeed,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := account.ListFilter{}

	if s := r.URL.Query().Get("types"); s != "" {
		for _, part := range strings.Split(s, ",") {
			t := account.Type(strings.TrimSpace(part))
			if !t.Valid() {
				http.Error(w, "invalid account type", http.StatusBadRequest)
				return
			}

			filter.Types = append(filter.Types, t)
		}
	}

	if s := r.URL.Query().Get("in_bank_feed"); s != "" {
		filter.InBankFeed = new(s == "true")
	}

	accounts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(accounts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(a))
}

type updateAccountRequest struct {
	Name       *string    `json:"name,omitempty"`
	Num        *int       `json:"num,omitempty"`
	SubTypeID  *uuid.UUID `json:"sub_type_id,omitempty"`
	ClearSub   bool       `json:"clear_sub_type,omitempty"`
	Icon       *string    `json:"icon,omitempty"`
	InBankFeed *bool      `json:"in_bank_feed,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.Update(r.Context(), id, account.UpdateParams{
		Name:       req.Name,
		Num:        req.Num,
		SubTypeID:  req.SubTypeID,
		ClearSub:   req.ClearSub,
		Icon:       req.Icon,
		InBankFeed: req.InBankFeed,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(a))
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

func (h *Handler) listSubTypes(w http.ResponseWriter, r *http.Request) {
	subTypes, err := h.svc.ListSubTypes(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]subTypeResponse, len(subTypes))
	for i, st := range subTypes {
		resp[i] = toSubTypeResponse(st)
	}

	writeJSON(w, http.StatusOK, resp)
}

type createSubTypeRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *Handler) createSubType(w http.ResponseWriter, r *http.Request) {
	var req createSubTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.svc.CreateSubType(r.Context(), req.Name, account.Type(req.Type))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubTypeResponse(st))
}

func (h *Handler) deleteSubType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteSubType(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	g, err := h.svc.GetGoal(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(g))
}

type setGoalRequest struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (h *Handler) setGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.SetGoalTarget(r.Context(), id, req.TargetAmount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(g))
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
	case errors.Is(err, account.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, account.ErrSubTypeMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
