package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/loan"
)

// ListOverdue lists unpaid entries past the active grace window
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.svc.ListOverdueEntries(asOf)
	if errors.Is(err, loan.ErrNoActiveConfig) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"entries": []interface{}{},
			"note":    "no active penalty configuration",
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

type penaltyAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// WaivePenalty sets the waived portion of an entry's penalty
func (h *Handler) WaivePenalty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req penaltyAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.WaivePenalty(r.Context(), id, req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// OverridePenalty manually replaces an entry's accrued penalty
func (h *Handler) OverridePenalty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req penaltyAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.OverridePenalty(r.Context(), id, req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// RunSweep manually triggers the penalty sweep
func (h *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	applied, err := h.svc.RunPenaltySweep(r.Context(), asOf)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"penalized": applied})
}
