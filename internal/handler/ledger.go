package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

type cashDepositRequest struct {
	CollectorID int64              `json:"collector_id"`
	Amount      decimal.Decimal    `json:"amount"`
	Mode        models.PaymentMode `json:"mode"`
	DepositedOn string             `json:"deposited_on"`
	Note        string             `json:"note"`
}

// RecordCashDeposit books a collector's cash handover to the admin account
func (h *Handler) RecordCashDeposit(w http.ResponseWriter, r *http.Request) {
	var req cashDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	depositedOn, err := parseDate(req.DepositedOn)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	deposit, err := h.svc.RecordCashDeposit(r.Context(), req.CollectorID, req.Amount, req.Mode, depositedOn, req.Note)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, deposit)
}

// GetStatement retrieves a user's ledger statement
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	statement, err := h.svc.GetStatement(id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, statement)
}

// ListCashDeposits lists deposits with an optional collector filter
func (h *Handler) ListCashDeposits(w http.ResponseWriter, r *http.Request) {
	var collectorID int64
	if v := r.URL.Query().Get("collector_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid collector_id")
			return
		}
		collectorID = id
	}

	deposits, err := h.svc.ListCashDeposits(collectorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, deposits)
}
