package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
	"github.com/microfin/collection-service/internal/service"
)

type recordPaymentRequest struct {
	TokenID *int64             `json:"token_id,omitempty"`
	BatchID *int64             `json:"batch_id,omitempty"`
	Amount  decimal.Decimal    `json:"amount"`
	Mode    models.PaymentMode `json:"mode"`
	PaidOn  string             `json:"paid_on"`
}

// RecordPayment records a payment against a token or batch
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	paidOn, err := parseDate(req.PaidOn)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), service.RecordPaymentInput{
		TokenID: req.TokenID,
		BatchID: req.BatchID,
		Amount:  req.Amount,
		Mode:    req.Mode,
		PaidOn:  paidOn,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// VerifyPayment re-checks a payment's tamper-evidence stamp
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	payment, ok, err := h.svc.VerifyPayment(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"payment":  payment,
		"verified": ok,
	})
}

// ListPayments lists payments with optional collector and day filters
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	var collectorID int64
	if v := r.URL.Query().Get("collector_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid collector_id")
			return
		}
		collectorID = id
	}

	var day *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = &d
	}

	payments, err := h.svc.ListPayments(collectorID, day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
