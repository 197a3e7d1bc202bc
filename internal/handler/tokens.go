package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
	"github.com/microfin/collection-service/internal/service"
)

type issueTokenRequest struct {
	CustomerID    int64               `json:"customer_id"`
	Principal     decimal.Decimal     `json:"principal"`
	InterestType  models.InterestType `json:"interest_type"`
	InterestValue decimal.Decimal     `json:"interest_value"`
	DurationDays  int                 `json:"duration_days"`
	StartDate     string              `json:"start_date"`
	Quantity      int                 `json:"quantity"`
}

func (req issueTokenRequest) toInput() (service.IssueTokenInput, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return service.IssueTokenInput{}, err
	}
	return service.IssueTokenInput{
		CustomerID:   req.CustomerID,
		Principal:    req.Principal,
		Interest:     models.InterestSpec{Type: req.InterestType, Value: req.InterestValue},
		DurationDays: req.DurationDays,
		StartDate:    startDate,
	}, nil
}

// IssueToken issues a single token with its repayment schedule
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.IssueToken(r.Context(), in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, token)
}

// IssueBatch issues a batch of identical tokens
func (h *Handler) IssueBatch(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, tokens, err := h.svc.IssueBatch(r.Context(), service.IssueBatchInput{
		IssueTokenInput: in,
		Quantity:        req.Quantity,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"batch":  batch,
		"tokens": tokens,
	})
}

// GetBatch retrieves a batch with its tokens
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	details, err := h.svc.GetBatchDetails(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// GetToken retrieves a token with its schedule and derived totals
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	details, err := h.svc.GetTokenDetails(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// ListTokens lists tokens filtered by status and/or customer
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	var customerID int64
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		customerID = id
	}
	tokens, err := h.svc.ListTokens(models.TokenStatus(r.URL.Query().Get("status")), customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tokens)
}

// CancelToken manually cancels a token
func (h *Handler) CancelToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.CancelToken(r.Context(), id); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// CloseToken closes a fully paid token
func (h *Handler) CloseToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.CloseToken(r.Context(), id); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
