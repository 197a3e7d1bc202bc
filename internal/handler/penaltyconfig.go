package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/loan"
	"github.com/microfin/collection-service/internal/models"
)

type penaltyConfigRequest struct {
	Type      models.PenaltyType `json:"type"`
	Value     decimal.Decimal    `json:"value"`
	GraceDays int                `json:"grace_days"`
}

// CreatePenaltyConfig creates a new, inactive penalty rule
func (h *Handler) CreatePenaltyConfig(w http.ResponseWriter, r *http.Request) {
	var req penaltyConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.svc.CreatePenaltyConfig(&models.PenaltyConfig{
		Type:      req.Type,
		Value:     req.Value,
		GraceDays: req.GraceDays,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, cfg)
}

// ActivatePenaltyConfig makes one rule active, deactivating all others
func (h *Handler) ActivatePenaltyConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ActivatePenaltyConfig(r.Context(), id); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

// GetActivePenaltyConfig retrieves the active rule
func (h *Handler) GetActivePenaltyConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetActivePenaltyConfig()
	if errors.Is(err, loan.ErrNoActiveConfig) {
		respondError(w, http.StatusNotFound, "no active penalty configuration")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// ListPenaltyConfigs lists all penalty rules
func (h *Handler) ListPenaltyConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.svc.ListPenaltyConfigs()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, configs)
}
