package handler

import (
	"net/http"
	"strconv"
)

// CollectorDashboard serves the collector portal landing data: today's
// dues, the collector's own receipts for the day, and their cash ledger
func (h *Handler) CollectorDashboard(w http.ResponseWriter, r *http.Request) {
	idStr, _ := r.Context().Value("userID").(string)
	collectorID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || collectorID <= 0 {
		respondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dashboard, err := h.svc.GetCollectorDashboard(collectorID, day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// ListCollectors lists collector users for the admin screens
func (h *Handler) ListCollectors(w http.ResponseWriter, r *http.Request) {
	collectors, err := h.svc.ListCollectorUsers()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, collectors)
}
