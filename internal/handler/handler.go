package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jesuscompany/cash-management/internal/models"
	"github.com/jesuscompany/cash-management/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps domain errors to HTTP status codes. Unknown errors are
// reported as 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	var invalidEntity *models.InvalidEntityError
	var invalidTimeframe *models.InvalidTimeframeError
	var missingBalance *models.MissingBalanceError
	var notFound *models.ScenarioNotFoundError

	switch {
	case errors.As(err, &invalidEntity), errors.As(err, &invalidTimeframe):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &notFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &missingBalance):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMetricsSummary returns MRR, expense run rate and current cash for an entity
func (h *Handler) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	summary, err := h.svc.GetMetricsSummary(entity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// CreatePaymentOverride records a skip or move of one scheduled payment
func (h *Handler) CreatePaymentOverride(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OverrideType string  `json:"override_type"`
		ContractID   int64   `json:"contract_id"`
		OriginalDate string  `json:"original_date"`
		Action       string  `json:"action"`
		NewDate      *string `json:"new_date"`
		Reason       string  `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OverrideType != models.OverrideCustomer && req.OverrideType != models.OverrideVendor {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "override_type must be customer or vendor"})
		return
	}
	if req.Action != models.OverrideActionSkip && req.Action != models.OverrideActionMove {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "action must be skip or move"})
		return
	}
	originalDate, err := time.Parse("2006-01-02", req.OriginalDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "original_date must be YYYY-MM-DD"})
		return
	}
	override := &models.PaymentOverride{
		OverrideType: req.OverrideType,
		ContractID:   req.ContractID,
		OriginalDate: originalDate,
		Action:       req.Action,
		Reason:       req.Reason,
	}
	if req.Action == models.OverrideActionMove {
		if req.NewDate == nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "new_date is required for move"})
			return
		}
		newDate, err := time.Parse("2006-01-02", *req.NewDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "new_date must be YYYY-MM-DD"})
			return
		}
		override.NewDate = &newDate
	}
	if err := h.svc.CreatePaymentOverride(override); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, override)
}
