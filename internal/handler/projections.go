package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jesuscompany/cash-management/internal/models"
)

// projectionParams carries the common query parameters of the projection
// endpoints, with defaults applied.
type projectionParams struct {
	Start        time.Time
	End          time.Time
	Entity       string
	Timeframe    string
	ScenarioType string
}

// parseProjectionParams reads entity, timeframe, scenario_type, start and
// end from the query string. Defaults: consolidated entity, monthly
// timeframe, realistic scenario, twelve months from today.
func parseProjectionParams(r *http.Request) (projectionParams, error) {
	q := r.URL.Query()

	p := projectionParams{
		Entity:       q.Get("entity"),
		Timeframe:    q.Get("timeframe"),
		ScenarioType: q.Get("scenario_type"),
	}
	if p.Entity == "" {
		p.Entity = models.ConsolidatedEntity
	}
	if p.Timeframe == "" {
		p.Timeframe = models.TimeframeMonthly
	}
	if p.ScenarioType == "" {
		p.ScenarioType = models.ScenarioRealistic
	}

	p.Start = time.Now()
	if s := q.Get("start"); s != "" {
		start, err := time.Parse("2006-01-02", s)
		if err != nil {
			return p, fmt.Errorf("start must be YYYY-MM-DD")
		}
		p.Start = start
	}
	p.End = p.Start.AddDate(0, 12, 0)
	if s := q.Get("end"); s != "" {
		end, err := time.Parse("2006-01-02", s)
		if err != nil {
			return p, fmt.Errorf("end must be YYYY-MM-DD")
		}
		p.End = end
	}
	if p.End.Before(p.Start) {
		return p, fmt.Errorf("end must not precede start")
	}
	return p, nil
}

// GetProjection returns the bucketed cash projection for an entity
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	points, err := h.svc.CalculateCashProjection(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entity":        params.Entity,
		"timeframe":     params.Timeframe,
		"scenario_type": params.ScenarioType,
		"data_points":   points,
	})
}

// GetProjectionDetailed returns the projection with its underlying events
func (h *Handler) GetProjectionDetailed(w http.ResponseWriter, r *http.Request) {
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.svc.CalculateCashProjectionDetailed(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
