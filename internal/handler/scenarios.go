package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/jesuscompany/cash-management/internal/models"
)

// changeDTO is the wire form of a scenario change.
type changeDTO struct {
	Type              string           `json:"type"`
	StartDate         string           `json:"start_date"`
	EndDate           *string          `json:"end_date,omitempty"`
	Employees         int              `json:"employees,omitempty"`
	SalaryPerEmployee *decimal.Decimal `json:"salary_per_employee,omitempty"`
	Name              string           `json:"name,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	NewClients        int              `json:"new_clients,omitempty"`
	RevenuePerClient  *decimal.Decimal `json:"revenue_per_client,omitempty"`
	LostRevenue       *decimal.Decimal `json:"lost_revenue,omitempty"`
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func changeToDTO(change models.ScenarioChange) changeDTO {
	dto := changeDTO{Type: change.Kind()}
	start, end := change.Window()
	dto.StartDate = formatDate(start)
	dto.EndDate = formatDatePtr(end)

	switch c := change.(type) {
	case models.HiringChange:
		dto.Employees = c.Employees
		dto.SalaryPerEmployee = &c.SalaryPerEmployee
	case models.ExpenseChange:
		dto.Name = c.Name
		dto.Amount = &c.Amount
	case models.RevenueChange:
		dto.NewClients = c.NewClients
		dto.RevenuePerClient = &c.RevenuePerClient
	case models.CustomerLossChange:
		dto.LostRevenue = &c.LostRevenue
	case models.InvestmentChange:
		dto.Amount = &c.Amount
	}
	return dto
}

// scenarioDTO is the wire form of a scenario with its changes.
type scenarioDTO struct {
	models.Scenario
	Changes []changeDTO `json:"changes"`
}

func scenarioToDTO(s *models.Scenario) scenarioDTO {
	dto := scenarioDTO{Scenario: *s, Changes: make([]changeDTO, 0, len(s.Changes))}
	for _, change := range s.Changes {
		dto.Changes = append(dto.Changes, changeToDTO(change))
	}
	return dto
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// CreateScenario stores a new named scenario
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Entity      string `json:"entity"`
		Description string `json:"description"`
		CreatedBy   string `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.Entity == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "name and entity are required"})
		return
	}
	id, err := h.svc.CreateScenario(req.Name, req.Entity, req.Description, req.CreatedBy)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListScenarios lists stored scenarios, optionally filtered by entity
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.svc.Scenarios(r.URL.Query().Get("entity"))
	if err != nil {
		respondError(w, err)
		return
	}
	if scenarios == nil {
		scenarios = []models.Scenario{}
	}
	respondJSON(w, http.StatusOK, scenarios)
}

// GetScenario returns one scenario with its change list
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario id"})
		return
	}
	sc, err := h.svc.ScenarioByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, scenarioToDTO(sc))
}

// AddScenarioChange appends one change to a stored scenario
func (h *Handler) AddScenarioChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario id"})
		return
	}
	var rec models.ScenarioChangeRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	rec.ScenarioID = id
	if _, err := rec.Change(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	changeID, err := h.svc.AddScenarioChange(rec)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": changeID})
}

// ApplyScenario applies one stored scenario to a fresh baseline projection
func (h *Handler) ApplyScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario id"})
		return
	}
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	baseline, projected, err := h.svc.ApplyScenarioToProjection(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"baseline": baseline,
		"scenario": projected,
	})
}

// ApplyScenarios stacks several stored scenarios onto one baseline
func (h *Handler) ApplyScenarios(w http.ResponseWriter, r *http.Request) {
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		ScenarioIDs []int64 `json:"scenario_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.ScenarioIDs) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "scenario_ids is required"})
		return
	}
	baseline, projected, err := h.svc.ApplyMultipleScenariosToProjection(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType, req.ScenarioIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"baseline": baseline,
		"scenario": projected,
	})
}

// ScenarioImpact compares a stored scenario's projection against its baseline
func (h *Handler) ScenarioImpact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario id"})
		return
	}
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	summary, err := h.svc.ScenarioImpactSummary(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ScenarioBreakEven reports whether a stored scenario stays affordable
func (h *Handler) ScenarioBreakEven(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scenario id"})
		return
	}
	params, err := parseProjectionParams(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.svc.CalculateBreakEven(params.Start, params.End, params.Entity, params.Timeframe, params.ScenarioType, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
