package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jesuscompany/cash-management/internal/config"
	"github.com/jesuscompany/cash-management/internal/models"
	"github.com/jesuscompany/cash-management/internal/projection"
	"github.com/jesuscompany/cash-management/internal/repository"
	"github.com/jesuscompany/cash-management/internal/scenario"
)

// Service handles business logic
type Service struct {
	repo      *repository.Repository
	projector *projection.CashProjector
	scenarios *scenario.Calculator
	log       *logrus.Logger
	config    *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config) *Service {
	settings := projection.Settings{
		RealisticDelayDays:      cfg.RealisticDelayDays,
		InvoiceLeadDay:          cfg.InvoiceLeadDay,
		DefaultPaymentTermsDays: cfg.DefaultPaymentTermsDays,
	}
	return &Service{
		repo:      repo,
		projector: projection.NewCashProjector(repo, settings, log),
		scenarios: scenario.NewCalculator(),
		log:       log,
		config:    cfg,
	}
}

// CalculateCashProjection computes the bucketed baseline projection.
func (s *Service) CalculateCashProjection(start, end time.Time, entity, timeframe, scenarioType string) ([]models.ProjectionDataPoint, error) {
	points, err := s.projector.CalculateCashProjection(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Projection calculated: entity=%s timeframe=%s scenario=%s periods=%d", entity, timeframe, scenarioType, len(points))
	return points, nil
}

// CalculateCashProjectionDetailed computes the projection with its event lists.
func (s *Service) CalculateCashProjectionDetailed(start, end time.Time, entity, timeframe, scenarioType string) (*projection.ProjectionResult, error) {
	result, err := s.projector.CalculateCashProjectionDetailed(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Detailed projection calculated: entity=%s periods=%d revenue_events=%d expense_events=%d",
		entity, len(result.DataPoints), len(result.RevenueEvents), len(result.ExpenseEvents))
	return result, nil
}

// ApplyScenarioToProjection loads a stored scenario and applies it to a
// freshly computed baseline.
func (s *Service) ApplyScenarioToProjection(start, end time.Time, entity, timeframe, scenarioType string, scenarioID int64) ([]models.ProjectionDataPoint, []models.ProjectionDataPoint, error) {
	baseline, err := s.CalculateCashProjection(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, nil, err
	}
	sc, err := s.repo.ScenarioByID(scenarioID)
	if err != nil {
		return nil, nil, err
	}
	projected := s.scenarios.ApplyScenario(baseline, sc)
	s.log.Infof("Scenario %d (%s) applied to projection: %d changes", sc.ID, sc.Name, len(sc.Changes))
	return baseline, projected, nil
}

// ApplyMultipleScenariosToProjection stacks several stored scenarios onto
// one baseline.
func (s *Service) ApplyMultipleScenariosToProjection(start, end time.Time, entity, timeframe, scenarioType string, scenarioIDs []int64) ([]models.ProjectionDataPoint, []models.ProjectionDataPoint, error) {
	baseline, err := s.CalculateCashProjection(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, nil, err
	}
	scs := make([]*models.Scenario, 0, len(scenarioIDs))
	for _, id := range scenarioIDs {
		sc, err := s.repo.ScenarioByID(id)
		if err != nil {
			return nil, nil, err
		}
		scs = append(scs, sc)
	}
	projected := s.scenarios.ApplyScenarios(baseline, scs)
	s.log.Infof("%d scenarios stacked onto projection", len(scs))
	return baseline, projected, nil
}

// CalculateBreakEven checks whether a stored scenario stays affordable over
// the projection window.
func (s *Service) CalculateBreakEven(start, end time.Time, entity, timeframe, scenarioType string, scenarioID int64) (*scenario.BreakEvenResult, error) {
	baseline, err := s.CalculateCashProjection(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, err
	}
	sc, err := s.repo.ScenarioByID(scenarioID)
	if err != nil {
		return nil, err
	}
	result := s.scenarios.CalculateBreakEven(baseline, sc)
	return &result, nil
}

// ScenarioImpactSummary compares a stored scenario's projection against the
// baseline with absolute and percentage differences.
func (s *Service) ScenarioImpactSummary(start, end time.Time, entity, timeframe, scenarioType string, scenarioID int64) (*scenario.ImpactSummary, error) {
	baseline, projected, err := s.ApplyScenarioToProjection(start, end, entity, timeframe, scenarioType, scenarioID)
	if err != nil {
		return nil, err
	}
	summary := s.scenarios.CalculateImpactSummary(baseline, projected)
	return &summary, nil
}

// CreateScenario stores a new named scenario.
func (s *Service) CreateScenario(name, entity, description, createdBy string) (int64, error) {
	id, err := s.repo.CreateScenario(name, entity, description, createdBy)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Scenario created: id=%d name=%s entity=%s", id, name, entity)
	return id, nil
}

// AddScenarioChange appends a change to a stored scenario.
func (s *Service) AddScenarioChange(rec models.ScenarioChangeRecord) (int64, error) {
	if _, err := s.repo.ScenarioByID(rec.ScenarioID); err != nil {
		return 0, err
	}
	id, err := s.repo.AddScenarioChange(rec)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Scenario change added: scenario=%d type=%s", rec.ScenarioID, rec.ChangeType)
	return id, nil
}

// Scenarios lists stored scenarios, optionally filtered by entity.
func (s *Service) Scenarios(entity string) ([]models.Scenario, error) {
	return s.repo.Scenarios(entity)
}

// ScenarioByID retrieves one stored scenario with its changes.
func (s *Service) ScenarioByID(id int64) (*models.Scenario, error) {
	return s.repo.ScenarioByID(id)
}

// CreatePaymentOverride records a skip or move of one scheduled payment.
func (s *Service) CreatePaymentOverride(o *models.PaymentOverride) error {
	if err := s.repo.CreatePaymentOverride(o); err != nil {
		return err
	}
	s.log.Infof("Payment override created: type=%s contract=%d action=%s", o.OverrideType, o.ContractID, o.Action)
	return nil
}

// MetricsSummary bundles the headline numbers for one entity.
type MetricsSummary struct {
	Entity              string           `json:"entity"`
	TotalMRR            decimal.Decimal  `json:"total_mrr"`
	TotalMonthlyExpense decimal.Decimal  `json:"total_monthly_expense"`
	NetMonthly          decimal.Decimal  `json:"net_monthly"`
	CurrentCash         *decimal.Decimal `json:"current_cash,omitempty"`
	BalanceDate         *time.Time       `json:"balance_date,omitempty"`
}

// GetMetricsSummary computes MRR, monthly expense run rate and the latest
// known cash position for an entity (empty entity spans all).
func (s *Service) GetMetricsSummary(entity string) (*MetricsSummary, error) {
	mrr, err := s.repo.TotalMRR(entity)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.TotalMonthlyExpenses(entity)
	if err != nil {
		return nil, err
	}
	summary := &MetricsSummary{
		Entity:              entity,
		TotalMRR:            mrr,
		TotalMonthlyExpense: expenses,
		NetMonthly:          mrr.Sub(expenses),
	}
	if entity != "" && entity != models.ConsolidatedEntity {
		balance, err := s.repo.LatestBankBalance(entity, nil)
		if err != nil {
			return nil, err
		}
		if balance != nil {
			summary.CurrentCash = &balance.Balance
			summary.BalanceDate = &balance.BalanceDate
		}
	}
	return summary, nil
}

// CashAlert flags an entity whose projected cash goes negative within the
// alert horizon.
type CashAlert struct {
	Entity            string          `json:"entity"`
	FirstNegativeDate time.Time       `json:"first_negative_date"`
	ProjectedLow      decimal.Decimal `json:"projected_low"`
}

// EvaluateCashAlert runs a realistic monthly projection over the alert
// horizon and reports the first projected shortfall, if any.
func (s *Service) EvaluateCashAlert(entity string, horizonMonths int) (*CashAlert, error) {
	start := time.Now()
	end := start.AddDate(0, horizonMonths, 0)
	points, err := s.projector.CalculateCashProjection(start, end, entity, models.TimeframeMonthly, models.ScenarioRealistic)
	if err != nil {
		return nil, err
	}

	var alert *CashAlert
	for _, p := range points {
		if !p.IsNegative {
			continue
		}
		if alert == nil {
			alert = &CashAlert{Entity: entity, FirstNegativeDate: p.Date, ProjectedLow: p.EndingCash}
		} else if p.EndingCash.LessThan(alert.ProjectedLow) {
			alert.ProjectedLow = p.EndingCash
		}
	}
	return alert, nil
}

// NightlyRefresh recomputes and persists each active entity's projection
// snapshot and collects low-cash alerts. Per-entity failures are logged and
// skipped so one entity cannot block the rest. Returns the number of
// entities refreshed alongside the alerts.
func (s *Service) NightlyRefresh() (int, []CashAlert, error) {
	entities, err := s.repo.ActiveEntities()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load entities for refresh: %w", err)
	}

	start := time.Now()
	end := start.AddDate(0, s.config.AlertHorizonMonths, 0)

	refreshed := 0
	var alerts []CashAlert
	for _, entity := range entities {
		points, err := s.projector.CalculateCashProjection(start, end, entity, models.TimeframeMonthly, models.ScenarioRealistic)
		if err != nil {
			s.log.Errorf("Nightly refresh failed for %s: %v", entity, err)
			continue
		}
		if err := s.repo.SaveProjection(points, nil); err != nil {
			s.log.Errorf("Failed to save projection snapshot for %s: %v", entity, err)
			continue
		}
		refreshed++

		alert, err := s.EvaluateCashAlert(entity, s.config.AlertHorizonMonths)
		if err != nil {
			s.log.Errorf("Cash alert evaluation failed for %s: %v", entity, err)
			continue
		}
		if alert != nil {
			s.log.Warnf("Low cash alert: entity=%s first_negative=%s low=%s",
				entity, alert.FirstNegativeDate.Format("2006-01-02"), alert.ProjectedLow.StringFixed(2))
			alerts = append(alerts, *alert)
		}
	}

	s.log.Infof("Nightly refresh completed: %d entities, %d alerts", refreshed, len(alerts))
	return refreshed, alerts, nil
}
