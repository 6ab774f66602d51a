package projection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jesuscompany/cash-management/internal/models"
)

// ContractSource supplies active, pre-validated contract records.
type ContractSource interface {
	ActiveCustomerContracts(entity string) ([]models.CustomerContract, error)
	ActiveVendorContracts(entity string) ([]models.VendorContract, error)
}

// BalanceSource supplies the most recent bank balance at or before a date.
// A nil balance with a nil error means no record exists for the entity.
type BalanceSource interface {
	LatestBankBalance(entity string, asOf *time.Time) (*models.BankBalance, error)
}

// OverrideSource supplies payment overrides filtered by type.
type OverrideSource interface {
	PaymentOverrides(overrideType string) ([]models.PaymentOverride, error)
}

// EntitySource supplies the active entity codes.
type EntitySource interface {
	ActiveEntities() ([]string, error)
}

// DataSource bundles everything the projector reads at call time.
type DataSource interface {
	ContractSource
	BalanceSource
	OverrideSource
	EntitySource
}

// ProjectionResult bundles aggregated data points with the underlying
// events for transaction-level drill-down.
type ProjectionResult struct {
	DataPoints    []models.ProjectionDataPoint `json:"data_points"`
	RevenueEvents []models.RevenueEvent        `json:"revenue_events"`
	ExpenseEvents []models.ExpenseEvent        `json:"expense_events"`
}

// EventsForPeriod returns the events dated within [start, end] inclusive.
func (r *ProjectionResult) EventsForPeriod(start, end time.Time) ([]models.RevenueEvent, []models.ExpenseEvent) {
	var revenue []models.RevenueEvent
	for _, e := range r.RevenueEvents {
		if !e.Date.Before(start) && !e.Date.After(end) {
			revenue = append(revenue, e)
		}
	}
	var expenses []models.ExpenseEvent
	for _, e := range r.ExpenseEvents {
		if !e.Date.Before(start) && !e.Date.After(end) {
			expenses = append(expenses, e)
		}
	}
	return revenue, expenses
}

// EventsForDate returns the events dated on a single day.
func (r *ProjectionResult) EventsForDate(target time.Time) ([]models.RevenueEvent, []models.ExpenseEvent) {
	return r.EventsForPeriod(target, target)
}

// CashProjector orchestrates starting balances, event generation and
// period bucketing into full cash projections, per entity or consolidated.
type CashProjector struct {
	src      DataSource
	settings Settings
	log      *logrus.Logger
}

// NewCashProjector builds a projector over a data source.
func NewCashProjector(src DataSource, settings Settings, log *logrus.Logger) *CashProjector {
	return &CashProjector{src: src, settings: settings, log: log}
}

// StartingCash returns the most recent bank balance for an entity at or
// before asOf (nil asOf means most recent ever). A missing balance is fatal
// and never defaults to zero.
func (p *CashProjector) StartingCash(entity string, asOf *time.Time) (decimal.Decimal, time.Time, error) {
	balance, err := p.src.LatestBankBalance(entity, asOf)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	if balance == nil {
		return decimal.Zero, time.Time{}, &models.MissingBalanceError{Entity: entity}
	}
	return balance.Balance, models.DateOf(balance.BalanceDate), nil
}

func (p *CashProjector) validateEntity(entity string) error {
	if entity == models.ConsolidatedEntity {
		return nil
	}
	entities, err := p.src.ActiveEntities()
	if err != nil {
		return fmt.Errorf("load active entities: %w", err)
	}
	for _, code := range entities {
		if code == entity {
			return nil
		}
	}
	return &models.InvalidEntityError{Entity: entity}
}

// CalculateCashProjection computes the bucketed projection with a running
// balance for one entity or the consolidated view.
func (p *CashProjector) CalculateCashProjection(start, end time.Time, entity, timeframe, scenarioType string) ([]models.ProjectionDataPoint, error) {
	result, err := p.CalculateCashProjectionDetailed(start, end, entity, timeframe, scenarioType)
	if err != nil {
		return nil, err
	}
	return result.DataPoints, nil
}

// CalculateCashProjectionDetailed computes the same projection and keeps
// the full event lists alongside the aggregated data points.
func (p *CashProjector) CalculateCashProjectionDetailed(start, end time.Time, entity, timeframe, scenarioType string) (*ProjectionResult, error) {
	if err := p.validateEntity(entity); err != nil {
		return nil, err
	}
	if entity == models.ConsolidatedEntity {
		return p.consolidated(start, end, timeframe, scenarioType)
	}
	return p.projectEntity(start, end, entity, timeframe, scenarioType)
}

// projectEntity runs a single-entity projection. Events are generated once
// for the whole window and then walked across the period boundaries; a
// three-year daily projection must not recompute events per bucket.
func (p *CashProjector) projectEntity(start, end time.Time, entity, timeframe, scenarioType string) (*ProjectionResult, error) {
	start = models.DateOf(start)
	end = models.DateOf(end)

	periodDates, err := GenerateDateRange(start, end, timeframe)
	if err != nil {
		return nil, err
	}

	startingCash, balanceDate, err := p.StartingCash(entity, nil)
	if err != nil {
		return nil, err
	}
	p.log.Debugf("starting cash for %s: %s (as of %s)", entity, startingCash, balanceDate.Format("2006-01-02"))

	customers, err := p.src.ActiveCustomerContracts(entity)
	if err != nil {
		return nil, fmt.Errorf("load customer contracts: %w", err)
	}
	vendors, err := p.src.ActiveVendorContracts(entity)
	if err != nil {
		return nil, fmt.Errorf("load vendor contracts: %w", err)
	}

	customerOverrides, err := p.src.PaymentOverrides(models.OverrideCustomer)
	if err != nil {
		return nil, fmt.Errorf("load customer overrides: %w", err)
	}
	vendorOverrides, err := p.src.PaymentOverrides(models.OverrideVendor)
	if err != nil {
		return nil, fmt.Errorf("load vendor overrides: %w", err)
	}

	revenueCalc := NewRevenueCalculator(scenarioType, p.settings)
	scheduler := NewExpenseScheduler()

	revenueEvents := revenueCalc.CalculateRevenueEvents(customers, start, end, BuildOverrideIndex(customerOverrides))
	expenseEvents := scheduler.CalculateExpenseEvents(vendors, start, end, entity, BuildOverrideIndex(vendorOverrides))

	points := make([]models.ProjectionDataPoint, 0, len(periodDates))
	currentCash := startingCash
	periodStart := start

	for _, periodEnd := range periodDates {
		inflows := TotalRevenueBetween(revenueEvents, periodStart, periodEnd, entity)
		outflows := TotalExpensesBetween(expenseEvents, periodStart, periodEnd, entity)
		endingCash := currentCash.Add(inflows).Sub(outflows)

		points = append(points, models.ProjectionDataPoint{
			Date:         periodEnd,
			StartingCash: currentCash,
			Inflows:      inflows,
			Outflows:     outflows,
			EndingCash:   endingCash,
			Entity:       entity,
			Timeframe:    timeframe,
			ScenarioType: scenarioType,
			IsNegative:   endingCash.IsNegative(),
		})

		currentCash = endingCash
		periodStart = periodEnd.AddDate(0, 0, 1)
	}

	return &ProjectionResult{
		DataPoints:    points,
		RevenueEvents: revenueEvents,
		ExpenseEvents: expenseEvents,
	}, nil
}

// consolidated projects every active entity independently and sums the
// results element-wise. Entities without a bank balance are skipped with a
// warning; only when no entity has one is the whole computation fatal.
func (p *CashProjector) consolidated(start, end time.Time, timeframe, scenarioType string) (*ProjectionResult, error) {
	entities, err := p.src.ActiveEntities()
	if err != nil {
		return nil, fmt.Errorf("load active entities: %w", err)
	}

	var results []*ProjectionResult
	for _, code := range entities {
		result, err := p.projectEntity(start, end, code, timeframe, scenarioType)
		if err != nil {
			var missing *models.MissingBalanceError
			if errors.As(err, &missing) {
				p.log.Warnf("skipping entity %s in consolidated projection: %v", code, err)
				continue
			}
			return nil, err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, &models.MissingBalanceError{Entity: models.ConsolidatedEntity}
	}

	first := results[0].DataPoints
	combined := make([]models.ProjectionDataPoint, len(first))
	for i, point := range first {
		combined[i] = models.ProjectionDataPoint{
			Date:         point.Date,
			StartingCash: point.StartingCash,
			Inflows:      point.Inflows,
			Outflows:     point.Outflows,
			EndingCash:   point.EndingCash,
			Entity:       models.ConsolidatedEntity,
			Timeframe:    timeframe,
			ScenarioType: scenarioType,
		}
	}

	for _, result := range results[1:] {
		if len(result.DataPoints) != len(first) {
			return nil, fmt.Errorf("consolidated projection: entity period counts diverge (%d vs %d)", len(result.DataPoints), len(first))
		}
		for i, point := range result.DataPoints {
			if !point.Date.Equal(combined[i].Date) {
				return nil, fmt.Errorf("consolidated projection: period dates diverge at index %d", i)
			}
			combined[i].StartingCash = combined[i].StartingCash.Add(point.StartingCash)
			combined[i].Inflows = combined[i].Inflows.Add(point.Inflows)
			combined[i].Outflows = combined[i].Outflows.Add(point.Outflows)
			combined[i].EndingCash = combined[i].EndingCash.Add(point.EndingCash)
		}
	}
	for i := range combined {
		combined[i].IsNegative = combined[i].EndingCash.IsNegative()
	}

	var revenueEvents []models.RevenueEvent
	var expenseEvents []models.ExpenseEvent
	for _, result := range results {
		revenueEvents = append(revenueEvents, result.RevenueEvents...)
		expenseEvents = append(expenseEvents, result.ExpenseEvents...)
	}
	sort.SliceStable(revenueEvents, func(i, j int) bool {
		return revenueEvents[i].Date.Before(revenueEvents[j].Date)
	})
	sort.SliceStable(expenseEvents, func(i, j int) bool {
		return expenseEvents[i].Date.Before(expenseEvents[j].Date)
	})

	return &ProjectionResult{
		DataPoints:    combined,
		RevenueEvents: revenueEvents,
		ExpenseEvents: expenseEvents,
	}, nil
}
