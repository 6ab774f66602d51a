// Package scenario applies what-if change lists to baseline projections
// and produces independently cascaded alternate projections.
package scenario

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuscompany/cash-management/internal/models"
)

// Calculator applies scenario changes to baseline projections. All methods
// are pure: the baseline passed in is never mutated, so callers can reuse
// one baseline across many scenario applications.
type Calculator struct{}

// NewCalculator builds a scenario calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// inWindow reports whether a period date falls inside a change's range.
func inWindow(d, start time.Time, end *time.Time) bool {
	if d.Before(start) {
		return false
	}
	return end == nil || !d.After(*end)
}

// applyChange adds one change's delta onto the working copy of the periods.
func applyChange(points []models.ProjectionDataPoint, change models.ScenarioChange) {
	switch c := change.(type) {
	case models.HiringChange:
		payroll := c.SalaryPerEmployee.Mul(decimal.NewFromInt(int64(c.Employees)))
		for i := range points {
			if inWindow(points[i].Date, c.StartDate, c.EndDate) {
				points[i].Outflows = points[i].Outflows.Add(payroll)
			}
		}

	case models.ExpenseChange:
		for i := range points {
			if inWindow(points[i].Date, c.StartDate, c.EndDate) {
				points[i].Outflows = points[i].Outflows.Add(c.Amount)
			}
		}

	case models.RevenueChange:
		revenue := c.RevenuePerClient.Mul(decimal.NewFromInt(int64(c.NewClients)))
		for i := range points {
			if inWindow(points[i].Date, c.StartDate, c.EndDate) {
				points[i].Inflows = points[i].Inflows.Add(revenue)
			}
		}

	case models.CustomerLossChange:
		for i := range points {
			if inWindow(points[i].Date, c.StartDate, c.EndDate) {
				points[i].Inflows = points[i].Inflows.Sub(c.LostRevenue)
				if points[i].Inflows.IsNegative() {
					points[i].Inflows = decimal.Zero
				}
			}
		}

	case models.InvestmentChange:
		for i := range points {
			if points[i].Date.Equal(c.StartDate) {
				points[i].Outflows = points[i].Outflows.Add(c.Amount)
				break
			}
		}
	}
}

// recalculate rebuilds the cash cascade as a fold: each period's starting
// cash is the previous recomputed period's ending cash, with the first
// period keeping the baseline's starting cash. A new slice is returned;
// nothing previously handed out is written to.
func recalculate(points []models.ProjectionDataPoint) []models.ProjectionDataPoint {
	out := make([]models.ProjectionDataPoint, 0, len(points))
	for i, p := range points {
		if i > 0 {
			p.StartingCash = out[i-1].EndingCash
		}
		p.EndingCash = p.StartingCash.Add(p.Inflows).Sub(p.Outflows)
		p.IsNegative = p.EndingCash.IsNegative()
		out = append(out, p)
	}
	return out
}

// ApplyScenario applies a scenario's changes, in stored order, to a copy of
// the baseline and returns the recascaded projection.
func (c *Calculator) ApplyScenario(baseline []models.ProjectionDataPoint, sc *models.Scenario) []models.ProjectionDataPoint {
	return c.ApplyScenarios(baseline, []*models.Scenario{sc})
}

// ApplyScenarios stacks the changes of several scenarios onto the same
// working copy and performs a single recalculation pass at the end.
func (c *Calculator) ApplyScenarios(baseline []models.ProjectionDataPoint, scenarios []*models.Scenario) []models.ProjectionDataPoint {
	working := make([]models.ProjectionDataPoint, len(baseline))
	copy(working, baseline)

	for _, sc := range scenarios {
		for _, change := range sc.Changes {
			applyChange(working, change)
		}
	}

	return recalculate(working)
}

// BreakEvenResult reports whether a scenario stays affordable across the
// projection, and if not, when cash first goes negative and roughly how
// much additional revenue would be needed.
type BreakEvenResult struct {
	Affordable bool `json:"affordable"`
	// StartDate is the first projection period when the scenario is affordable.
	StartDate         *time.Time `json:"start_date,omitempty"`
	FirstNegativeDate *time.Time `json:"first_negative_date,omitempty"`
	// AdditionalRevenueNeeded is the absolute value of the most negative
	// ending cash anywhere in the projection. It is a heuristic, not a
	// minimum-revenue solve.
	AdditionalRevenueNeeded decimal.Decimal `json:"additional_revenue_needed"`
	Message                 string          `json:"message"`
}

// CalculateBreakEven applies a scenario and scans for the first period with
// negative ending cash.
func (c *Calculator) CalculateBreakEven(baseline []models.ProjectionDataPoint, sc *models.Scenario) BreakEvenResult {
	projected := c.ApplyScenario(baseline, sc)

	var firstNegative *time.Time
	for _, p := range projected {
		if p.IsNegative {
			d := p.Date
			firstNegative = &d
			break
		}
	}

	if firstNegative == nil {
		result := BreakEvenResult{
			Affordable:              true,
			AdditionalRevenueNeeded: decimal.Zero,
			Message:                 "Scenario is affordable throughout the entire projection period.",
		}
		if len(projected) > 0 {
			d := projected[0].Date
			result.StartDate = &d
		}
		return result
	}

	minCash := projected[0].EndingCash
	for _, p := range projected[1:] {
		if p.EndingCash.LessThan(minCash) {
			minCash = p.EndingCash
		}
	}
	needed := minCash.Abs()

	return BreakEvenResult{
		Affordable:              false,
		FirstNegativeDate:       firstNegative,
		AdditionalRevenueNeeded: needed,
		Message: fmt.Sprintf("Scenario results in negative cash on %s. Additional revenue of %s needed.",
			firstNegative.Format("2006-01-02"), needed.StringFixed(2)),
	}
}

// ProjectionTotals sums one projection's flows and final position.
type ProjectionTotals struct {
	TotalInflows  decimal.Decimal `json:"total_inflows"`
	TotalOutflows decimal.Decimal `json:"total_outflows"`
	EndingCash    decimal.Decimal `json:"ending_cash"`
}

// ImpactSummary compares a scenario projection against its baseline.
type ImpactSummary struct {
	Baseline         ProjectionTotals `json:"baseline"`
	Scenario         ProjectionTotals `json:"scenario"`
	Difference       ProjectionTotals `json:"difference"`
	PercentageChange struct {
		Inflows    decimal.Decimal `json:"inflows"`
		Outflows   decimal.Decimal `json:"outflows"`
		EndingCash decimal.Decimal `json:"ending_cash"`
	} `json:"percentage_change"`
}

func totals(points []models.ProjectionDataPoint) ProjectionTotals {
	t := ProjectionTotals{TotalInflows: decimal.Zero, TotalOutflows: decimal.Zero, EndingCash: decimal.Zero}
	for _, p := range points {
		t.TotalInflows = t.TotalInflows.Add(p.Inflows)
		t.TotalOutflows = t.TotalOutflows.Add(p.Outflows)
	}
	if len(points) > 0 {
		t.EndingCash = points[len(points)-1].EndingCash
	}
	return t
}

func percentChange(diff, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return diff.Div(base).Mul(decimal.NewFromInt(100))
}

// CalculateImpactSummary reports totals for both projections with absolute
// and percentage differences.
func (c *Calculator) CalculateImpactSummary(baseline, scenarioProjection []models.ProjectionDataPoint) ImpactSummary {
	summary := ImpactSummary{
		Baseline: totals(baseline),
		Scenario: totals(scenarioProjection),
	}
	summary.Difference = ProjectionTotals{
		TotalInflows:  summary.Scenario.TotalInflows.Sub(summary.Baseline.TotalInflows),
		TotalOutflows: summary.Scenario.TotalOutflows.Sub(summary.Baseline.TotalOutflows),
		EndingCash:    summary.Scenario.EndingCash.Sub(summary.Baseline.EndingCash),
	}
	summary.PercentageChange.Inflows = percentChange(summary.Difference.TotalInflows, summary.Baseline.TotalInflows)
	summary.PercentageChange.Outflows = percentChange(summary.Difference.TotalOutflows, summary.Baseline.TotalOutflows)
	summary.PercentageChange.EndingCash = percentChange(summary.Difference.EndingCash, summary.Baseline.EndingCash)
	return summary
}
