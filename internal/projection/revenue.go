package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuscompany/cash-management/internal/models"
)

// RevenueCalculator turns customer contracts into dated inflow events.
type RevenueCalculator struct {
	scenarioType string
	delayDays    int
	settings     Settings
}

// NewRevenueCalculator builds a calculator for a scenario type. Optimistic
// assumes on-time payment; any other scenario type applies the configured
// realistic delay.
func NewRevenueCalculator(scenarioType string, settings Settings) *RevenueCalculator {
	delay := settings.RealisticDelayDays
	if scenarioType == models.ScenarioOptimistic {
		delay = 0
	}
	return &RevenueCalculator{
		scenarioType: scenarioType,
		delayDays:    delay,
		settings:     settings,
	}
}

// billingMonths returns the first-of-month anchors a contract bills in
// within the projection window, stepped by the plan's cycle length.
func (c *RevenueCalculator) billingMonths(contract models.CustomerContract, start, end time.Time) []time.Time {
	cycle := models.MonthsPerCycle(contract.PaymentPlan)

	current := maxDate(firstOfMonth(contract.ContractStart), firstOfMonth(start))
	last := firstOfMonth(end)
	if contract.ContractEnd != nil {
		last = minDate(last, firstOfMonth(*contract.ContractEnd))
	}

	var months []time.Time
	for !current.After(last) {
		months = append(months, current)
		current = current.AddDate(0, cycle, 0)
	}
	return months
}

// paymentDate computes the scheduled payment date within a billing month:
// the contract start's day-of-month capped to the month's length (a
// contract starting on the 31st pays on the 28th in February), shifted by
// the scenario delay.
func (c *RevenueCalculator) paymentDate(contract models.CustomerContract, billingMonth time.Time) time.Time {
	day := contract.ContractStart.Day()
	if dim := daysInMonth(billingMonth.Year(), billingMonth.Month()); day > dim {
		day = dim
	}
	scheduled := date(billingMonth.Year(), billingMonth.Month(), day)
	return scheduled.AddDate(0, 0, c.delayDays)
}

// invoiceDate computes when the invoice for a billing month goes out: the
// contract's invoice day (or the global lead day) in the prior month.
func (c *RevenueCalculator) invoiceDate(contract models.CustomerContract, billingMonth time.Time) time.Time {
	day := contract.InvoiceDay
	if day <= 0 {
		day = c.settings.InvoiceLeadDay
	}
	prev := billingMonth.AddDate(0, -1, 0)
	if dim := daysInMonth(prev.Year(), prev.Month()); day > dim {
		day = dim
	}
	return date(prev.Year(), prev.Month(), day)
}

// CalculateRevenueEvents produces the date-sorted inflow events for the
// given contracts within [start, end]. Overrides keyed by (contract,
// scheduled date) skip or move individual payments; a moved payment is
// still subject to the window. The payment amount is the monthly fee times
// the cycle length, so annual revenue is plan-independent.
func (c *RevenueCalculator) CalculateRevenueEvents(contracts []models.CustomerContract, start, end time.Time, overrides OverrideIndex) []models.RevenueEvent {
	start = models.DateOf(start)
	end = models.DateOf(end)

	var events []models.RevenueEvent

	for _, contract := range contracts {
		if contract.Status != models.StatusActive {
			continue
		}

		cycle := models.MonthsPerCycle(contract.PaymentPlan)
		amount := contract.MonthlyFee.Mul(decimal.NewFromInt(int64(cycle)))

		for _, billingMonth := range c.billingMonths(contract, start, end) {
			payDate := c.paymentDate(contract, billingMonth)

			if o, ok := overrides.Lookup(models.OverrideCustomer, contract.ID, payDate); ok {
				if o.Action == models.OverrideActionSkip {
					continue
				}
				if o.Action == models.OverrideActionMove && o.NewDate != nil {
					payDate = models.DateOf(*o.NewDate)
				}
			}

			if payDate.Before(start) || payDate.After(end) {
				continue
			}

			events = append(events, models.RevenueEvent{
				Date:        payDate,
				CustomerID:  contract.ID,
				CompanyName: contract.CompanyName,
				Amount:      amount,
				Entity:      contract.Entity,
				PaymentPlan: contract.PaymentPlan,
				InvoiceDate: c.invoiceDate(contract, billingMonth),
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return events
}

// TotalRevenueOn sums revenue received on one date, optionally filtered by
// entity (empty string matches all).
func TotalRevenueOn(events []models.RevenueEvent, target time.Time, entity string) decimal.Decimal {
	return TotalRevenueBetween(events, target, target, entity)
}

// TotalRevenueBetween sums revenue received in [start, end] inclusive,
// optionally filtered by entity.
func TotalRevenueBetween(events []models.RevenueEvent, start, end time.Time, entity string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		if entity != "" && e.Entity != entity {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// RevenueByCustomer breaks total revenue down by company name.
func RevenueByCustomer(events []models.RevenueEvent, entity string) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, e := range events {
		if entity != "" && e.Entity != entity {
			continue
		}
		breakdown[e.CompanyName] = breakdown[e.CompanyName].Add(e.Amount)
	}
	return breakdown
}
