package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuscompany/cash-management/internal/models"
)

// ExpenseScheduler turns vendor contracts into dated outflow events.
type ExpenseScheduler struct{}

// NewExpenseScheduler builds an expense scheduler.
func NewExpenseScheduler() *ExpenseScheduler {
	return &ExpenseScheduler{}
}

// step advances a due date by one recurrence interval. Day, week and
// bi-week move by fixed day counts; month, quarter and year step calendar
// units with the day clamped to the target month.
func step(current time.Time, frequency string) time.Time {
	switch frequency {
	case models.FreqDaily:
		return current.AddDate(0, 0, 1)
	case models.FreqWeekly:
		return current.AddDate(0, 0, 7)
	case models.FreqBiweekly:
		return current.AddDate(0, 0, 14)
	case models.FreqMonthly:
		return addMonthsClamped(current, 1)
	case models.FreqQuarterly:
		return addMonthsClamped(current, 3)
	case models.FreqAnnual:
		return addMonthsClamped(current, 12)
	}
	return current
}

// paymentDates generates the due dates for a vendor within its effective
// range. Unknown frequencies behave as one-time.
func (s *ExpenseScheduler) paymentDates(contract models.VendorContract, effStart, effEnd time.Time) []time.Time {
	due := models.DateOf(contract.DueDate)

	if contract.Frequency == models.FreqOneTime || step(due, contract.Frequency).Equal(due) {
		if due.Before(effStart) || due.After(effEnd) {
			return nil
		}
		return []time.Time{due}
	}

	current := due
	for current.Before(effStart) {
		current = step(current, contract.Frequency)
	}

	var dates []time.Time
	for !current.After(effEnd) {
		dates = append(dates, current)
		current = step(current, contract.Frequency)
	}
	return dates
}

// CalculateExpenseEvents produces outflow events for the given vendors
// within [start, end], filtered by entity when one is given. Each vendor's
// effective range is the intersection of the projection window and its own
// start/end bounds; overrides skip or move individual due dates. Events
// are ordered by date, then priority ascending.
func (s *ExpenseScheduler) CalculateExpenseEvents(contracts []models.VendorContract, start, end time.Time, entity string, overrides OverrideIndex) []models.ExpenseEvent {
	start = models.DateOf(start)
	end = models.DateOf(end)

	var events []models.ExpenseEvent

	for _, contract := range contracts {
		if contract.Status != models.StatusActive {
			continue
		}
		if entity != "" && contract.Entity != entity {
			continue
		}

		effStart := start
		if contract.StartDate != nil {
			effStart = maxDate(effStart, models.DateOf(*contract.StartDate))
		}
		effEnd := end
		if contract.EndDate != nil {
			effEnd = minDate(effEnd, models.DateOf(*contract.EndDate))
		}
		if effStart.After(effEnd) {
			continue
		}

		for _, dueDate := range s.paymentDates(contract, effStart, effEnd) {
			if o, ok := overrides.Lookup(models.OverrideVendor, contract.ID, dueDate); ok {
				if o.Action == models.OverrideActionSkip {
					continue
				}
				if o.Action == models.OverrideActionMove && o.NewDate != nil {
					dueDate = models.DateOf(*o.NewDate)
					if dueDate.Before(effStart) || dueDate.After(effEnd) {
						continue
					}
				}
			}

			events = append(events, models.ExpenseEvent{
				Date:       dueDate,
				VendorID:   contract.ID,
				VendorName: contract.VendorName,
				Amount:     contract.Amount,
				Entity:     contract.Entity,
				Category:   contract.Category,
				Priority:   contract.Priority,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Priority < events[j].Priority
	})

	return events
}

// TotalExpensesOn sums expenses due on one date, optionally filtered by
// entity (empty string matches all).
func TotalExpensesOn(events []models.ExpenseEvent, target time.Time, entity string) decimal.Decimal {
	return TotalExpensesBetween(events, target, target, entity)
}

// TotalExpensesBetween sums expenses due in [start, end] inclusive,
// optionally filtered by entity.
func TotalExpensesBetween(events []models.ExpenseEvent, start, end time.Time, entity string) decimal.Decimal {
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

// ExpensesByCategory breaks total expenses down by category.
func ExpensesByCategory(events []models.ExpenseEvent, entity string) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, e := range events {
		if entity != "" && e.Entity != entity {
			continue
		}
		breakdown[e.Category] = breakdown[e.Category].Add(e.Amount)
	}
	return breakdown
}
