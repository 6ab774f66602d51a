package projection

import (
	"testing"

	"github.com/jesuscompany/cash-management/internal/models"
)

func vendorContract(t *testing.T, id int64, amount, frequency, due string) models.VendorContract {
	t.Helper()
	return models.VendorContract{
		ID:         id,
		VendorName: "CloudHost",
		Category:   "Infrastructure",
		Amount:     mustDecimal(t, amount),
		Frequency:  frequency,
		DueDate:    mustDate(t, due),
		Entity:     "PH",
		Priority:   3,
		Status:     models.StatusActive,
	}
}

func TestExpenseOneTimeInsideWindow(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "75000", models.FreqOneTime, "2026-02-15")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "", nil)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if got := events[0].Date.Format("2006-01-02"); got != "2026-02-15" {
		t.Errorf("due date = %s, want 2026-02-15", got)
	}
}

func TestExpenseOneTimeOutsideWindow(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "75000", models.FreqOneTime, "2026-06-15")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "", nil)
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}

func TestExpenseMonthlyRecurrence(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "20000", models.FreqMonthly, "2026-01-31")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-04-30"), "", nil)

	// Day of month clamps per month instead of sticking at the first clamp.
	want := []string{"2026-01-31", "2026-02-28", "2026-03-28", "2026-04-28"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if got := events[i].Date.Format("2006-01-02"); got != w {
			t.Errorf("events[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestExpenseBiweeklyRecurrence(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "10000", models.FreqBiweekly, "2026-01-05")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-02-28"), "", nil)

	want := []string{"2026-01-05", "2026-01-19", "2026-02-02", "2026-02-16"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if got := events[i].Date.Format("2006-01-02"); got != w {
			t.Errorf("events[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestExpenseDueDateBeforeWindowAdvances(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "20000", models.FreqMonthly, "2025-06-10")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-02-28"), "", nil)

	want := []string{"2026-01-10", "2026-02-10"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if got := events[i].Date.Format("2006-01-02"); got != w {
			t.Errorf("events[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestExpenseUnknownFrequencyBehavesAsOneTime(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "20000", "Fortnightly-ish", "2026-02-10")}

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-12-31"), "", nil)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestExpenseVendorBoundsIntersectWindow(t *testing.T) {
	s := NewExpenseScheduler()
	c := vendorContract(t, 1, "20000", models.FreqMonthly, "2026-01-10")
	startDate := mustDate(t, "2026-02-01")
	endDate := mustDate(t, "2026-03-31")
	c.StartDate = &startDate
	c.EndDate = &endDate

	events := s.CalculateExpenseEvents([]models.VendorContract{c}, mustDate(t, "2026-01-01"), mustDate(t, "2026-12-31"), "", nil)

	want := []string{"2026-02-10", "2026-03-10"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if got := events[i].Date.Format("2006-01-02"); got != w {
			t.Errorf("events[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestExpenseEmptyEffectiveRange(t *testing.T) {
	s := NewExpenseScheduler()
	c := vendorContract(t, 1, "20000", models.FreqMonthly, "2026-01-10")
	endDate := mustDate(t, "2025-12-31")
	c.EndDate = &endDate

	events := s.CalculateExpenseEvents([]models.VendorContract{c}, mustDate(t, "2026-01-01"), mustDate(t, "2026-12-31"), "", nil)
	if len(events) != 0 {
		t.Fatalf("got %d events from an expired vendor, want 0", len(events))
	}
}

func TestExpenseEntityFilter(t *testing.T) {
	s := NewExpenseScheduler()
	ph := vendorContract(t, 1, "20000", models.FreqMonthly, "2026-01-10")
	sg := vendorContract(t, 2, "30000", models.FreqMonthly, "2026-01-15")
	sg.Entity = "SG"

	events := s.CalculateExpenseEvents([]models.VendorContract{ph, sg}, mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"), "SG", nil)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].VendorID != 2 {
		t.Errorf("got vendor %d, want 2", events[0].VendorID)
	}
}

func TestExpenseOverrideSkip(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "50000", models.FreqMonthly, "2026-01-15")}

	overrides := BuildOverrideIndex([]models.PaymentOverride{{
		OverrideType: models.OverrideVendor,
		ContractID:   1,
		OriginalDate: mustDate(t, "2026-02-15"),
		Action:       models.OverrideActionSkip,
	}})

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "", overrides)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (February skipped)", len(events))
	}
}

func TestExpenseOverrideMove(t *testing.T) {
	s := NewExpenseScheduler()
	contracts := []models.VendorContract{vendorContract(t, 1, "50000", models.FreqMonthly, "2026-01-15")}

	newDate := mustDate(t, "2026-02-25")
	overrides := BuildOverrideIndex([]models.PaymentOverride{{
		OverrideType: models.OverrideVendor,
		ContractID:   1,
		OriginalDate: mustDate(t, "2026-02-15"),
		Action:       models.OverrideActionMove,
		NewDate:      &newDate,
	}})

	events := s.CalculateExpenseEvents(contracts, mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "", overrides)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if got := events[1].Date.Format("2006-01-02"); got != "2026-02-25" {
		t.Errorf("moved payment = %s, want 2026-02-25", got)
	}
}

func TestExpenseOrderedByDateThenPriority(t *testing.T) {
	s := NewExpenseScheduler()
	low := vendorContract(t, 1, "10000", models.FreqOneTime, "2026-02-10")
	low.Priority = 5
	high := vendorContract(t, 2, "20000", models.FreqOneTime, "2026-02-10")
	high.Priority = 1

	events := s.CalculateExpenseEvents([]models.VendorContract{low, high}, mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "", nil)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Priority != 1 || events[1].Priority != 5 {
		t.Errorf("priority order = [%d %d], want [1 5]", events[0].Priority, events[1].Priority)
	}
}

func TestExpensesByCategory(t *testing.T) {
	s := NewExpenseScheduler()
	infra := vendorContract(t, 1, "20000", models.FreqMonthly, "2026-01-10")
	office := vendorContract(t, 2, "5000", models.FreqMonthly, "2026-01-15")
	office.Category = "Office"

	events := s.CalculateExpenseEvents([]models.VendorContract{infra, office}, mustDate(t, "2026-01-01"), mustDate(t, "2026-02-28"), "", nil)
	breakdown := ExpensesByCategory(events, "")

	if !breakdown["Infrastructure"].Equal(mustDecimal(t, "40000")) {
		t.Errorf("Infrastructure total = %s, want 40000", breakdown["Infrastructure"])
	}
	if !breakdown["Office"].Equal(mustDecimal(t, "10000")) {
		t.Errorf("Office total = %s, want 10000", breakdown["Office"])
	}
}
