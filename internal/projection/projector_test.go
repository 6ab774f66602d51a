package projection

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jesuscompany/cash-management/internal/models"
)

// fakeSource is an in-memory DataSource for projector tests.
type fakeSource struct {
	customers []models.CustomerContract
	vendors   []models.VendorContract
	balances  map[string]*models.BankBalance
	overrides []models.PaymentOverride
	entities  []string
}

func (f *fakeSource) ActiveCustomerContracts(entity string) ([]models.CustomerContract, error) {
	if entity == "" {
		return f.customers, nil
	}
	var out []models.CustomerContract
	for _, c := range f.customers {
		if c.Entity == entity {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSource) ActiveVendorContracts(entity string) ([]models.VendorContract, error) {
	if entity == "" {
		return f.vendors, nil
	}
	var out []models.VendorContract
	for _, v := range f.vendors {
		if v.Entity == entity {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeSource) LatestBankBalance(entity string, asOf *time.Time) (*models.BankBalance, error) {
	return f.balances[entity], nil
}

func (f *fakeSource) PaymentOverrides(overrideType string) ([]models.PaymentOverride, error) {
	var out []models.PaymentOverride
	for _, o := range f.overrides {
		if overrideType == "" || o.OverrideType == overrideType {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeSource) ActiveEntities() ([]string, error) {
	return f.entities, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testProjector(src *fakeSource) *CashProjector {
	return NewCashProjector(src, DefaultSettings(), testLogger())
}

func balance(t *testing.T, entity, amount, asOf string) *models.BankBalance {
	t.Helper()
	return &models.BankBalance{
		Entity:      entity,
		BalanceDate: mustDate(t, asOf),
		Balance:     mustDecimal(t, amount),
		Source:      "manual",
	}
}

func TestProjectionRunningBalance(t *testing.T) {
	// One customer paying 100K monthly, a 2M monthly payroll vendor:
	// cash declines 1.9M per month from the 10M starting position.
	src := &fakeSource{
		customers: []models.CustomerContract{customerContract(t, 1, "100000", models.PlanMonthly, "2026-01-05")},
		vendors: []models.VendorContract{func() models.VendorContract {
			v := vendorContract(t, 1, "2000000", models.FreqMonthly, "2026-01-25")
			v.VendorName = "Payroll"
			v.Category = "Payroll"
			return v
		}()},
		balances: map[string]*models.BankBalance{"PH": balance(t, "PH", "10000000", "2025-12-31")},
		entities: []string{"PH"},
	}
	p := testProjector(src)

	points, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "PH", models.TimeframeMonthly, models.ScenarioOptimistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d periods, want 3", len(points))
	}

	wantEnding := []string{"8100000", "6200000", "4300000"}
	for i, w := range wantEnding {
		if !points[i].EndingCash.Equal(mustDecimal(t, w)) {
			t.Errorf("period %d ending cash = %s, want %s", i, points[i].EndingCash, w)
		}
	}
	for i := 1; i < len(points); i++ {
		if !points[i].StartingCash.Equal(points[i-1].EndingCash) {
			t.Errorf("period %d starting cash %s != prior ending cash %s",
				i, points[i].StartingCash, points[i-1].EndingCash)
		}
	}
	for _, p := range points {
		want := p.StartingCash.Add(p.Inflows).Sub(p.Outflows)
		if !p.EndingCash.Equal(want) {
			t.Errorf("period %s: ending cash %s, want %s", p.Date.Format("2006-01-02"), p.EndingCash, want)
		}
		if p.IsNegative {
			t.Errorf("period %s flagged negative with ending cash %s", p.Date.Format("2006-01-02"), p.EndingCash)
		}
	}
}

func TestProjectionTimeframesAgreeOnFinalCash(t *testing.T) {
	src := &fakeSource{
		customers: []models.CustomerContract{customerContract(t, 1, "100000", models.PlanMonthly, "2026-01-05")},
		vendors:   []models.VendorContract{vendorContract(t, 1, "40000", models.FreqMonthly, "2026-01-20")},
		balances:  map[string]*models.BankBalance{"PH": balance(t, "PH", "500000", "2025-12-31")},
		entities:  []string{"PH"},
	}
	p := testProjector(src)
	start := mustDate(t, "2026-01-01")
	end := mustDate(t, "2026-06-30")

	var finals []decimal.Decimal
	for _, tf := range []string{models.TimeframeDaily, models.TimeframeWeekly, models.TimeframeMonthly, models.TimeframeQuarterly} {
		points, err := p.CalculateCashProjection(start, end, "PH", tf, models.ScenarioOptimistic)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tf, err)
		}
		finals = append(finals, points[len(points)-1].EndingCash)
	}
	for i := 1; i < len(finals); i++ {
		if !finals[i].Equal(finals[0]) {
			t.Errorf("final cash diverges across timeframes: %s vs %s", finals[i], finals[0])
		}
	}
}

func TestProjectionDetailedEventsMatchBuckets(t *testing.T) {
	src := &fakeSource{
		customers: []models.CustomerContract{customerContract(t, 1, "100000", models.PlanMonthly, "2026-01-05")},
		vendors:   []models.VendorContract{vendorContract(t, 1, "40000", models.FreqMonthly, "2026-01-20")},
		balances:  map[string]*models.BankBalance{"PH": balance(t, "PH", "500000", "2025-12-31")},
		entities:  []string{"PH"},
	}
	p := testProjector(src)
	start := mustDate(t, "2026-01-01")
	end := mustDate(t, "2026-03-31")

	result, err := p.CalculateCashProjectionDetailed(start, end, "PH", models.TimeframeMonthly, models.ScenarioOptimistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	periodStart := start
	for _, point := range result.DataPoints {
		revenue, expenses := result.EventsForPeriod(periodStart, point.Date)
		var inflows, outflows decimal.Decimal
		for _, e := range revenue {
			inflows = inflows.Add(e.Amount)
		}
		for _, e := range expenses {
			outflows = outflows.Add(e.Amount)
		}
		if !inflows.Equal(point.Inflows) {
			t.Errorf("period %s: event inflows %s != bucket inflows %s", point.Date.Format("2006-01-02"), inflows, point.Inflows)
		}
		if !outflows.Equal(point.Outflows) {
			t.Errorf("period %s: event outflows %s != bucket outflows %s", point.Date.Format("2006-01-02"), outflows, point.Outflows)
		}
		periodStart = point.Date.AddDate(0, 0, 1)
	}

	revenue, _ := result.EventsForDate(mustDate(t, "2026-01-05"))
	if len(revenue) != 1 {
		t.Errorf("got %d revenue events on 2026-01-05, want 1", len(revenue))
	}
}

func TestProjectionMissingBalanceFatal(t *testing.T) {
	src := &fakeSource{
		balances: map[string]*models.BankBalance{},
		entities: []string{"PH"},
	}
	p := testProjector(src)

	_, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "PH", models.TimeframeMonthly, models.ScenarioOptimistic)
	var missing *models.MissingBalanceError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingBalanceError", err)
	}
	if missing.Entity != "PH" {
		t.Errorf("error entity = %s, want PH", missing.Entity)
	}
}

func TestProjectionUnknownEntityRejected(t *testing.T) {
	src := &fakeSource{entities: []string{"PH"}}
	p := testProjector(src)

	_, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "XX", models.TimeframeMonthly, models.ScenarioOptimistic)
	var invalid *models.InvalidEntityError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidEntityError", err)
	}
}

func TestProjectionVendorSkipOverride(t *testing.T) {
	v := vendorContract(t, 1, "50000", models.FreqOneTime, "2026-02-15")
	src := &fakeSource{
		vendors:  []models.VendorContract{v},
		balances: map[string]*models.BankBalance{"PH": balance(t, "PH", "100000", "2025-12-31")},
		entities: []string{"PH"},
		overrides: []models.PaymentOverride{{
			OverrideType: models.OverrideVendor,
			ContractID:   1,
			OriginalDate: mustDate(t, "2026-02-15"),
			Action:       models.OverrideActionSkip,
		}},
	}
	p := testProjector(src)

	points, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"), "PH", models.TimeframeMonthly, models.ScenarioOptimistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, point := range points {
		if !point.Outflows.IsZero() {
			t.Errorf("period %s has outflows %s after skip override", point.Date.Format("2006-01-02"), point.Outflows)
		}
	}
	if !points[len(points)-1].EndingCash.Equal(mustDecimal(t, "100000")) {
		t.Errorf("final cash = %s, want 100000", points[len(points)-1].EndingCash)
	}
}

func TestConsolidatedSumsEntities(t *testing.T) {
	ph := customerContract(t, 1, "100000", models.PlanMonthly, "2026-01-05")
	sg := customerContract(t, 2, "200000", models.PlanMonthly, "2026-01-10")
	sg.Entity = "SG"
	src := &fakeSource{
		customers: []models.CustomerContract{ph, sg},
		balances: map[string]*models.BankBalance{
			"PH": balance(t, "PH", "1000000", "2025-12-31"),
			"SG": balance(t, "SG", "3000000", "2025-12-31"),
		},
		entities: []string{"PH", "SG"},
	}
	p := testProjector(src)

	points, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-02-28"), models.ConsolidatedEntity, models.TimeframeMonthly, models.ScenarioOptimistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d periods, want 2", len(points))
	}
	if !points[0].StartingCash.Equal(mustDecimal(t, "4000000")) {
		t.Errorf("starting cash = %s, want 4000000", points[0].StartingCash)
	}
	if !points[0].Inflows.Equal(mustDecimal(t, "300000")) {
		t.Errorf("first period inflows = %s, want 300000", points[0].Inflows)
	}
	if !points[1].EndingCash.Equal(mustDecimal(t, "4600000")) {
		t.Errorf("final cash = %s, want 4600000", points[1].EndingCash)
	}
	for _, point := range points {
		if point.Entity != models.ConsolidatedEntity {
			t.Errorf("period entity = %s, want %s", point.Entity, models.ConsolidatedEntity)
		}
	}
}

func TestConsolidatedSkipsEntityWithoutBalance(t *testing.T) {
	ph := customerContract(t, 1, "100000", models.PlanMonthly, "2026-01-05")
	sg := customerContract(t, 2, "200000", models.PlanMonthly, "2026-01-10")
	sg.Entity = "SG"
	src := &fakeSource{
		customers: []models.CustomerContract{ph, sg},
		balances:  map[string]*models.BankBalance{"PH": balance(t, "PH", "1000000", "2025-12-31")},
		entities:  []string{"PH", "SG"},
	}
	p := testProjector(src)

	points, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"), models.ConsolidatedEntity, models.TimeframeMonthly, models.ScenarioOptimistic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// SG has no balance, so only PH contributes.
	if !points[0].Inflows.Equal(mustDecimal(t, "100000")) {
		t.Errorf("inflows = %s, want 100000 (SG skipped)", points[0].Inflows)
	}
}

func TestConsolidatedAllMissingFatal(t *testing.T) {
	src := &fakeSource{
		balances: map[string]*models.BankBalance{},
		entities: []string{"PH", "SG"},
	}
	p := testProjector(src)

	_, err := p.CalculateCashProjection(mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"), models.ConsolidatedEntity, models.TimeframeMonthly, models.ScenarioOptimistic)
	var missing *models.MissingBalanceError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingBalanceError", err)
	}
	if missing.Entity != models.ConsolidatedEntity {
		t.Errorf("error entity = %s, want %s", missing.Entity, models.ConsolidatedEntity)
	}
}
