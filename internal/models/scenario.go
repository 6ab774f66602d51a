package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Scenario change kinds
const (
	ChangeHiring       = "hiring"
	ChangeExpense      = "expense"
	ChangeRevenue      = "revenue"
	ChangeCustomerLoss = "customer_loss"
	ChangeInvestment   = "investment"
)

// Scenario is a named, entity-scoped, ordered list of hypothetical changes
// applied on top of a baseline projection.
type Scenario struct {
	ID          int64            `json:"id"`
	Name        string           `json:"scenario_name"`
	Entity      string           `json:"entity"`
	Description string           `json:"description,omitempty"`
	CreatedBy   string           `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Changes     []ScenarioChange `json:"-"`
}

// ScenarioChange is one typed delta within a scenario. Each kind carries
// only the fields relevant to it; callers dispatch with a type switch.
type ScenarioChange interface {
	// Kind returns the stored change type tag.
	Kind() string
	// Window returns the change's active date range; a nil end means open-ended.
	Window() (start time.Time, end *time.Time)
}

// HiringChange adds employees × salary to outflows for every period in range.
type HiringChange struct {
	StartDate         time.Time
	EndDate           *time.Time
	Employees         int
	SalaryPerEmployee decimal.Decimal
}

func (c HiringChange) Kind() string                    { return ChangeHiring }
func (c HiringChange) Window() (time.Time, *time.Time) { return c.StartDate, c.EndDate }

// ExpenseChange adds a flat amount to outflows for every period in range.
// The amount is applied once per output period regardless of the period's
// length, so the effective monthly cost depends on the chosen timeframe.
type ExpenseChange struct {
	StartDate time.Time
	EndDate   *time.Time
	Name      string
	Amount    decimal.Decimal
}

func (c ExpenseChange) Kind() string                    { return ChangeExpense }
func (c ExpenseChange) Window() (time.Time, *time.Time) { return c.StartDate, c.EndDate }

// RevenueChange adds clients × revenue-per-client to inflows for every
// period in range.
type RevenueChange struct {
	StartDate        time.Time
	EndDate          *time.Time
	NewClients       int
	RevenuePerClient decimal.Decimal
}

func (c RevenueChange) Kind() string                    { return ChangeRevenue }
func (c RevenueChange) Window() (time.Time, *time.Time) { return c.StartDate, c.EndDate }

// CustomerLossChange removes revenue from inflows for every period in range,
// clamped so inflows never go negative.
type CustomerLossChange struct {
	StartDate   time.Time
	EndDate     *time.Time
	LostRevenue decimal.Decimal
}

func (c CustomerLossChange) Kind() string                    { return ChangeCustomerLoss }
func (c CustomerLossChange) Window() (time.Time, *time.Time) { return c.StartDate, c.EndDate }

// InvestmentChange is a one-time outflow applied to the single period whose
// date equals the start date exactly.
type InvestmentChange struct {
	StartDate time.Time
	Amount    decimal.Decimal
}

func (c InvestmentChange) Kind() string                    { return ChangeInvestment }
func (c InvestmentChange) Window() (time.Time, *time.Time) { return c.StartDate, nil }

// ScenarioChangeRecord is the flat storage form of a scenario change, as
// written by the settings layer and read back from the database.
type ScenarioChangeRecord struct {
	ID                int64           `json:"id"`
	ScenarioID        int64           `json:"scenario_id"`
	ChangeType        string          `json:"change_type"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	Employees         int             `json:"employees,omitempty"`
	SalaryPerEmployee decimal.Decimal `json:"salary_per_employee,omitempty"`
	ExpenseName       string          `json:"expense_name,omitempty"`
	ExpenseAmount     decimal.Decimal `json:"expense_amount,omitempty"`
	NewClients        int             `json:"new_clients,omitempty"`
	RevenuePerClient  decimal.Decimal `json:"revenue_per_client,omitempty"`
	LostRevenue       decimal.Decimal `json:"lost_revenue,omitempty"`
	InvestmentAmount  decimal.Decimal `json:"investment_amount,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// Change converts the flat record into its typed variant.
func (r ScenarioChangeRecord) Change() (ScenarioChange, error) {
	start := DateOf(r.StartDate)
	var end *time.Time
	if r.EndDate != nil {
		d := DateOf(*r.EndDate)
		end = &d
	}

	switch r.ChangeType {
	case ChangeHiring:
		return HiringChange{StartDate: start, EndDate: end, Employees: r.Employees, SalaryPerEmployee: r.SalaryPerEmployee}, nil
	case ChangeExpense:
		return ExpenseChange{StartDate: start, EndDate: end, Name: r.ExpenseName, Amount: r.ExpenseAmount}, nil
	case ChangeRevenue:
		return RevenueChange{StartDate: start, EndDate: end, NewClients: r.NewClients, RevenuePerClient: r.RevenuePerClient}, nil
	case ChangeCustomerLoss:
		return CustomerLossChange{StartDate: start, EndDate: end, LostRevenue: r.LostRevenue}, nil
	case ChangeInvestment:
		return InvestmentChange{StartDate: start, Amount: r.InvestmentAmount}, nil
	default:
		return nil, fmt.Errorf("unknown scenario change type %q", r.ChangeType)
	}
}
