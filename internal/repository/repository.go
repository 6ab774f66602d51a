// Package repository provides database operations over PostgreSQL.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuscompany/cash-management/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ActiveCustomerContracts retrieves active customer contracts for an entity.
// An empty entity returns contracts across all entities.
func (r *Repository) ActiveCustomerContracts(entity string) ([]models.CustomerContract, error) {
	query := `
		SELECT id, company_name, monthly_fee, payment_plan, contract_start, contract_end,
		       status, who_acquired, entity, invoice_day, payment_terms_days,
		       reliability_score, COALESCE(notes, ''), created_at, updated_at
		FROM cash.customer_contracts
		WHERE status = 'Active' AND ($1 = '' OR entity = $1)
		ORDER BY id`
	rows, err := r.db.Query(query, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.CustomerContract
	for rows.Next() {
		var c models.CustomerContract
		var contractEnd sql.NullTime
		err := rows.Scan(&c.ID, &c.CompanyName, &c.MonthlyFee, &c.PaymentPlan, &c.ContractStart,
			&contractEnd, &c.Status, &c.WhoAcquired, &c.Entity, &c.InvoiceDay,
			&c.PaymentTermsDays, &c.ReliabilityScore, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer contract: %w", err)
		}
		c.ContractStart = models.DateOf(c.ContractStart)
		if contractEnd.Valid {
			d := models.DateOf(contractEnd.Time)
			c.ContractEnd = &d
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// ActiveVendorContracts retrieves active vendor contracts for an entity.
// An empty entity returns contracts across all entities.
func (r *Repository) ActiveVendorContracts(entity string) ([]models.VendorContract, error) {
	query := `
		SELECT id, vendor_name, category, amount, frequency, due_date, start_date, end_date,
		       entity, priority, flexibility_days, status, COALESCE(notes, ''), created_at, updated_at
		FROM cash.vendor_contracts
		WHERE status = 'Active' AND ($1 = '' OR entity = $1)
		ORDER BY id`
	rows, err := r.db.Query(query, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.VendorContract
	for rows.Next() {
		var v models.VendorContract
		var startDate, endDate sql.NullTime
		err := rows.Scan(&v.ID, &v.VendorName, &v.Category, &v.Amount, &v.Frequency, &v.DueDate,
			&startDate, &endDate, &v.Entity, &v.Priority, &v.FlexibilityDays, &v.Status,
			&v.Notes, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor contract: %w", err)
		}
		v.DueDate = models.DateOf(v.DueDate)
		if startDate.Valid {
			d := models.DateOf(startDate.Time)
			v.StartDate = &d
		}
		if endDate.Valid {
			d := models.DateOf(endDate.Time)
			v.EndDate = &d
		}
		contracts = append(contracts, v)
	}
	return contracts, rows.Err()
}

// LatestBankBalance retrieves the most recent bank balance for an entity at
// or before asOf (nil means most recent overall). Returns (nil, nil) when no
// balance record exists.
func (r *Repository) LatestBankBalance(entity string, asOf *time.Time) (*models.BankBalance, error) {
	query := `
		SELECT id, entity, balance_date, balance, source, created_at
		FROM cash.bank_balances
		WHERE entity = $1 AND ($2::date IS NULL OR balance_date <= $2)
		ORDER BY balance_date DESC
		LIMIT 1`
	var asOfArg interface{}
	if asOf != nil {
		asOfArg = models.DateOf(*asOf)
	}

	b := &models.BankBalance{}
	err := r.db.QueryRow(query, entity, asOfArg).
		Scan(&b.ID, &b.Entity, &b.BalanceDate, &b.Balance, &b.Source, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bank balance: %w", err)
	}
	b.BalanceDate = models.DateOf(b.BalanceDate)
	return b, nil
}

// PaymentOverrides retrieves payment overrides, optionally filtered by type
// ("customer" or "vendor"; empty returns all).
func (r *Repository) PaymentOverrides(overrideType string) ([]models.PaymentOverride, error) {
	query := `
		SELECT id, override_type, contract_id, original_date, action, new_date,
		       COALESCE(reason, ''), created_at
		FROM cash.payment_overrides
		WHERE $1 = '' OR override_type = $1
		ORDER BY original_date`
	rows, err := r.db.Query(query, overrideType)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment overrides: %w", err)
	}
	defer rows.Close()

	var overrides []models.PaymentOverride
	for rows.Next() {
		var o models.PaymentOverride
		var newDate sql.NullTime
		err := rows.Scan(&o.ID, &o.OverrideType, &o.ContractID, &o.OriginalDate, &o.Action,
			&newDate, &o.Reason, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment override: %w", err)
		}
		o.OriginalDate = models.DateOf(o.OriginalDate)
		if newDate.Valid {
			d := models.DateOf(newDate.Time)
			o.NewDate = &d
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// CreatePaymentOverride records a skip or move of a single scheduled payment.
func (r *Repository) CreatePaymentOverride(o *models.PaymentOverride) error {
	query := `
		INSERT INTO cash.payment_overrides (override_type, contract_id, original_date, action, new_date, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, o.OverrideType, o.ContractID, models.DateOf(o.OriginalDate),
		o.Action, nullableDate(o.NewDate), o.Reason).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment override: %w", err)
	}
	return nil
}

// ActiveEntities retrieves the active entity codes.
func (r *Repository) ActiveEntities() ([]string, error) {
	rows, err := r.db.Query(`SELECT code FROM cash.entities WHERE active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan entity code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ScenarioByID retrieves a scenario with its ordered change list.
func (r *Repository) ScenarioByID(id int64) (*models.Scenario, error) {
	s := &models.Scenario{}
	var description, createdBy sql.NullString
	err := r.db.QueryRow(`
		SELECT id, scenario_name, entity, description, created_by, created_at
		FROM cash.scenarios
		WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Entity, &description, &createdBy, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.ScenarioNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario: %w", err)
	}
	s.Description = description.String
	s.CreatedBy = createdBy.String

	records, err := r.scenarioChanges(id)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		change, err := rec.Change()
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", id, err)
		}
		s.Changes = append(s.Changes, change)
	}
	return s, nil
}

// scenarioChanges retrieves a scenario's change records in stored order.
func (r *Repository) scenarioChanges(scenarioID int64) ([]models.ScenarioChangeRecord, error) {
	query := `
		SELECT id, scenario_id, change_type, start_date, end_date,
		       COALESCE(employees, 0), COALESCE(salary_per_employee, 0),
		       COALESCE(expense_name, ''), COALESCE(expense_amount, 0),
		       COALESCE(new_clients, 0), COALESCE(revenue_per_client, 0),
		       COALESCE(lost_revenue, 0), COALESCE(investment_amount, 0),
		       COALESCE(notes, '')
		FROM cash.scenario_changes
		WHERE scenario_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario changes: %w", err)
	}
	defer rows.Close()

	var records []models.ScenarioChangeRecord
	for rows.Next() {
		var rec models.ScenarioChangeRecord
		var endDate sql.NullTime
		err := rows.Scan(&rec.ID, &rec.ScenarioID, &rec.ChangeType, &rec.StartDate, &endDate,
			&rec.Employees, &rec.SalaryPerEmployee, &rec.ExpenseName, &rec.ExpenseAmount,
			&rec.NewClients, &rec.RevenuePerClient, &rec.LostRevenue, &rec.InvestmentAmount,
			&rec.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario change: %w", err)
		}
		rec.StartDate = models.DateOf(rec.StartDate)
		if endDate.Valid {
			d := models.DateOf(endDate.Time)
			rec.EndDate = &d
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Scenarios lists scenarios, optionally filtered by entity, newest first.
func (r *Repository) Scenarios(entity string) ([]models.Scenario, error) {
	query := `
		SELECT id, scenario_name, entity, description, created_by, created_at
		FROM cash.scenarios
		WHERE $1 = '' OR entity = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		var s models.Scenario
		var description, createdBy sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Entity, &description, &createdBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		s.Description = description.String
		s.CreatedBy = createdBy.String
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// CreateScenario creates a new scenario and returns its id.
func (r *Repository) CreateScenario(name, entity, description, createdBy string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO cash.scenarios (scenario_name, entity, description, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), CURRENT_TIMESTAMP)
		RETURNING id`, name, entity, description, createdBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create scenario: %w", err)
	}
	return id, nil
}

// AddScenarioChange appends a change to a scenario and returns the change id.
func (r *Repository) AddScenarioChange(rec models.ScenarioChangeRecord) (int64, error) {
	// Reject unknown change types before touching the database.
	if _, err := rec.Change(); err != nil {
		return 0, err
	}

	var id int64
	err := r.db.QueryRow(`
		INSERT INTO cash.scenario_changes
			(scenario_id, change_type, start_date, end_date, employees, salary_per_employee,
			 expense_name, expense_amount, new_clients, revenue_per_client, lost_revenue,
			 investment_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, NULLIF($13, ''))
		RETURNING id`,
		rec.ScenarioID, rec.ChangeType, models.DateOf(rec.StartDate), nullableDate(rec.EndDate),
		rec.Employees, rec.SalaryPerEmployee, rec.ExpenseName, rec.ExpenseAmount,
		rec.NewClients, rec.RevenuePerClient, rec.LostRevenue, rec.InvestmentAmount, rec.Notes).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to add scenario change: %w", err)
	}
	return id, nil
}

// SaveProjection persists a projection snapshot for caching and audit.
func (r *Repository) SaveProjection(points []models.ProjectionDataPoint, scenarioID *int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cash.projections
			(projection_date, entity, timeframe, scenario_type, scenario_id,
			 starting_cash, inflows, outflows, ending_cash, is_negative, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("failed to prepare projection insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.Exec(p.Date, p.Entity, p.Timeframe, p.ScenarioType, scenarioID,
			p.StartingCash, p.Inflows, p.Outflows, p.EndingCash, p.IsNegative)
		if err != nil {
			return fmt.Errorf("failed to insert projection point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit projection snapshot: %w", err)
	}
	return nil
}

// TotalMRR sums the monthly fee of active customer contracts.
func (r *Repository) TotalMRR(entity string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(monthly_fee), 0)
		FROM cash.customer_contracts
		WHERE status = 'Active' AND ($1 = '' OR entity = $1)`, entity).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query total MRR: %w", err)
	}
	return total, nil
}

// TotalMonthlyExpenses sums the amount of active monthly vendor contracts.
func (r *Repository) TotalMonthlyExpenses(entity string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM cash.vendor_contracts
		WHERE status = 'Active' AND frequency = 'Monthly' AND ($1 = '' OR entity = $1)`, entity).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query total monthly expenses: %w", err)
	}
	return total, nil
}

func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return models.DateOf(*t)
}
