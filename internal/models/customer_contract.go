package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerContract represents a recurring-revenue customer contract
type CustomerContract struct {
	ID               int64           `json:"id"`
	CompanyName      string          `json:"company_name"`
	MonthlyFee       decimal.Decimal `json:"monthly_fee"`
	PaymentPlan      string          `json:"payment_plan"`
	ContractStart    time.Time       `json:"contract_start"`
	ContractEnd      *time.Time      `json:"contract_end,omitempty"`
	Status           string          `json:"status"`
	WhoAcquired      string          `json:"who_acquired"`
	Entity           string          `json:"entity"`
	InvoiceDay       int             `json:"invoice_day"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	ReliabilityScore float64         `json:"reliability_score"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
