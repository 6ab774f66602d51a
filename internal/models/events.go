package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueEvent is a single projected cash inflow, derived per call and
// never persisted.
type RevenueEvent struct {
	Date        time.Time       `json:"date"`
	CustomerID  int64           `json:"customer_id"`
	CompanyName string          `json:"company_name"`
	Amount      decimal.Decimal `json:"amount"`
	Entity      string          `json:"entity"`
	PaymentPlan string          `json:"payment_plan"`
	InvoiceDate time.Time       `json:"invoice_date"`
}

// ExpenseEvent is a single projected cash outflow, derived per call and
// never persisted.
type ExpenseEvent struct {
	Date       time.Time       `json:"date"`
	VendorID   int64           `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Amount     decimal.Decimal `json:"amount"`
	Entity     string          `json:"entity"`
	Category   string          `json:"category"`
	Priority   int             `json:"priority"`
}
