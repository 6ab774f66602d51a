package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorContract represents a recurring-expense vendor contract
type VendorContract struct {
	ID              int64           `json:"id"`
	VendorName      string          `json:"vendor_name"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Frequency       string          `json:"frequency"`
	DueDate         time.Time       `json:"due_date"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Entity          string          `json:"entity"`
	Priority        int             `json:"priority"`
	FlexibilityDays int             `json:"flexibility_days"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
