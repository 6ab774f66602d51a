package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankBalance is a dated balance snapshot, the sole source of starting cash
// for a projection. Projected cash is never fed back in as a starting point.
type BankBalance struct {
	ID          int64           `json:"id"`
	Entity      string          `json:"entity"`
	BalanceDate time.Time       `json:"balance_date"`
	Balance     decimal.Decimal `json:"balance"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}
