package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionDataPoint is one bucketed period of a cash projection.
// Invariant: EndingCash = StartingCash + Inflows - Outflows, and each
// period's StartingCash equals the previous period's EndingCash.
type ProjectionDataPoint struct {
	Date         time.Time       `json:"date"`
	StartingCash decimal.Decimal `json:"starting_cash"`
	Inflows      decimal.Decimal `json:"inflows"`
	Outflows     decimal.Decimal `json:"outflows"`
	EndingCash   decimal.Decimal `json:"ending_cash"`
	Entity       string          `json:"entity"`
	Timeframe    string          `json:"timeframe"`
	ScenarioType string          `json:"scenario_type"`
	IsNegative   bool            `json:"is_negative"`
}
