package models

import "time"

// PaymentOverride is a one-off exception that moves or cancels a single
// scheduled payment instance. At most one override exists per
// (type, contract, original date).
type PaymentOverride struct {
	ID           int64      `json:"id"`
	OverrideType string     `json:"override_type"` // "customer" or "vendor"
	ContractID   int64      `json:"contract_id"`
	OriginalDate time.Time  `json:"original_date"`
	Action       string     `json:"action"` // "move" or "skip"
	NewDate      *time.Time `json:"new_date,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
