package models

// ConsolidatedEntity is the virtual entity code that sums all active entities.
const ConsolidatedEntity = "Consolidated"

// Customer payment plans
const (
	PlanMonthly    = "Monthly"
	PlanQuarterly  = "Quarterly"
	PlanBiannually = "Bi-annually"
	PlanAnnual     = "Annual"
	PlanMultiYear  = "More than 1 year"
)

// paymentPlanMonths maps a payment plan to the number of months per billing cycle.
var paymentPlanMonths = map[string]int{
	PlanMonthly:    1,
	PlanQuarterly:  3,
	PlanBiannually: 6,
	PlanAnnual:     12,
	PlanMultiYear:  12,
}

// MonthsPerCycle returns the billing cycle length in months for a payment plan.
// Unrecognized plans bill monthly.
func MonthsPerCycle(plan string) int {
	if months, ok := paymentPlanMonths[plan]; ok {
		return months
	}
	return 1
}

// Vendor expense frequencies
const (
	FreqOneTime   = "One-time"
	FreqDaily     = "Daily"
	FreqWeekly    = "Weekly"
	FreqBiweekly  = "Bi-weekly"
	FreqMonthly   = "Monthly"
	FreqQuarterly = "Quarterly"
	FreqAnnual    = "Annual"
)

// Projection timeframes
const (
	TimeframeDaily     = "daily"
	TimeframeWeekly    = "weekly"
	TimeframeMonthly   = "monthly"
	TimeframeQuarterly = "quarterly"
)

// Scenario types
const (
	ScenarioOptimistic = "optimistic"
	ScenarioRealistic  = "realistic"
)

// Payment override targets and actions
const (
	OverrideCustomer = "customer"
	OverrideVendor   = "vendor"

	OverrideActionMove = "move"
	OverrideActionSkip = "skip"
)

// StatusActive marks a contract as currently in force.
const StatusActive = "Active"
