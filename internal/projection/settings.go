package projection

// Settings carries the global business defaults the calculators need.
// Passing them at construction keeps the calculators pure functions of
// their inputs; per-contract fields override these where present.
type Settings struct {
	// RealisticDelayDays is the assumed late-payment slack applied to
	// every customer payment in the realistic scenario type.
	RealisticDelayDays int
	// InvoiceLeadDay is the day of the month before a billing month on
	// which the invoice goes out.
	InvoiceLeadDay int
	// DefaultPaymentTermsDays applies when a contract carries no payment
	// terms of its own.
	DefaultPaymentTermsDays int
}

// DefaultSettings returns the stock business defaults: Net 30 terms,
// invoices on the 15th of the prior month, 10 days of realistic delay.
func DefaultSettings() Settings {
	return Settings{
		RealisticDelayDays:      10,
		InvoiceLeadDay:          15,
		DefaultPaymentTermsDays: 30,
	}
}
