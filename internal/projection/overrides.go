package projection

import (
	"time"

	"github.com/jesuscompany/cash-management/internal/models"
)

type overrideKey struct {
	overrideType string
	contractID   int64
	date         time.Time
}

// OverrideIndex is a lookup of payment overrides keyed by
// (type, contract id, original scheduled date), built once per calculation.
type OverrideIndex map[overrideKey]models.PaymentOverride

// BuildOverrideIndex indexes overrides for O(1) lookup. When duplicates
// exist the last one wins; the store enforces uniqueness upstream.
func BuildOverrideIndex(overrides []models.PaymentOverride) OverrideIndex {
	idx := make(OverrideIndex, len(overrides))
	for _, o := range overrides {
		idx[overrideKey{o.OverrideType, o.ContractID, models.DateOf(o.OriginalDate)}] = o
	}
	return idx
}

// Lookup returns the override targeting a scheduled payment, if any.
func (idx OverrideIndex) Lookup(overrideType string, contractID int64, scheduled time.Time) (models.PaymentOverride, bool) {
	o, ok := idx[overrideKey{overrideType, contractID, models.DateOf(scheduled)}]
	return o, ok
}
