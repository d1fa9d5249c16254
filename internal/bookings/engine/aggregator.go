package engine

import (
	"gearpool/pkg/model"
)

// QuantityAggregator decides whether a pooled request should fold into
// an existing booking instead of creating a new row. Re-adding the same
// item over the same dates reads as "increase quantity" rather than
// fragmenting the pool across duplicate rows.
type QuantityAggregator struct {
	store *IntervalStore
}

func NewQuantityAggregator(store *IntervalStore) *QuantityAggregator {
	return &QuantityAggregator{store: store}
}

// FindMergeTarget returns a copy of the booking the spec should merge
// into, or nil when a new booking row is required.
//
// A merge target needs the exact same range on the same equipment and a
// status that still admits quantity changes (pending or confirmed; an
// active booking is already checked out). Unique items never merge.
func (a *QuantityAggregator) FindMergeTarget(capacity model.EquipmentCapacity, spec model.BookingSpec) *model.Booking {
	if capacity.Unique {
		return nil
	}

	for _, iv := range a.store.Overlapping(spec.EquipmentID, spec.StartTime, spec.EndTime) {
		if !iv.Status.Mergeable() {
			continue
		}
		if iv.StartTime.Equal(spec.StartTime) && iv.EndTime.Equal(spec.EndTime) {
			target := iv
			return &target
		}
	}
	return nil
}
