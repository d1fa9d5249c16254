package engine

import (
	"sort"
	"time"

	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
)

// Conflict reasons attached to ConflictEntry records.
const (
	ReasonExclusive    = "unique item already booked for an overlapping period"
	ReasonCapacity     = "insufficient quantity available for the requested period"
	ReasonOverCapacity = "requested quantity exceeds the equipment's total quantity"
)

// ConflictDetector decides availability for one request against a
// snapshot of committed intervals. It never mutates state; determinism
// depends on the caller holding the equipment lock across the check and
// any subsequent write.
type ConflictDetector struct {
	store *IntervalStore
}

func NewConflictDetector(store *IntervalStore) *ConflictDetector {
	return &ConflictDetector{store: store}
}

// Check reports whether quantity units of the item can be reserved over
// [start, end). Malformed input fails with a validation error before any
// capacity work.
func (d *ConflictDetector) Check(capacity model.EquipmentCapacity, start, end time.Time, quantity int) (*model.AvailabilityResult, error) {
	if !start.Before(end) {
		return nil, apperrors.Validation("start time must be before end time", map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	}
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1", map[string]any{
			"quantity": quantity,
		})
	}

	overlapping := countingOnly(d.store.Overlapping(capacity.EquipmentID, start, end))

	if capacity.Unique {
		return checkUnique(overlapping, start, end, quantity), nil
	}
	return checkPooled(capacity.TotalQuantity, overlapping, start, end, quantity)
}

func countingOnly(intervals []model.Booking) []model.Booking {
	out := intervals[:0]
	for _, iv := range intervals {
		if iv.Status.CountsTowardCapacity() {
			out = append(out, iv)
		}
	}
	return out
}

// checkUnique grants a single occupant per period. A unique item has a
// fixed capacity of one, so a request for more than one unit is an
// over-capacity conflict even when the period is free.
func checkUnique(overlapping []model.Booking, start, end time.Time, quantity int) *model.AvailabilityResult {
	if quantity > 1 {
		available := 1
		if len(overlapping) > 0 {
			available = 0
		}
		return &model.AvailabilityResult{
			Available:         false,
			AvailableQuantity: available,
			Conflicts: []model.ConflictEntry{{
				StartTime:         start,
				EndTime:           end,
				AvailableQuantity: 1,
				RequiredQuantity:  quantity,
				Reason:            ReasonOverCapacity,
			}},
		}
	}

	if len(overlapping) == 0 {
		return &model.AvailabilityResult{Available: true, AvailableQuantity: 1}
	}

	conflicts := make([]model.ConflictEntry, 0, len(overlapping))
	for _, iv := range overlapping {
		conflicts = append(conflicts, model.ConflictEntry{
			BookingID:         iv.ID,
			StartTime:         iv.StartTime,
			EndTime:           iv.EndTime,
			AvailableQuantity: 0,
			RequiredQuantity:  1,
			Reason:            ReasonExclusive,
		})
	}

	return &model.AvailabilityResult{
		Available:         false,
		AvailableQuantity: 0,
		Conflicts:         conflicts,
	}
}

// checkPooled runs a sweep over the event points of the overlapping
// intervals, clipped to the requested range. The peak concurrent demand
// across the range decides availability; the intervals active at the
// worst point are attached for diagnostics.
func checkPooled(total int, overlapping []model.Booking, start, end time.Time, quantity int) (*model.AvailabilityResult, error) {
	if quantity > total {
		return &model.AvailabilityResult{
			Available:         false,
			AvailableQuantity: total - peakDemand(overlapping, start, end),
			Conflicts: []model.ConflictEntry{{
				StartTime:         start,
				EndTime:           end,
				AvailableQuantity: total,
				RequiredQuantity:  quantity,
				Reason:            ReasonOverCapacity,
			}},
		}, nil
	}

	peak, peakAt := peakDemandAt(overlapping, start, end)
	available := total - peak

	if quantity <= available {
		return &model.AvailabilityResult{
			Available:         true,
			AvailableQuantity: available,
		}, nil
	}

	var conflicts []model.ConflictEntry
	for _, iv := range overlapping {
		if activeAt(iv, peakAt) {
			conflicts = append(conflicts, model.ConflictEntry{
				BookingID:         iv.ID,
				StartTime:         iv.StartTime,
				EndTime:           iv.EndTime,
				AvailableQuantity: available,
				RequiredQuantity:  quantity,
				Reason:            ReasonCapacity,
			})
		}
	}

	return &model.AvailabilityResult{
		Available:         false,
		AvailableQuantity: available,
		Conflicts:         conflicts,
	}, nil
}

func peakDemand(overlapping []model.Booking, start, end time.Time) int {
	peak, _ := peakDemandAt(overlapping, start, end)
	return peak
}

// peakDemandAt returns the maximum concurrent demand within [start, end)
// and the instant at which it first occurs.
func peakDemandAt(overlapping []model.Booking, start, end time.Time) (int, time.Time) {
	if len(overlapping) == 0 {
		return 0, start
	}

	// Candidate instants: the requested start plus every clipped
	// interval boundary. Demand only changes at these points.
	points := []time.Time{start}
	for _, iv := range overlapping {
		if iv.StartTime.After(start) && iv.StartTime.Before(end) {
			points = append(points, iv.StartTime)
		}
		if iv.EndTime.After(start) && iv.EndTime.Before(end) {
			points = append(points, iv.EndTime)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })

	peak := 0
	peakAt := start
	for _, p := range points {
		demand := 0
		for _, iv := range overlapping {
			if activeAt(iv, p) {
				demand += iv.Quantity
			}
		}
		if demand > peak {
			peak = demand
			peakAt = p
		}
	}
	return peak, peakAt
}

// activeAt uses half-open semantics: an interval occupies its start
// instant but not its end instant.
func activeAt(iv model.Booking, at time.Time) bool {
	return !iv.StartTime.After(at) && at.Before(iv.EndTime)
}
