package engine

import (
	"sort"
	"sync"
	"time"

	"gearpool/pkg/model"
)

// IntervalStore keeps the committed booking intervals of each equipment
// item, ordered by start time. Only bookings whose status counts toward
// capacity are retained; cancelling or completing a booking removes it
// from capacity accounting.
//
// The store is safe for concurrent use on its own, but correctness of a
// read-then-decide-then-write sequence additionally requires holding the
// equipment's lock across the whole sequence.
type IntervalStore struct {
	mu          sync.RWMutex
	byEquipment map[string][]model.Booking
	hydrated    map[string]bool
}

func NewIntervalStore() *IntervalStore {
	return &IntervalStore{
		byEquipment: make(map[string][]model.Booking),
		hydrated:    make(map[string]bool),
	}
}

// Hydrated reports whether Load has been called for the equipment item.
func (s *IntervalStore) Hydrated(equipmentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated[equipmentID]
}

// Load replaces the item's intervals with the given bookings, dropping
// any that no longer count toward capacity.
func (s *IntervalStore) Load(equipmentID string, bookings []*model.Booking) {
	intervals := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b != nil && b.Status.CountsTowardCapacity() {
			intervals = append(intervals, *b)
		}
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].StartTime.Before(intervals[j].StartTime)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEquipment[equipmentID] = intervals
	s.hydrated[equipmentID] = true
}

// Insert adds a committed booking, keeping the slice ordered by start.
// Bookings that do not count toward capacity are ignored.
func (s *IntervalStore) Insert(b *model.Booking) {
	if b == nil || !b.Status.CountsTowardCapacity() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	intervals := s.byEquipment[b.EquipmentID]
	i := sort.Search(len(intervals), func(i int) bool {
		return intervals[i].StartTime.After(b.StartTime)
	})
	intervals = append(intervals, model.Booking{})
	copy(intervals[i+1:], intervals[i:])
	intervals[i] = *b
	s.byEquipment[b.EquipmentID] = intervals
}

// UpdateQuantity sets the quantity of a stored interval. Returns false
// when the booking is not present.
func (s *IntervalStore) UpdateQuantity(equipmentID, bookingID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	intervals := s.byEquipment[equipmentID]
	for i := range intervals {
		if intervals[i].ID == bookingID {
			intervals[i].Quantity = quantity
			return true
		}
	}
	return false
}

// SetStatus applies a status transition to a stored interval. When the
// new status no longer counts toward capacity, the interval is removed.
func (s *IntervalStore) SetStatus(equipmentID, bookingID string, status model.BookingStatus) bool {
	if !status.CountsTowardCapacity() {
		return s.Remove(equipmentID, bookingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	intervals := s.byEquipment[equipmentID]
	for i := range intervals {
		if intervals[i].ID == bookingID {
			intervals[i].Status = status
			return true
		}
	}
	return false
}

// Remove drops a booking from capacity accounting.
func (s *IntervalStore) Remove(equipmentID, bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	intervals := s.byEquipment[equipmentID]
	for i := range intervals {
		if intervals[i].ID == bookingID {
			s.byEquipment[equipmentID] = append(intervals[:i], intervals[i+1:]...)
			return true
		}
	}
	return false
}

// Invalidate forgets everything known about the item, forcing the next
// reader to rehydrate from persistence.
func (s *IntervalStore) Invalidate(equipmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byEquipment, equipmentID)
	delete(s.hydrated, equipmentID)
}

// Overlapping returns copies of every interval intersecting the
// half-open range [start, end). Touching endpoints do not overlap.
func (s *IntervalStore) Overlapping(equipmentID string, start, end time.Time) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	intervals := s.byEquipment[equipmentID]

	// Ordered by start, so nothing at or past the requested end can
	// overlap.
	n := sort.Search(len(intervals), func(i int) bool {
		return !intervals[i].StartTime.Before(end)
	})

	var out []model.Booking
	for _, iv := range intervals[:n] {
		if start.Before(iv.EndTime) {
			out = append(out, iv)
		}
	}
	return out
}
