package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearpool/pkg/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func booking(id string, startDay, endDay, qty int, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:          id,
		EquipmentID: "eq-1",
		StartTime:   day(startDay),
		EndTime:     day(endDay),
		Quantity:    qty,
		Status:      status,
	}
}

func TestOverlappingHalfOpenRanges(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"fully inside", day(2), day(4), 1},
		{"straddles start", day(1), day(3), 1},
		{"straddles end", day(4), day(7), 1},
		{"touching at end does not overlap", day(5), day(8), 0},
		{"touching at start does not overlap", day(0), day(1), 0},
		{"disjoint after", day(6), day(9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, s.Overlapping("eq-1", tt.start, tt.end), tt.expected)
		})
	}
}

func TestInsertKeepsStartOrder(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b3", 10, 12, 1, model.StatusConfirmed))
	s.Insert(booking("b1", 1, 3, 1, model.StatusConfirmed))
	s.Insert(booking("b2", 5, 8, 1, model.StatusConfirmed))

	got := s.Overlapping("eq-1", day(0), day(20))
	require.Len(t, got, 3)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)
	assert.Equal(t, "b3", got[2].ID)
}

func TestInsertIgnoresNonCountingStatuses(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusCancelled))
	s.Insert(booking("b2", 1, 5, 1, model.StatusCompleted))

	assert.Empty(t, s.Overlapping("eq-1", day(0), day(10)))
}

func TestLoadReplacesAndFilters(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("stale", 1, 5, 1, model.StatusConfirmed))

	s.Load("eq-1", []*model.Booking{
		booking("b1", 2, 4, 2, model.StatusPending),
		booking("b2", 3, 6, 1, model.StatusCancelled),
	})

	got := s.Overlapping("eq-1", day(0), day(10))
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
	assert.True(t, s.Hydrated("eq-1"))
	assert.False(t, s.Hydrated("eq-2"))
}

func TestSetStatusRemovesWhenNoLongerCounting(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))

	require.True(t, s.SetStatus("eq-1", "b1", model.StatusCancelled))
	assert.Empty(t, s.Overlapping("eq-1", day(0), day(10)))
}

func TestUpdateQuantity(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 2, model.StatusConfirmed))

	require.True(t, s.UpdateQuantity("eq-1", "b1", 5))
	got := s.Overlapping("eq-1", day(0), day(10))
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Quantity)

	assert.False(t, s.UpdateQuantity("eq-1", "missing", 1))
}

func TestInvalidateDropsHydration(t *testing.T) {
	s := NewIntervalStore()
	s.Load("eq-1", []*model.Booking{booking("b1", 1, 5, 1, model.StatusConfirmed)})

	s.Invalidate("eq-1")

	assert.False(t, s.Hydrated("eq-1"))
	assert.Empty(t, s.Overlapping("eq-1", day(0), day(10)))
}
