package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
)

func pooledCapacity(total int) model.EquipmentCapacity {
	return model.EquipmentCapacity{EquipmentID: "eq-1", TotalQuantity: total, Unique: false}
}

func uniqueCapacity() model.EquipmentCapacity {
	return model.EquipmentCapacity{EquipmentID: "eq-1", TotalQuantity: 1, Unique: true}
}

func TestCheckRejectsMalformedInput(t *testing.T) {
	d := NewConflictDetector(NewIntervalStore())

	_, err := d.Check(pooledCapacity(5), day(5), day(5), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = d.Check(pooledCapacity(5), day(1), day(5), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestUniqueOverlapConflicts(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))
	d := NewConflictDetector(s)

	// Booked [Jan 1, Jan 5); requesting [Jan 3, Jan 7).
	res, err := d.Check(uniqueCapacity(), day(3), day(7), 1)
	require.NoError(t, err)

	assert.False(t, res.Available)
	assert.Equal(t, 0, res.AvailableQuantity)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "b1", res.Conflicts[0].BookingID)
	assert.Equal(t, 0, res.Conflicts[0].AvailableQuantity)
	assert.Equal(t, 1, res.Conflicts[0].RequiredQuantity)
	assert.Equal(t, ReasonExclusive, res.Conflicts[0].Reason)
}

func TestUniqueFreeRange(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))
	d := NewConflictDetector(s)

	res, err := d.Check(uniqueCapacity(), day(5), day(9), 1)
	require.NoError(t, err)

	assert.True(t, res.Available)
	assert.Equal(t, 1, res.AvailableQuantity)
	assert.Empty(t, res.Conflicts)
}

func TestUniqueRejectsMultiUnitRequest(t *testing.T) {
	d := NewConflictDetector(NewIntervalStore())

	// Capacity is fixed at one; a free range does not help.
	res, err := d.Check(uniqueCapacity(), day(1), day(5), 3)
	require.NoError(t, err)

	assert.False(t, res.Available)
	assert.Equal(t, 1, res.AvailableQuantity)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ReasonOverCapacity, res.Conflicts[0].Reason)
	assert.Equal(t, 1, res.Conflicts[0].AvailableQuantity)
	assert.Equal(t, 3, res.Conflicts[0].RequiredQuantity)

	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))
	d = NewConflictDetector(s)

	res, err = d.Check(uniqueCapacity(), day(3), day(7), 2)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, 0, res.AvailableQuantity)
}

func TestPooledPeakDemand(t *testing.T) {
	// Pool of 5 with 3 already committed over [Jan 1, Jan 10).
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 10, 3, model.StatusConfirmed))
	d := NewConflictDetector(s)

	res, err := d.Check(pooledCapacity(5), day(1), day(10), 2)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 2, res.AvailableQuantity)

	res, err = d.Check(pooledCapacity(5), day(1), day(10), 3)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, 2, res.AvailableQuantity)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "b1", res.Conflicts[0].BookingID)
	assert.Equal(t, 2, res.Conflicts[0].AvailableQuantity)
	assert.Equal(t, 3, res.Conflicts[0].RequiredQuantity)
	assert.Equal(t, ReasonCapacity, res.Conflicts[0].Reason)
}

func TestPooledPeakAcrossStaggeredIntervals(t *testing.T) {
	// [1,4) qty 2 and [3,6) qty 2 stack to 4 only over [3,4).
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 4, 2, model.StatusConfirmed))
	s.Insert(booking("b2", 3, 6, 2, model.StatusPending))
	d := NewConflictDetector(s)

	res, err := d.Check(pooledCapacity(5), day(1), day(6), 1)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 1, res.AvailableQuantity)

	res, err = d.Check(pooledCapacity(5), day(1), day(6), 2)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, 1, res.AvailableQuantity)
	// Both intervals are active at the peak sub-interval.
	assert.Len(t, res.Conflicts, 2)

	// A request clear of the stacked window sees only one occupant.
	res, err = d.Check(pooledCapacity(5), day(4), day(6), 3)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 3, res.AvailableQuantity)
}

func TestPooledIgnoresNonCountingStatuses(t *testing.T) {
	s := NewIntervalStore()
	s.Load("eq-1", []*model.Booking{
		booking("b1", 1, 10, 3, model.StatusConfirmed),
		booking("b2", 1, 10, 2, model.StatusCancelled),
	})
	d := NewConflictDetector(s)

	res, err := d.Check(pooledCapacity(5), day(1), day(10), 2)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 2, res.AvailableQuantity)
}

func TestPooledRequestBeyondTotal(t *testing.T) {
	d := NewConflictDetector(NewIntervalStore())

	res, err := d.Check(pooledCapacity(5), day(1), day(10), 6)
	require.NoError(t, err)

	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ReasonOverCapacity, res.Conflicts[0].Reason)
	assert.Equal(t, 6, res.Conflicts[0].RequiredQuantity)
}

func TestTouchingBookingsDoNotConflict(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 5, model.StatusConfirmed))
	d := NewConflictDetector(s)

	res, err := d.Check(pooledCapacity(5), day(5), day(9), 5)
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 5, res.AvailableQuantity)
}
