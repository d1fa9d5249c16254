package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearpool/pkg/model"
)

func spec(startDay, endDay, qty int) model.BookingSpec {
	return model.BookingSpec{
		EquipmentID: "eq-1",
		StartTime:   day(startDay),
		EndTime:     day(endDay),
		Quantity:    qty,
	}
}

func TestFindMergeTargetExactRange(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 2, model.StatusConfirmed))
	a := NewQuantityAggregator(s)

	target := a.FindMergeTarget(pooledCapacity(5), spec(1, 5, 1))
	require.NotNil(t, target)
	assert.Equal(t, "b1", target.ID)
	assert.Equal(t, 2, target.Quantity)
}

func TestFindMergeTargetRequiresIdenticalRange(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 2, model.StatusConfirmed))
	a := NewQuantityAggregator(s)

	assert.Nil(t, a.FindMergeTarget(pooledCapacity(5), spec(1, 4, 1)))
	assert.Nil(t, a.FindMergeTarget(pooledCapacity(5), spec(2, 5, 1)))
	assert.Nil(t, a.FindMergeTarget(pooledCapacity(5), spec(2, 6, 1)))
}

func TestFindMergeTargetSkipsNonMergeableStatuses(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 2, model.StatusActive))
	a := NewQuantityAggregator(s)

	// Checked-out gear takes a separate lifecycle operation to grow.
	assert.Nil(t, a.FindMergeTarget(pooledCapacity(5), spec(1, 5, 1)))
}

func TestUniqueItemsNeverMerge(t *testing.T) {
	s := NewIntervalStore()
	s.Insert(booking("b1", 1, 5, 1, model.StatusConfirmed))
	a := NewQuantityAggregator(s)

	assert.Nil(t, a.FindMergeTarget(uniqueCapacity(), spec(1, 5, 1)))
}
