package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testComp struct {
	BaseComponent
	V int
}

func TestStoreReleaseShrinksAllocatedOnlyAfterRearrange(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{InitialSize: 2})

	off0 := s.Fix(1, testComp{V: 1})
	off1 := s.Fix(2, testComp{V: 2})
	require.Equal(t, int32(0), off0)
	require.Equal(t, int32(1), off1)
	assert.EqualValues(t, 2, s.Allocated())

	assert.True(t, s.Release(off0))
	assert.False(t, s.Release(off0), "double release must be a no-op")
	assert.EqualValues(t, 2, s.Allocated(), "Release alone must not shrink allocated")

	s.Rearrange()
	assert.EqualValues(t, 1, s.Allocated())
}

func TestStoreReleaseOutOfRangeIsNoOp(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{InitialSize: 2})
	assert.False(t, s.Release(-1))
	assert.False(t, s.Release(0))
	s.Fix(1, testComp{})
	assert.False(t, s.Release(5))
}

func TestStoreExpandGrowsWithoutChangingAllocated(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{InitialSize: 2})
	s.Fix(1, testComp{V: 1})

	n := s.Expand(10)
	assert.Equal(t, 10, n)
	assert.EqualValues(t, 1, s.Allocated())
	assert.EqualValues(t, 12, s.capacity(), "Expand must grow by exactly count, not by the growth rate")

	assert.Equal(t, 0, s.Expand(0))
	assert.Equal(t, 0, s.Expand(-5))
	assert.EqualValues(t, 12, s.capacity())
}

func TestStoreForEachVisitsOnlyLiveSlots(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{InitialSize: 4})
	s.Fix(1, testComp{V: 1})
	off2 := s.Fix(2, testComp{V: 2})
	s.Fix(3, testComp{V: 3})
	s.Release(off2)

	seen := map[uint64]int{}
	s.ForEach(func(entityID uint64, data *testComp) {
		seen[entityID] = data.V
	})

	assert.Equal(t, map[uint64]int{1: 1, 3: 3}, seen)
}

func TestStoreRearrangeNoOpWhenNothingMarked(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{InitialSize: 2})
	s.Fix(1, testComp{V: 1})
	s.Rearrange()
	assert.EqualValues(t, 1, s.Allocated())
}

func TestStoreElemType(t *testing.T) {
	s := NewComponentStore[testComp](StoreOptions{})
	assert.Equal(t, "ecs.testComp", s.ElemType().String())
}
