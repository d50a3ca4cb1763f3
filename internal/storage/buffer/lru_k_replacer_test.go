package buffer

import (
	"testing"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUKReplacerScenario(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	for _, frame := range []int{1, 2, 3, 4, 5, 6, 1} {
		require.NoError(t, r.RecordAccess(frame))
	}
	for frame := 1; frame <= 5; frame++ {
		require.NoError(t, r.SetEvictable(frame, true))
	}
	require.NoError(t, r.SetEvictable(6, false))
	assert.Equal(t, 5, r.Size())

	// Frames 2,3,4,5 each have a single access and infinite k-distance;
	// frame 1 has two accesses so it has a finite distance. Evict() must
	// prefer the infinite-distance group, breaking ties by oldest access:
	// frame 2 was accessed before 3, 4, 5.
	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, 2, victim)
	assert.Equal(t, 4, r.Size())
}

func TestLRUKReplacerInfiniteDistanceOrdering(t *testing.T) {
	r := NewLRUKReplacer(5, 2)

	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.RecordAccess(2))
	require.NoError(t, r.RecordAccess(3))
	require.NoError(t, r.RecordAccess(4))

	for frame := 0; frame < 5; frame++ {
		require.NoError(t, r.SetEvictable(frame, true))
	}
	assert.Equal(t, 5, r.Size())

	// 2, 3, 4 all have infinite distance (< k accesses); oldest first.
	for _, want := range []int{2, 3, 4} {
		victim, ok := r.Evict()
		require.True(t, ok)
		assert.Equal(t, want, victim)
	}

	// Remaining: 0 and 1, both with finite distance. 1 was accessed more
	// recently than 0, so 0 has the larger backward k-distance.
	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, 0, victim)

	victim, ok = r.Evict()
	require.True(t, ok)
	assert.Equal(t, 1, victim)

	assert.Equal(t, 0, r.Size())
	_, ok = r.Evict()
	assert.False(t, ok)
}

func TestLRUKReplacerSingleFrame(t *testing.T) {
	r := NewLRUKReplacer(1, 1)

	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.SetEvictable(0, true))

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, 0, victim)

	_, ok = r.Evict()
	assert.False(t, ok)
}

func TestLRUKReplacerRecordAccessInvalidFrame(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	assert.ErrorIs(t, r.RecordAccess(5), util.ErrInvalidFrame)
	assert.ErrorIs(t, r.SetEvictable(5, true), util.ErrInvalidFrame)
}

func TestLRUKReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(2, 2)

	// Removing a frame with no recorded access is a silent no-op.
	require.NoError(t, r.Remove(0))

	require.NoError(t, r.RecordAccess(0))
	err := r.Remove(0)
	assert.ErrorIs(t, err, util.ErrNotEvictable)

	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.Remove(0))
	assert.Equal(t, 0, r.Size())

	// Out-of-range frame ids are a silent no-op too.
	require.NoError(t, r.Remove(99))
}

func TestLRUKReplacerEvictLeavesCleanState(t *testing.T) {
	r := NewLRUKReplacer(2, 2)

	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.SetEvictable(0, true))

	victim, ok := r.Evict()
	require.True(t, ok)
	require.Equal(t, 0, victim)

	node := &r.nodes[victim]
	assert.False(t, node.present)
	assert.False(t, node.evictable)
	assert.Nil(t, node.history)

	// A previously-evicted frame can be re-recorded from scratch.
	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.SetEvictable(0, true))
	assert.Equal(t, 1, r.Size())
}
