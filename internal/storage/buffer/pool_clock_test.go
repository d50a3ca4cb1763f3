package buffer

import (
	"testing"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockReplacerGivesSecondChance(t *testing.T) {
	r := NewClockReplacer(3)
	for _, frame := range []int{0, 1, 2} {
		require.NoError(t, r.SetEvictable(frame, true))
	}
	// Reference frame 0 so the first sweep skips it once.
	require.NoError(t, r.RecordAccess(0))

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, 1, victim)
	assert.Equal(t, 2, r.Size())
}

func TestClockReplacerInvalidFrame(t *testing.T) {
	r := NewClockReplacer(2)
	assert.ErrorIs(t, r.RecordAccess(9), util.ErrInvalidFrame)
	assert.ErrorIs(t, r.SetEvictable(9, true), util.ErrInvalidFrame)
}

func TestClockReplacerRemove(t *testing.T) {
	r := NewClockReplacer(2)
	assert.ErrorIs(t, r.Remove(0), util.ErrNotEvictable)

	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.Remove(0))
	assert.Equal(t, 0, r.Size())
}

func TestClockReplacerEvictEmpty(t *testing.T) {
	r := NewClockReplacer(2)
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestClockReplacerSetEvictableIdempotent(t *testing.T) {
	r := NewClockReplacer(2)
	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.SetEvictable(0, true))
	assert.Equal(t, 1, r.Size())
}
