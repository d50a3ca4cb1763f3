package buffer

import (
	"sync/atomic"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// clockNode tracks one frame's second-chance state. Adapted from the
// teacher's pool_clock.go ClockDesc: page/dirty fields moved to
// FrameHeader, leaving only the CAS-driven reference/evictable bits.
type clockNode struct {
	referenced atomic.Bool
	evictable  atomic.Bool
}

// ClockReplacer is a CLOCK (second-chance) Replacer: RecordAccess sets a
// reference bit; Evict sweeps a clock hand, clearing reference bits on a
// first pass and taking the first unreferenced evictable frame. Kept as an
// alternative implementation of the Replacer contract, adapted from the
// teacher's atomic CAS sweep in pool_clock.go; not the buffer pool's
// default policy (LRUKReplacer is).
type ClockReplacer struct {
	nodes []clockNode
	hand  atomic.Int64
	count atomic.Int64
}

// NewClockReplacer preallocates numFrames nodes, none evictable.
func NewClockReplacer(numFrames int) *ClockReplacer {
	return &ClockReplacer{nodes: make([]clockNode, numFrames)}
}

func (cr *ClockReplacer) inRange(frameID int) bool {
	return frameID >= 0 && frameID < len(cr.nodes)
}

// RecordAccess sets frameID's reference bit, giving it a second chance the
// next time the clock hand sweeps past it.
func (cr *ClockReplacer) RecordAccess(frameID int) error {
	if !cr.inRange(frameID) {
		return util.ErrInvalidFrame
	}
	cr.nodes[frameID].referenced.Store(true)
	return nil
}

// SetEvictable marks frameID evictable or not, idempotently.
func (cr *ClockReplacer) SetEvictable(frameID int, evictable bool) error {
	if !cr.inRange(frameID) {
		return util.ErrInvalidFrame
	}
	node := &cr.nodes[frameID]
	if node.evictable.CompareAndSwap(!evictable, evictable) {
		if evictable {
			cr.count.Add(1)
		} else {
			cr.count.Add(-1)
		}
	}
	return nil
}

// Remove clears frameID's state. Out-of-range ids are a silent no-op; a
// non-evictable in-range frame fails with util.ErrNotEvictable.
func (cr *ClockReplacer) Remove(frameID int) error {
	if !cr.inRange(frameID) {
		return nil
	}
	node := &cr.nodes[frameID]
	if !node.evictable.CompareAndSwap(true, false) {
		return util.ErrNotEvictable
	}
	node.referenced.Store(false)
	cr.count.Add(-1)
	return nil
}

// Evict sweeps the clock hand up to twice around the frame set, giving a
// referenced evictable frame one second chance before taking it.
func (cr *ClockReplacer) Evict() (int, bool) {
	n := len(cr.nodes)
	if n == 0 {
		return 0, false
	}
	for i := 0; i < 2*n; i++ {
		idx := int(cr.hand.Add(1)-1) % n
		node := &cr.nodes[idx]
		if !node.evictable.Load() {
			continue
		}
		if node.referenced.CompareAndSwap(true, false) {
			continue
		}
		if node.evictable.CompareAndSwap(true, false) {
			cr.count.Add(-1)
			return idx, true
		}
	}
	return 0, false
}

// Size returns the current evictable count.
func (cr *ClockReplacer) Size() int {
	return int(cr.count.Load())
}
