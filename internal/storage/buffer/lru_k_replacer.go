package buffer

import (
	"math"
	"sync"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// lruKNode tracks a bounded access history for one frame slot. history is
// kept newest-first: history[0] is the most recent access, and
// history[len-1] is the oldest access still retained (the k-th most recent
// once the history is full). This mirrors the original implementation's
// push_front-on-access / pop_back-when-full deque.
type lruKNode struct {
	history   []Timestamp
	evictable bool
	present   bool // true once at least one access has been recorded and not since wiped
}

// Timestamp is the replacer's logical clock value; it has nothing to do
// with wall time.
type Timestamp = uint64

// infiniteDistance represents a backward k-distance of +∞, for frames with
// fewer than k recorded accesses.
const infiniteDistance = uint64(math.MaxUint64)

// LRUKReplacer implements the LRU-K backward-k-distance eviction policy
// described in spec.md §4.1, grounded directly on
// _examples/original_source/src/buffer/lru_k_replacer.cpp.
type LRUKReplacer struct {
	mu    sync.Mutex
	k     int
	nodes []lruKNode

	currentTimestamp Timestamp
	evictableCount   int
}

// NewLRUKReplacer preallocates numFrames nodes keyed by frame id in
// [0, numFrames), all initially non-evictable with empty history.
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	return &LRUKReplacer{
		k:     k,
		nodes: make([]lruKNode, numFrames),
	}
}

func (r *LRUKReplacer) inRange(frameID int) bool {
	return frameID >= 0 && frameID < len(r.nodes)
}

// RecordAccess appends the current logical timestamp to frameID's history,
// evicting the oldest entry once the history already holds k items.
func (r *LRUKReplacer) RecordAccess(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inRange(frameID) {
		return util.ErrInvalidFrame
	}

	node := &r.nodes[frameID]
	ts := r.currentTimestamp
	r.currentTimestamp++

	node.present = true
	node.history = append([]Timestamp{ts}, node.history...)
	if len(node.history) > r.k {
		node.history = node.history[:r.k]
	}
	return nil
}

// SetEvictable marks frameID evictable or not. Idempotent when the flag
// already matches the current state.
func (r *LRUKReplacer) SetEvictable(frameID int, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inRange(frameID) {
		return util.ErrInvalidFrame
	}

	node := &r.nodes[frameID]
	if node.evictable == evictable {
		return nil
	}
	node.evictable = evictable
	if evictable {
		r.evictableCount++
	} else {
		r.evictableCount--
	}
	return nil
}

// Remove wipes frameID's history and evictable flag. Out-of-range ids and
// frames with no recorded access are a silent no-op; any other
// non-evictable frame fails with util.ErrNotEvictable.
func (r *LRUKReplacer) Remove(frameID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inRange(frameID) {
		return nil
	}

	node := &r.nodes[frameID]
	if !node.present {
		return nil
	}
	if !node.evictable {
		return util.ErrNotEvictable
	}

	node.history = nil
	node.evictable = false
	node.present = false
	r.evictableCount--
	return nil
}

// Evict selects the evictable frame with the largest backward k-distance,
// breaking ties by the oldest earliest-recorded access timestamp.
func (r *LRUKReplacer) Evict() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	victim := -1
	var largestDistance uint64
	var earliestTimestamp Timestamp = math.MaxUint64

	for frameID := range r.nodes {
		node := &r.nodes[frameID]
		if !node.evictable {
			continue
		}

		distance := kDistance(node, r.k, r.currentTimestamp)
		ts := earliestAccess(node)

		if victim == -1 || distance > largestDistance || (distance == largestDistance && ts < earliestTimestamp) {
			victim = frameID
			largestDistance = distance
			earliestTimestamp = ts
		}
	}

	if victim == -1 {
		return 0, false
	}

	node := &r.nodes[victim]
	node.history = nil
	node.evictable = false
	node.present = false
	r.evictableCount--
	return victim, true
}

// Size returns the current evictable count.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}

func kDistance(node *lruKNode, k int, now Timestamp) uint64 {
	if len(node.history) < k {
		return infiniteDistance
	}
	return now - node.history[len(node.history)-1]
}

func earliestAccess(node *lruKNode) Timestamp {
	if len(node.history) == 0 {
		return math.MaxUint64
	}
	return node.history[len(node.history)-1]
}
