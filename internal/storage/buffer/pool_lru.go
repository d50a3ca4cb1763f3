package buffer

import (
	"sync"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// lruNode is one doubly-linked-list slot. Adapted from the teacher's
// pool_lru.go LRUDesc: the page/pin-count/dirty fields it used to carry now
// live on FrameHeader (see frame.go), so only the recency-list linkage
// remains here.
type lruNode struct {
	prev, next int
	inList     bool
	evictable  bool
	tracked    bool // set when marked evictable; cleared by Remove and Evict
}

// LRUReplacer is a plain recency-ordered Replacer: RecordAccess moves an
// evictable frame to the most-recently-used end of the list; Evict takes
// the least-recently-used end. Kept as an alternative implementation of the
// Replacer contract, adapted from the teacher's doubly-linked LRU list; not
// the buffer pool's default policy (LRUKReplacer is).
type LRUReplacer struct {
	mu    sync.Mutex
	nodes []lruNode
	head  int
	tail  int
	count int
}

// NewLRUReplacer preallocates numFrames nodes, none evictable.
func NewLRUReplacer(numFrames int) *LRUReplacer {
	nodes := make([]lruNode, numFrames)
	for i := range nodes {
		nodes[i].prev = -1
		nodes[i].next = -1
	}
	return &LRUReplacer{nodes: nodes, head: -1, tail: -1}
}

func (lr *LRUReplacer) inRange(frameID int) bool {
	return frameID >= 0 && frameID < len(lr.nodes)
}

// RecordAccess moves frameID to the most-recently-used end if it is
// currently in the evictable list; otherwise it is a no-op (recency among
// pinned frames is irrelevant until they become evictable).
func (lr *LRUReplacer) RecordAccess(frameID int) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if !lr.inRange(frameID) {
		return util.ErrInvalidFrame
	}
	if lr.nodes[frameID].inList {
		lr.unlink(frameID)
		lr.linkAtTail(frameID)
	}
	return nil
}

// SetEvictable marks frameID evictable or not, idempotently.
func (lr *LRUReplacer) SetEvictable(frameID int, evictable bool) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if !lr.inRange(frameID) {
		return util.ErrInvalidFrame
	}
	node := &lr.nodes[frameID]
	if node.evictable == evictable {
		return nil
	}
	node.evictable = evictable
	if evictable {
		lr.linkAtTail(frameID)
		lr.count++
		node.tracked = true
	} else {
		lr.unlink(frameID)
		lr.count--
	}
	return nil
}

// Remove wipes frameID's list membership. Out-of-range ids, and frames not
// marked evictable since creation or their last Remove/Evict, are a silent
// no-op; a frame that was marked evictable and then non-evictable fails
// with util.ErrNotEvictable.
func (lr *LRUReplacer) Remove(frameID int) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if !lr.inRange(frameID) {
		return nil
	}
	node := &lr.nodes[frameID]
	if !node.tracked {
		return nil
	}
	if !node.evictable {
		return util.ErrNotEvictable
	}
	lr.unlink(frameID)
	node.evictable = false
	node.tracked = false
	lr.count--
	return nil
}

// Evict removes and returns the least-recently-used evictable frame.
func (lr *LRUReplacer) Evict() (int, bool) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if lr.head == -1 {
		return 0, false
	}
	victim := lr.head
	lr.unlink(victim)
	lr.nodes[victim].evictable = false
	lr.nodes[victim].tracked = false
	lr.count--
	return victim, true
}

// Size returns the current evictable count.
func (lr *LRUReplacer) Size() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.count
}

func (lr *LRUReplacer) linkAtTail(frameID int) {
	node := &lr.nodes[frameID]
	node.inList = true
	node.prev = lr.tail
	node.next = -1
	if lr.tail != -1 {
		lr.nodes[lr.tail].next = frameID
	}
	lr.tail = frameID
	if lr.head == -1 {
		lr.head = frameID
	}
}

func (lr *LRUReplacer) unlink(frameID int) {
	node := &lr.nodes[frameID]
	if !node.inList {
		return
	}
	if node.prev != -1 {
		lr.nodes[node.prev].next = node.next
	} else {
		lr.head = node.next
	}
	if node.next != -1 {
		lr.nodes[node.next].prev = node.prev
	} else {
		lr.tail = node.prev
	}
	node.prev = -1
	node.next = -1
	node.inList = false
}
