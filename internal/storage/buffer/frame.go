package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// FrameHeader is the in-memory metadata and data buffer for one buffer pool
// slot. It is reused across pages over the pool's lifetime: FrameID is
// immutable, everything else describes the current occupant (if any). Data
// holds page.BodySize bytes — a page's content, not its on-disk header.
type FrameHeader struct {
	FrameID int
	Data    []byte

	pageID   util.PageID
	pinCount atomic.Int64
	dirty    bool

	rw sync.RWMutex
}

func newFrameHeader(frameID int) *FrameHeader {
	return &FrameHeader{
		FrameID: frameID,
		Data:    make([]byte, page.BodySize),
		pageID:  util.InvalidPageID,
	}
}

// reset zeroes a frame's buffer and clears its occupant metadata, per
// spec.md §4.2's "reset of a header" operation. Caller must hold the pool
// lock and must not call this while the frame's RWMutex is held by a guard.
func (f *FrameHeader) reset() {
	clear(f.Data)
	f.pageID = util.InvalidPageID
	f.pinCount.Store(0)
	f.dirty = false
}

// PinCount returns the frame's current pin count, readable lock-free.
func (f *FrameHeader) PinCount() int64 {
	return f.pinCount.Load()
}

// frameTable owns the pool's frame slots, LIFO free list, and page table.
// Every method here assumes the pool's lock is already held.
type frameTable struct {
	frames    []*FrameHeader
	freeList  []int // LIFO: popped from the back
	pageTable map[util.PageID]int
}

func newFrameTable(numFrames int) *frameTable {
	frames := make([]*FrameHeader, numFrames)
	freeList := make([]int, numFrames)
	for i := 0; i < numFrames; i++ {
		frames[i] = newFrameHeader(i)
		freeList[i] = i
	}
	return &frameTable{
		frames:    frames,
		freeList:  freeList,
		pageTable: make(map[util.PageID]int, numFrames),
	}
}

// popFree pops a frame id off the back of the free list.
func (ft *frameTable) popFree() (int, bool) {
	if len(ft.freeList) == 0 {
		return 0, false
	}
	last := len(ft.freeList) - 1
	frameID := ft.freeList[last]
	ft.freeList = ft.freeList[:last]
	return frameID, true
}

// pushFree returns a frame id to the free list.
func (ft *frameTable) pushFree(frameID int) {
	ft.freeList = append(ft.freeList, frameID)
}
