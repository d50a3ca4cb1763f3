package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/disk"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"go.uber.org/zap"
)

// Pool is the buffer pool manager: it maps page identifiers to a fixed set
// of memory frames, coordinates I/O through a disk.Scheduler, tracks pin
// counts and dirty state, and hands out scoped ReadGuard/WriteGuard values.
// See spec.md §4.3.
type Pool struct {
	mu    sync.Mutex
	table *frameTable

	replacer  Replacer
	scheduler disk.Scheduler
	logger    *zap.SugaredLogger

	nextPageID atomic.Int64
}

// NewPool allocates numFrames frame headers, fills the free list, and
// creates an LRUKReplacer(numFrames, kDist) as the pool's eviction policy.
func NewPool(numFrames int, scheduler disk.Scheduler, kDist int, logger *zap.SugaredLogger) *Pool {
	if numFrames <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pool{
		table:     newFrameTable(numFrames),
		replacer:  NewLRUKReplacer(numFrames, kDist),
		scheduler: scheduler,
		logger:    logger,
	}
}

// Size returns the pool's frame count N.
func (p *Pool) Size() int {
	return len(p.table.frames)
}

// NewPage atomically returns the next page id and ensures the scheduler has
// disk capacity for it. Cannot fail.
func (p *Pool) NewPage() util.PageID {
	id := util.PageID(p.nextPageID.Add(1) - 1)
	p.scheduler.IncreaseDiskSpace(id)
	p.logger.Debugw("allocated page", "page_id", id)
	return id
}

// DeletePage reports true if pageID is not resident (nothing to do), or if
// it was resident, unpinned, and has now been flushed (if dirty), evicted
// from the replacer, and returned to the free list. Reports false if the
// page is resident but still pinned.
func (p *Pool) DeletePage(pageID util.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, resident := p.table.pageTable[pageID]
	if !resident {
		return true
	}

	frame := p.table.frames[frameID]
	if frame.pinCount.Load() > 0 {
		return false
	}

	if frame.dirty {
		if err := p.flushLocked(frame); err != nil {
			p.logger.Errorw("flush before delete failed", "page_id", pageID, "error", err)
		}
	}

	p.scheduler.DeallocatePage(pageID)
	_ = p.replacer.Remove(frameID)
	delete(p.table.pageTable, pageID)
	frame.reset()
	p.table.pushFree(frameID)
	return true
}

// FlushPage submits a synchronous write of pageID's frame buffer and clears
// its dirty flag. Returns false if pageID is not resident.
func (p *Pool) FlushPage(pageID util.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, resident := p.table.pageTable[pageID]
	if !resident {
		return false
	}

	if err := p.flushLocked(p.table.frames[frameID]); err != nil {
		p.logger.Errorw("flush failed", "page_id", pageID, "error", err)
		return false
	}
	return true
}

// FlushAllPages flushes every resident dirty frame and clears their dirty
// flags. Left unspecified by the original; this implementation is
// sequential, matching spec.md §9's resolution.
func (p *Pool) FlushAllPages() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pageID, frameID := range p.table.pageTable {
		frame := p.table.frames[frameID]
		if !frame.dirty {
			continue
		}
		if err := p.flushLocked(frame); err != nil {
			p.logger.Errorw("flush-all failed", "page_id", pageID, "error", err)
		}
	}
}

// flushLocked submits a synchronous write of frame's buffer and clears
// dirty on success. Caller must hold p.mu.
func (p *Pool) flushLocked(frame *FrameHeader) error {
	done := p.scheduler.CreatePromise()
	p.scheduler.Schedule(disk.DiskRequest{IsWrite: true, Buffer: frame.Data, PageID: frame.pageID, Completion: done})
	if err := <-done; err != nil {
		return err
	}
	frame.dirty = false
	return nil
}

// CheckedReadPage pins pageID and returns a ReadGuard, or (nil, false) if
// no free or evictable frame is available.
func (p *Pool) CheckedReadPage(pageID util.PageID) (*ReadGuard, bool) {
	frame, frameID, ok := p.acquire(pageID, false)
	if !ok {
		return nil, false
	}
	frame.rw.RLock()
	return &ReadGuard{pool: p, frame: frame, frameID: frameID, pageID: pageID}, true
}

// CheckedWritePage pins pageID for exclusive access and returns a
// WriteGuard, or (nil, false) if no free or evictable frame is available.
func (p *Pool) CheckedWritePage(pageID util.PageID) (*WriteGuard, bool) {
	frame, frameID, ok := p.acquire(pageID, true)
	if !ok {
		return nil, false
	}
	frame.rw.Lock()
	return &WriteGuard{pool: p, frame: frame, frameID: frameID, pageID: pageID}, true
}

// ReadPage is a convenience wrapper for call sites that have statically
// ensured pool capacity: it terminates the process if the pool is out of
// memory rather than returning an error.
func (p *Pool) ReadPage(pageID util.PageID) *ReadGuard {
	guard, ok := p.CheckedReadPage(pageID)
	if !ok {
		p.logger.Fatalw("out of memory: no free or evictable frame", "page_id", pageID)
	}
	return guard
}

// WritePage is the write-side equivalent of ReadPage.
func (p *Pool) WritePage(pageID util.PageID) *WriteGuard {
	guard, ok := p.CheckedWritePage(pageID)
	if !ok {
		p.logger.Fatalw("out of memory: no free or evictable frame", "page_id", pageID)
	}
	return guard
}

// GetPinCount returns pageID's current pin count, or (0, false) if the page
// is not resident.
func (p *Pool) GetPinCount(pageID util.PageID) (int64, bool) {
	p.mu.Lock()
	frameID, resident := p.table.pageTable[pageID]
	p.mu.Unlock()
	if !resident {
		return 0, false
	}
	return p.table.frames[frameID].PinCount(), true
}

// acquire implements spec.md §4.3.1's page acquisition algorithm. On a hit,
// it pins the resident frame under the pool lock alone. On a miss, it
// claims a free-or-evicted frame under the pool lock, releases the lock for
// the blocking disk I/O (flush of the old occupant if dirty, then read of
// the new page), and reacquires the lock to finalize the swap-in.
func (p *Pool) acquire(pageID util.PageID, forWrite bool) (*FrameHeader, int, bool) {
	p.mu.Lock()

	if frameID, ok := p.table.pageTable[pageID]; ok {
		frame := p.table.frames[frameID]
		p.pinLocked(frame, frameID, forWrite)
		p.mu.Unlock()
		return frame, frameID, true
	}

	frameID, ok := p.findFreeOrEvictLocked()
	if !ok {
		p.mu.Unlock()
		return nil, 0, false
	}
	frame := p.table.frames[frameID]

	oldPageID := frame.pageID
	var oldData []byte
	if frame.dirty {
		oldData = append([]byte(nil), frame.Data...)
	}
	if oldPageID != util.InvalidPageID {
		delete(p.table.pageTable, oldPageID)
	}
	// Claim the frame so no concurrent caller can pick it via the free
	// list or the replacer while the pool lock is released below.
	frame.pinCount.Store(1)

	p.mu.Unlock()

	if oldData != nil {
		done := p.scheduler.CreatePromise()
		p.scheduler.Schedule(disk.DiskRequest{IsWrite: true, Buffer: oldData, PageID: oldPageID, Completion: done})
		if err := <-done; err != nil {
			p.logger.Errorw("flush during swap-in failed", "page_id", oldPageID, "error", err)
		}
	}

	done := p.scheduler.CreatePromise()
	p.scheduler.Schedule(disk.DiskRequest{IsWrite: false, Buffer: frame.Data, PageID: pageID, Completion: done})
	if err := <-done; err != nil {
		p.logger.Errorw("swap-in read failed", "page_id", pageID, "error", err)
		p.mu.Lock()
		frame.reset()
		p.table.pushFree(frameID)
		p.mu.Unlock()
		return nil, 0, false
	}

	p.mu.Lock()
	frame.pageID = pageID
	frame.dirty = forWrite
	p.table.pageTable[pageID] = frameID
	_ = p.replacer.SetEvictable(frameID, false)
	_ = p.replacer.RecordAccess(frameID)
	p.mu.Unlock()

	return frame, frameID, true
}

// findFreeOrEvictLocked prefers a free frame (LIFO pop); otherwise asks the
// replacer to evict. Caller must hold p.mu.
func (p *Pool) findFreeOrEvictLocked() (int, bool) {
	if frameID, ok := p.table.popFree(); ok {
		return frameID, true
	}
	return p.replacer.Evict()
}

// pinLocked performs the "hit" pin step of spec.md §4.3.1: increment pin
// count, set dirty if writing, mark non-evictable, record an access. Caller
// must hold p.mu.
func (p *Pool) pinLocked(frame *FrameHeader, frameID int, forWrite bool) {
	frame.pinCount.Add(1)
	if forWrite {
		frame.dirty = true
	}
	_ = p.replacer.SetEvictable(frameID, false)
	_ = p.replacer.RecordAccess(frameID)
}

// unpin is the guard drop path: decrement pin count, and if it reaches
// zero, mark the frame evictable.
func (p *Pool) unpin(frame *FrameHeader, frameID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if frame.pinCount.Add(-1) == 0 {
		_ = p.replacer.SetEvictable(frameID, true)
	}
}
