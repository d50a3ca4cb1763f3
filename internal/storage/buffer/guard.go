package buffer

import (
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// ReadGuard grants shared read access to a pinned page's buffer. Multiple
// ReadGuards may coexist on the same page. Callers must call Release
// (typically via defer) exactly once; there is no finalizer-based cleanup.
type ReadGuard struct {
	pool     *Pool
	frame    *FrameHeader
	frameID  int
	pageID   util.PageID
	released bool
}

// PageID returns the guarded page's identifier.
func (g *ReadGuard) PageID() util.PageID { return g.pageID }

// Data returns the frame's buffer. Valid only until Release.
func (g *ReadGuard) Data() []byte { return g.frame.Data }

// Release performs spec.md §4.3.2's drop sequence: release the per-frame
// lock, then decrement pin count and mark the frame evictable if it
// reaches zero.
func (g *ReadGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.frame.rw.RUnlock()
	g.pool.unpin(g.frame, g.frameID)
}

// WriteGuard grants exclusive read/write access to a pinned page's buffer.
// While held, no other ReadGuard or WriteGuard observes the buffer.
type WriteGuard struct {
	pool     *Pool
	frame    *FrameHeader
	frameID  int
	pageID   util.PageID
	released bool
}

// PageID returns the guarded page's identifier.
func (g *WriteGuard) PageID() util.PageID { return g.pageID }

// Data returns the frame's buffer for in-place mutation. Valid only until
// Release.
func (g *WriteGuard) Data() []byte { return g.frame.Data }

// Release performs spec.md §4.3.2's drop sequence.
func (g *WriteGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.frame.rw.Unlock()
	g.pool.unpin(g.frame, g.frameID)
}
