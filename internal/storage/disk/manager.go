// Package disk implements the on-disk half of the buffer pool: a
// page-addressable heap file (Manager) and an asynchronous request queue in
// front of it (Scheduler). Both are the external collaborators the buffer
// pool core treats as opaque in spec; this package gives them a minimal,
// concrete, portable implementation.
package disk

import (
	"fmt"
	"os"
	"sync"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// Manager is a page-addressable heap file backed by a single *os.File.
// Page pageID lives at byte offset pageID * util.PageSize. Manager grows the
// file on demand and is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	file *os.File
	size int64

	deallocated map[util.PageID]struct{}
}

// NewManager opens (creating if necessary) the heap file at path, sized to
// hold at least initialPages pages.
func NewManager(path string, initialPages int) (*Manager, error) {
	if initialPages <= 0 {
		return nil, util.ErrInvalidInitialPages
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open heap file: %w", err)
	}

	m := &Manager{file: f, deallocated: make(map[util.PageID]struct{})}
	initialSize := int64(initialPages) * int64(util.PageSize)
	if err := m.growTo(initialSize); err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

// growTo extends the file to at least size bytes. Caller must hold mu.
func (m *Manager) growTo(size int64) error {
	if size <= m.size {
		return nil
	}
	if err := m.file.Truncate(size); err != nil {
		return fmt.Errorf("grow heap file to %d bytes: %w", size, err)
	}
	m.size = size
	return nil
}

// IncreaseDiskSpace ensures the heap file is large enough to address pageID.
// Infallible in the sense spec.md describes: any error here means disk
// space cannot be allocated at all, which is treated as fatal by the caller.
func (m *Manager) IncreaseDiskSpace(pageID util.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	needed := (int64(pageID) + 1) * util.PageSize
	return m.growTo(needed)
}

// DeallocatePage records pageID as free to reuse. Space is never actually
// reclaimed (an explicit non-goal); this only makes deallocation observable
// for tests.
func (m *Manager) DeallocatePage(pageID util.PageID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deallocated[pageID] = struct{}{}
}

// IsDeallocated reports whether DeallocatePage has been called for pageID.
// Test-only helper.
func (m *Manager) IsDeallocated(pageID util.PageID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.deallocated[pageID]
	return ok
}

// ReadPage reads the on-disk slot for pageID, validates its checksummed
// header via page.Deserialize, and copies the page.BodySize-byte body into
// buf. A corrupted slot surfaces util.ErrChecksumMismatch. A slot that has
// been allocated but never written is all zeros and reads back as an
// all-zero body.
func (m *Manager) ReadPage(pageID util.PageID, buf []byte) error {
	if len(buf) != page.BodySize {
		return fmt.Errorf("read page %d: buffer must be %d bytes, got %d", pageID, page.BodySize, len(buf))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(pageID) * util.PageSize
	if offset+util.PageSize > m.size {
		return fmt.Errorf("read page %d: %w", pageID, util.ErrPageOutOfBounds)
	}

	raw := make([]byte, util.PageSize)
	if _, err := m.file.ReadAt(raw, offset); err != nil {
		return fmt.Errorf("read page %d: %w", pageID, err)
	}

	written := false
	for _, b := range raw {
		if b != 0 {
			written = true
			break
		}
	}
	if !written {
		clear(buf)
		return nil
	}

	p, err := page.Deserialize(raw)
	if err != nil {
		return fmt.Errorf("read page %d: %w", pageID, err)
	}
	copy(buf, p.Data[:])
	return nil
}

// WritePage packs buf (page.BodySize bytes) into a checksummed page.Page
// for pageID via page.Serialize, growing the file first if necessary.
func (m *Manager) WritePage(pageID util.PageID, buf []byte) error {
	if len(buf) != page.BodySize {
		return fmt.Errorf("write page %d: buffer must be %d bytes, got %d", pageID, page.BodySize, len(buf))
	}

	p, err := page.New(pageID, buf)
	if err != nil {
		return fmt.Errorf("write page %d: %w", pageID, err)
	}
	raw := p.Serialize()

	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int64(pageID) * util.PageSize
	if err := m.growTo(offset + util.PageSize); err != nil {
		return fmt.Errorf("write page %d: %w", pageID, err)
	}

	if _, err := m.file.WriteAt(raw, offset); err != nil {
		return fmt.Errorf("write page %d: %w", pageID, err)
	}
	return nil
}

// Close syncs and closes the heap file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}
	syncErr := m.file.Sync()
	closeErr := m.file.Close()
	m.file = nil
	if syncErr != nil {
		return fmt.Errorf("sync heap file: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close heap file: %w", closeErr)
	}
	return nil
}
