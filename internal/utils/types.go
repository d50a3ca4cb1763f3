package util

import "time"

// PageID uniquely identifies a page. Page ids are dense and monotonically
// allocated starting at 0; InvalidPageID marks "no page" / "unassigned".
type PageID int64

// InvalidPageID is the sentinel value for an unassigned page.
const InvalidPageID PageID = -1

// PageSize is the fixed size, in bytes, of a page's on-disk slot. A frame's
// data buffer holds page.BodySize bytes, the slot minus the page header.
const PageSize = 4096

// TransactionID represents a unique transaction identifier.
type TransactionID uint64

// Timestamp represents a logical timestamp, reserved for a future MVCC
// layer. The buffer package's replacer keeps its own Timestamp type.
type Timestamp uint64

// Options carries the construction parameters for a disk-backed buffer pool.
// It is a plain struct: no flag parsing or config file format is in scope for
// this core.
type Options struct {
	Path           string
	PageSize       int
	BufferPoolSize int
	KDistance      int
	SyncWrites     bool
	ReadOnly       bool
	MaxOpenFiles   int
	// CompactionInterval is reserved for a future storage-compaction pass;
	// unused by the buffer pool core.
	CompactionInterval time.Duration
}

// DefaultOptions returns sensible defaults for a new pool.
func DefaultOptions() Options {
	return Options{
		PageSize:           PageSize,
		BufferPoolSize:     1000,
		KDistance:          2,
		SyncWrites:         false,
		ReadOnly:           false,
		MaxOpenFiles:       1000,
		CompactionInterval: 30 * time.Minute,
	}
}
