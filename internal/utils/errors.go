package util

import "errors"

var (
	// ErrInvalidFrame is returned by replacer operations given a frame id
	// outside [0, N).
	ErrInvalidFrame = errors.New("invalid frame id")
	// ErrNotEvictable is returned by Remove on a pinned/non-evictable frame.
	ErrNotEvictable = errors.New("frame is not evictable")

	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrInvalidInitialPages = errors.New("initial pages must be positive")
	ErrPageOutOfBounds     = errors.New("page out of bounds")
	ErrInvalidPoolSize     = errors.New("invalid pool size")
)
