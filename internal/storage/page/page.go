package page

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

const (
	// HEADER_SIZE is the size of PageHeader on the wire: PageID(8) + Checksum(4) + Flags(2) + padding(2).
	HEADER_SIZE = 16
	// BodySize is the number of bytes of page content a Page actually
	// carries; disk.Manager's ReadPage/WritePage buffers are this size.
	BodySize = util.PageSize - HEADER_SIZE
)

// Page is the fixed-size unit read from and written to disk. Its Data is
// exactly util.PageSize - HEADER_SIZE bytes; the buffer pool's frames hold
// one Page's worth of bytes each.
type Page struct {
	Header PageHeader
	Data   [util.PageSize - HEADER_SIZE]byte
}

type PageHeader struct {
	PageID   util.PageID // 8 bytes
	Checksum uint32      // 4 bytes
	Flags    uint16      // 2 bytes
	_        uint16      // 2 bytes padding
}

// New builds a Page for pageID whose Data is exactly data, which must be
// BodySize bytes long. Unlike CreateTestPage, it never truncates.
func New(pageID util.PageID, data []byte) (*Page, error) {
	if len(data) != BodySize {
		return nil, fmt.Errorf("new page %d: body must be %d bytes, got %d", pageID, BodySize, len(data))
	}
	p := &Page{Header: PageHeader{PageID: pageID}}
	copy(p.Data[:], data)
	return p, nil
}

// Serialize packs the page into a util.PageSize byte slice, computing a
// CRC32 checksum over the page id, flags, and data (the checksum field
// itself is excluded from its own computation).
func (p *Page) Serialize() []byte {
	buf := make([]byte, util.PageSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	binary.LittleEndian.PutUint16(buf[12:14], p.Header.Flags)
	copy(buf[HEADER_SIZE:], p.Data[:])

	checksum := checksumOf(buf)
	binary.LittleEndian.PutUint32(buf[8:12], checksum)
	p.Header.Checksum = checksum

	return buf
}

// Deserialize unpacks a util.PageSize byte slice into a Page, validating
// its checksum.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != util.PageSize {
		return nil, fmt.Errorf("deserialize page: expected %d bytes, got %d: %w", util.PageSize, len(data), util.ErrPageOutOfBounds)
	}

	storedChecksum := binary.LittleEndian.Uint32(data[8:12])
	zeroed := make([]byte, util.PageSize)
	copy(zeroed, data)
	binary.LittleEndian.PutUint32(zeroed[8:12], 0)
	if got := checksumOf(zeroed); got != storedChecksum {
		return nil, fmt.Errorf("page checksum %d != stored %d: %w", got, storedChecksum, util.ErrChecksumMismatch)
	}

	p := &Page{
		Header: PageHeader{
			PageID:   util.PageID(binary.LittleEndian.Uint64(data[0:8])),
			Checksum: storedChecksum,
			Flags:    binary.LittleEndian.Uint16(data[12:14]),
		},
	}
	copy(p.Data[:], data[HEADER_SIZE:])
	return p, nil
}

func checksumOf(buf []byte) uint32 {
	withoutChecksum := make([]byte, len(buf))
	copy(withoutChecksum, buf)
	binary.LittleEndian.PutUint32(withoutChecksum[8:12], 0)
	return crc32.ChecksumIEEE(withoutChecksum)
}
