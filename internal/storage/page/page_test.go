package page

import (
	"testing"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := CreateTestPage(util.PageID(7), []byte("hello buffer pool"))
	p.Header.Flags = 0x2

	buf := p.Serialize()
	require.Len(t, buf, util.PageSize)

	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, util.PageID(7), got.Header.PageID)
	assert.Equal(t, uint16(0x2), got.Header.Flags)
	assert.Equal(t, p.Data, got.Data)
}

func TestDeserializeRejectsWrongSize(t *testing.T) {
	_, err := Deserialize(make([]byte, 10))
	assert.ErrorIs(t, err, util.ErrPageOutOfBounds)
}

func TestDeserializeDetectsCorruption(t *testing.T) {
	p := CreateTestPage(util.PageID(1), []byte("abc"))
	buf := p.Serialize()
	buf[HEADER_SIZE] ^= 0xFF // corrupt a data byte without touching the checksum

	_, err := Deserialize(buf)
	assert.ErrorIs(t, err, util.ErrChecksumMismatch)
}

func TestNewRejectsWrongBodySize(t *testing.T) {
	_, err := New(util.PageID(1), make([]byte, 10))
	assert.Error(t, err)
}

func TestNewRoundTripsThroughSerialize(t *testing.T) {
	body := make([]byte, BodySize)
	copy(body, []byte("disk manager body"))

	p, err := New(util.PageID(3), body)
	require.NoError(t, err)

	got, err := Deserialize(p.Serialize())
	require.NoError(t, err)
	assert.Equal(t, util.PageID(3), got.Header.PageID)
	assert.Equal(t, body, got.Data[:])
}

func TestSerializeIsDeterministic(t *testing.T) {
	p1 := CreateTestPage(util.PageID(42), []byte("same"))
	p2 := CreateTestPage(util.PageID(42), []byte("same"))
	assert.Equal(t, p1.Serialize(), p2.Serialize())
}
