package codec

import (
	"github.com/matlapo/binstore/endian"
	"github.com/matlapo/binstore/errs"
	"github.com/matlapo/binstore/format"
)

// IndexEntry is the fixed 16-byte (key, offset) record shared by both the
// dense index ((key, data_offset)) and the sparse index ((key,
// di_offset)).
type IndexEntry struct {
	Key    uint64
	Offset uint64
}

// Bytes serializes the entry into a 16-byte little-endian record.
func (e IndexEntry) Bytes() []byte {
	b := make([]byte, format.IndexEntrySize)
	engine := endian.GetLittleEndianEngine()
	engine.PutUint64(b[0:8], e.Key)
	engine.PutUint64(b[8:16], e.Offset)

	return b
}

// WriteToSlice writes the entry to data at offset and returns the next
// write position. data must have at least offset+16 bytes available.
func (e IndexEntry) WriteToSlice(data []byte, offset int) int {
	engine := endian.GetLittleEndianEngine()
	engine.PutUint64(data[offset:offset+8], e.Key)
	engine.PutUint64(data[offset+8:offset+16], e.Offset)

	return offset + format.IndexEntrySize
}

// ParseIndexEntry parses a single 16-byte record from data.
//
// Returns errs.ErrTruncated if data is shorter than format.IndexEntrySize.
func ParseIndexEntry(data []byte) (IndexEntry, error) {
	if len(data) < format.IndexEntrySize {
		return IndexEntry{}, errs.ErrTruncated
	}

	engine := endian.GetLittleEndianEngine()

	return IndexEntry{
		Key:    engine.Uint64(data[0:8]),
		Offset: engine.Uint64(data[8:16]),
	}, nil
}

// ParseIndexEntryAt parses the i-th 16-byte record out of a larger slice
// holding N consecutive records, e.g. a dense-index range read in one
// syscall by the bucket reader.
func ParseIndexEntryAt(data []byte, i int) (IndexEntry, error) {
	start := i * format.IndexEntrySize
	end := start + format.IndexEntrySize
	if end > len(data) {
		return IndexEntry{}, errs.ErrTruncated
	}

	return ParseIndexEntry(data[start:end])
}
