// Package codec implements the fixed-layout encode/decode routines for a
// bucket file: the header record, the 16-byte dense/sparse index
// records, and the framed LZ4 codec for the compressed data blobs.
package codec

import (
	"github.com/matlapo/binstore/endian"
	"github.com/matlapo/binstore/errs"
	"github.com/matlapo/binstore/format"
)

// Header is the fixed-size record written at file offset 0.
type Header struct {
	// Timestamp is the creation time, seconds since Unix epoch. Informational only.
	Timestamp int64
	// SparseBaseOffset is the absolute byte offset of the sparse index section.
	SparseBaseOffset uint64
	// DenseBaseOffset is the absolute byte offset of the dense index section.
	DenseBaseOffset uint64
	// DataBaseOffset is the absolute byte offset of the data section.
	DataBaseOffset uint64
	// NumEntries is the total number of distinct keys in the bucket.
	NumEntries uint64
}

// Bytes serializes the header into a HeaderSize-byte little-endian record.
func (h *Header) Bytes() []byte {
	b := make([]byte, format.HeaderSize)
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(b[0:4], format.Magic)
	b[4] = format.Version
	// Timestamp is signed; the bit pattern is preserved across the cast.
	engine.PutUint64(b[5:13], uint64(h.Timestamp))
	engine.PutUint64(b[13:21], h.SparseBaseOffset)
	engine.PutUint64(b[21:29], h.DenseBaseOffset)
	engine.PutUint64(b[29:37], h.DataBaseOffset)
	engine.PutUint64(b[37:45], h.NumEntries)

	return b
}

// ParseHeader parses a Header from a HeaderSize-byte slice.
//
// Returns errs.ErrTruncated if data is shorter than format.HeaderSize,
// errs.ErrBadMagic if the magic field doesn't match format.Magic, or
// errs.ErrUnsupportedVersion if the version byte is not format.Version.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < format.HeaderSize {
		return Header{}, errs.ErrTruncated
	}

	engine := endian.GetLittleEndianEngine()

	magic := engine.Uint32(data[0:4])
	if magic != format.Magic {
		return Header{}, errs.ErrBadMagic
	}

	version := data[4]
	if version != format.Version {
		return Header{}, errs.ErrUnsupportedVersion
	}

	h := Header{
		Timestamp:        int64(engine.Uint64(data[5:13])),
		SparseBaseOffset: engine.Uint64(data[13:21]),
		DenseBaseOffset:  engine.Uint64(data[21:29]),
		DataBaseOffset:   engine.Uint64(data[29:37]),
		NumEntries:       engine.Uint64(data[37:45]),
	}

	return h, nil
}
