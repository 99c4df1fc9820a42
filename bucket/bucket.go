// Package bucket implements the read path of a bucket file:
// opening and validating the header, loading the sparse index, and
// serving point lookups in roughly two small reads.
package bucket

import (
	"io"
	"os"
	"sort"

	"github.com/matlapo/binstore/codec"
	"github.com/matlapo/binstore/errs"
	"github.com/matlapo/binstore/format"
	"github.com/matlapo/binstore/sparseindex"
)

// Bucket is a handle on an open bucket file. Open returns a handle with
// the header unread; CheckHeaders validates it; ReadSparseIndex then
// makes it queryable.
//
// Bucket uses (*os.File).ReadAt for every read instead of seek-then-read,
// so one Bucket is safe for concurrent TryGetRaw calls from multiple
// goroutines.
type Bucket struct {
	f         *os.File
	fileSize  int64
	header    codec.Header
	validated bool
}

// Open acquires a file handle on path. The header is not yet read or
// validated; call CheckHeaders next.
func Open(path string) (*Bucket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Bucket{f: f, fileSize: info.Size()}, nil
}

// Close releases the underlying file handle.
func (b *Bucket) Close() error {
	return b.f.Close()
}

// CheckHeaders reads and validates the fixed-size header record and the
// section-offset invariants. It must succeed before ReadSparseIndex or
// TryGetRaw are called.
func (b *Bucket) CheckHeaders() error {
	buf := make([]byte, format.HeaderSize)
	if _, err := readFullAt(b.f, buf, 0); err != nil {
		return err
	}

	h, err := codec.ParseHeader(buf)
	if err != nil {
		return err
	}

	// An empty bucket has no sparse samples and no dense entries, so all
	// three section offsets coincide at format.HeaderSize; a non-empty
	// bucket always samples at least its first key, so the offsets are
	// strictly increasing.
	if h.NumEntries == 0 {
		if !(h.SparseBaseOffset == h.DenseBaseOffset && h.DenseBaseOffset == h.DataBaseOffset && h.DataBaseOffset <= uint64(b.fileSize)) {
			return errs.ErrCorrupt
		}
	} else if !(h.SparseBaseOffset < h.DenseBaseOffset && h.DenseBaseOffset < h.DataBaseOffset && h.DataBaseOffset <= uint64(b.fileSize)) {
		return errs.ErrCorrupt
	}
	if (h.DenseBaseOffset-h.SparseBaseOffset)%format.IndexEntrySize != 0 {
		return errs.ErrCorrupt
	}
	if h.DataBaseOffset-h.DenseBaseOffset != h.NumEntries*format.IndexEntrySize {
		return errs.ErrCorrupt
	}

	b.header = h
	b.validated = true

	return nil
}

// Header returns the validated header. Panics if called before CheckHeaders.
func (b *Bucket) Header() codec.Header {
	if !b.validated {
		panic("bucket: Header called before CheckHeaders")
	}

	return b.header
}

// ReadSparseIndex reads and parses the sparse-index section into an
// in-memory SparseIndex. CheckHeaders must have succeeded first.
func (b *Bucket) ReadSparseIndex() (*sparseindex.SparseIndex, error) {
	if !b.validated {
		return nil, errs.ErrCorrupt
	}

	n := (b.header.DenseBaseOffset - b.header.SparseBaseOffset) / format.IndexEntrySize
	samples := make([]sparseindex.Sample, 0, n)

	if n > 0 {
		buf := make([]byte, n*format.IndexEntrySize)
		if _, err := readFullAt(b.f, buf, int64(b.header.SparseBaseOffset)); err != nil {
			return nil, err
		}

		var lastKey uint64
		for i := uint64(0); i < n; i++ {
			e, err := codec.ParseIndexEntryAt(buf, int(i))
			if err != nil {
				return nil, err
			}
			if i > 0 && e.Key <= lastKey {
				return nil, errs.ErrCorrupt
			}
			lastKey = e.Key

			// The sample must point at a dense entry carrying the same key.
			if e.Offset < b.header.DenseBaseOffset || e.Offset >= b.header.DataBaseOffset ||
				(e.Offset-b.header.DenseBaseOffset)%format.IndexEntrySize != 0 {
				return nil, errs.ErrCorrupt
			}
			var db [format.IndexEntrySize]byte
			if _, err := readFullAt(b.f, db[:], int64(e.Offset)); err != nil {
				return nil, err
			}
			d, err := codec.ParseIndexEntry(db[:])
			if err != nil {
				return nil, err
			}
			if d.Key != e.Key {
				return nil, errs.ErrCorrupt
			}

			samples = append(samples, sparseindex.Sample{Key: e.Key, DIOffset: e.Offset})
		}
	}

	return sparseindex.New(samples, b.header.DataBaseOffset), nil
}

// ReadDenseIndex reads the entire dense-index section into memory, in
// ascending key order. Merge uses this to drive its two-cursor merge;
// point lookups should prefer TryGetRaw, which only reads the bracket a
// SparseIndex narrows down to.
func (b *Bucket) ReadDenseIndex() ([]codec.IndexEntry, error) {
	if !b.validated {
		return nil, errs.ErrCorrupt
	}

	n := b.header.NumEntries
	entries := make([]codec.IndexEntry, 0, n)
	if n == 0 {
		return entries, nil
	}

	buf := make([]byte, n*format.IndexEntrySize)
	if _, err := readFullAt(b.f, buf, int64(b.header.DenseBaseOffset)); err != nil {
		return nil, err
	}

	var lastKey uint64
	for i := uint64(0); i < n; i++ {
		e, err := codec.ParseIndexEntryAt(buf, int(i))
		if err != nil {
			return nil, err
		}
		if i > 0 && e.Key <= lastKey {
			return nil, errs.ErrCorrupt
		}
		lastKey = e.Key

		entries = append(entries, e)
	}

	return entries, nil
}

// ReadValueRange reads and decompresses the value-set blob for
// entries[i], given the full dense-index slice previously returned by
// ReadDenseIndex. The blob's end is entries[i+1].Offset, or the file's
// length for the last entry.
func (b *Bucket) ReadValueRange(entries []codec.IndexEntry, i int) ([]byte, error) {
	if !b.validated {
		return nil, errs.ErrCorrupt
	}

	start := entries[i].Offset
	end := uint64(b.fileSize)
	if i+1 < len(entries) {
		end = entries[i+1].Offset
	}
	if end < start || end > uint64(b.fileSize) {
		return nil, errs.ErrCorrupt
	}

	compressed := make([]byte, end-start)
	if len(compressed) > 0 {
		if _, err := readFullAt(b.f, compressed, int64(start)); err != nil {
			return nil, err
		}
	}

	return codec.DecompressBlob(compressed)
}

// TryGetRaw looks up key within the dense-index byte range [lo, hi),
// as produced by SparseIndex.Locate on this same bucket, and returns
// the decompressed value-set bytes for key.
//
// ok is false, err is nil when key is not present in [lo, hi). Callers
// are trusted to pass a range obtained from this bucket's sparse index;
// an out-of-range or malformed range surfaces as errs.ErrCorrupt or
// errs.ErrTruncated rather than silently misbehaving.
func (b *Bucket) TryGetRaw(key uint64, lo, hi uint64) (data []byte, ok bool, err error) {
	if !b.validated {
		return nil, false, errs.ErrCorrupt
	}
	if lo > hi || lo < b.header.DenseBaseOffset || hi > b.header.DataBaseOffset ||
		(hi-lo)%format.IndexEntrySize != 0 || (lo-b.header.DenseBaseOffset)%format.IndexEntrySize != 0 {
		return nil, false, errs.ErrCorrupt
	}

	n := int((hi - lo) / format.IndexEntrySize)
	buf := make([]byte, hi-lo)
	if n > 0 {
		if _, err := readFullAt(b.f, buf, int64(lo)); err != nil {
			return nil, false, err
		}
	}

	idx := sort.Search(n, func(i int) bool {
		e, _ := codec.ParseIndexEntryAt(buf, i)
		return e.Key >= key
	})

	if idx >= n {
		return nil, false, nil
	}
	found, err := codec.ParseIndexEntryAt(buf, idx)
	if err != nil {
		return nil, false, err
	}
	if found.Key != key {
		return nil, false, nil
	}

	dataOffset := found.Offset

	var blobEnd uint64
	switch {
	case idx+1 < n:
		next, err := codec.ParseIndexEntryAt(buf, idx+1)
		if err != nil {
			return nil, false, err
		}
		blobEnd = next.Offset
	default:
		// The next dense entry, if any, lies past hi; read it directly.
		denseIdxOfThis := (lo - b.header.DenseBaseOffset) / format.IndexEntrySize + uint64(idx)
		nextAbs := b.header.DenseBaseOffset + (denseIdxOfThis+1)*format.IndexEntrySize
		if denseIdxOfThis+1 < b.header.NumEntries {
			var nb [format.IndexEntrySize]byte
			if _, err := readFullAt(b.f, nb[:], int64(nextAbs)); err != nil {
				return nil, false, err
			}
			next, err := codec.ParseIndexEntry(nb[:])
			if err != nil {
				return nil, false, err
			}
			blobEnd = next.Offset
		} else {
			blobEnd = uint64(b.fileSize)
		}
	}

	if blobEnd < dataOffset || blobEnd > uint64(b.fileSize) {
		return nil, false, errs.ErrCorrupt
	}

	compressed := make([]byte, blobEnd-dataOffset)
	if len(compressed) > 0 {
		if _, err := readFullAt(b.f, compressed, int64(dataOffset)); err != nil {
			return nil, false, err
		}
	}

	decoded, err := codec.DecompressBlob(compressed)
	if err != nil {
		return nil, false, err
	}

	return decoded, true, nil
}

// readFullAt reads exactly len(buf) bytes at offset, turning a short
// read at EOF into errs.ErrTruncated rather than a bare io.EOF, since a
// short read here always means the file is shorter than the header's
// declared offsets require.
func readFullAt(f *os.File, buf []byte, offset int64) (int, error) {
	n, err := f.ReadAt(buf, offset)
	if err != nil {
		if err == io.EOF && n < len(buf) {
			return n, errs.ErrTruncated
		}

		return n, err
	}

	return n, nil
}
