// Package writer implements the single-pass, header-back-patched bucket
// writer: it streams a strictly-ascending key→value-set mapping into the
// four-section bucket layout.
package writer

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matlapo/binstore/codec"
	"github.com/matlapo/binstore/errs"
	"github.com/matlapo/binstore/format"
	"github.com/matlapo/binstore/valuecodec"
)

// DefaultSampleStride is the number of dense entries between consecutive
// sparse samples when no Option overrides it. One sample per 64 keys
// keeps the sparse index at 16 bytes/64 keys ≈ 0.25 bytes/key, well
// under a ~2MiB ceiling for any bucket up to roughly 8M keys; larger
// buckets should pass WithSampleStride to keep that ceiling, since the
// stride is a tunable and not a wire constant.
const DefaultSampleStride = 64

// options holds the writer's tunables.
type options struct {
	stride int
}

// Option configures a Create call.
type Option func(*options)

// WithSampleStride overrides the sparse-sampling stride S. n must be >= 1.
func WithSampleStride(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.stride = n
		}
	}
}

func resolveOptions(opts []Option) options {
	o := options{stride: DefaultSampleStride}
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// Entry is one (key, value set) pair from the writer's input stream.
type Entry[V any] struct {
	Key   uint64
	Value V
}

// Create writes a new bucket at path from entries, which must be in
// strictly ascending, duplicate-free key order. It returns
// errs.ErrUnsortedInput without completing the write if that
// precondition is violated.
//
// On any I/O error the write aborts; the partial file at path, if any,
// is left for the caller to remove. This package does not rename-for-
// atomicity; see cmd/binstore for a caller that does.
func Create[V any](path string, vcodec valuecodec.Codec[V], entries []Entry[V], opts ...Option) error {
	o := resolveOptions(opts)

	dataFile, err := os.CreateTemp(filepath.Dir(path), ".binstore-data-*")
	if err != nil {
		return err
	}
	defer func() {
		dataFile.Close()
		os.Remove(dataFile.Name())
	}()

	var (
		dense          []codec.IndexEntry // Offset holds a data-relative offset until the final fixup pass.
		sparseKeys     []uint64
		sparseDenseIdx []int
		dataCursor     uint64
		countSince     int
		haveLastKey    bool
		lastKey        uint64
	)

	for _, e := range entries {
		if haveLastKey && e.Key <= lastKey {
			return errs.ErrUnsortedInput
		}
		haveLastKey, lastKey = true, e.Key

		blob, err := vcodec.Encode(e.Value)
		if err != nil {
			return errs.ErrDecodeError
		}

		compressed, err := codec.CompressBlob(blob)
		if err != nil {
			return err
		}

		if _, err := dataFile.Write(compressed); err != nil {
			return err
		}

		denseIdx := len(dense)
		dense = append(dense, codec.IndexEntry{Key: e.Key, Offset: dataCursor})

		if denseIdx == 0 || countSince >= o.stride {
			sparseKeys = append(sparseKeys, e.Key)
			sparseDenseIdx = append(sparseDenseIdx, denseIdx)
			countSince = 0
		}
		countSince++

		dataCursor += uint64(len(compressed))
	}

	numEntries := uint64(len(dense))

	siBase := uint64(format.HeaderSize)
	diBase := siBase + uint64(len(sparseKeys))*format.IndexEntrySize
	dataBase := diBase + numEntries*format.IndexEntrySize

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(make([]byte, format.HeaderSize)); err != nil {
		return err
	}

	for i, key := range sparseKeys {
		diOffset := diBase + uint64(sparseDenseIdx[i])*format.IndexEntrySize
		if _, err := out.Write(codec.IndexEntry{Key: key, Offset: diOffset}.Bytes()); err != nil {
			return err
		}
	}

	for _, d := range dense {
		if _, err := out.Write(codec.IndexEntry{Key: d.Key, Offset: dataBase + d.Offset}.Bytes()); err != nil {
			return err
		}
	}

	if _, err := dataFile.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(out, dataFile); err != nil {
		return err
	}

	h := codec.Header{
		Timestamp:        time.Now().Unix(),
		SparseBaseOffset: siBase,
		DenseBaseOffset:  diBase,
		DataBaseOffset:   dataBase,
		NumEntries:       numEntries,
	}
	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := out.Write(h.Bytes()); err != nil {
		return err
	}

	return out.Close()
}
