package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matlapo/binstore/codec"
	"github.com/matlapo/binstore/errs"
	"github.com/matlapo/binstore/format"
	"github.com/matlapo/binstore/valuecodec"
)

func set(lo ...uint64) valuecodec.Uint128Set {
	out := make(valuecodec.Uint128Set, len(lo))
	for i, v := range lo {
		out[i] = valuecodec.Uint128{Lo: v}
	}

	return out
}

// TestCreateEmpty checks that an empty mapping still
// produces a well-formed, zero-entry bucket.
func TestCreateEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	c := valuecodec.Uint128SetCodec{}

	require.NoError(t, Create[valuecodec.Uint128Set](path, c, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, format.HeaderSize)

	h, err := codec.ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(0), h.NumEntries)
	require.Equal(t, h.SparseBaseOffset, h.DenseBaseOffset)
	require.Equal(t, h.DenseBaseOffset, h.DataBaseOffset)
}

// TestCreateRejectsUnsortedInput checks that a
// non-ascending key sequence is rejected outright.
func TestCreateRejectsUnsortedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	c := valuecodec.Uint128SetCodec{}

	entries := []Entry[valuecodec.Uint128Set]{
		{Key: 5, Value: set(1)},
		{Key: 5, Value: set(2)},
	}
	require.ErrorIs(t, Create(path, c, entries), errs.ErrUnsortedInput)

	entries = []Entry[valuecodec.Uint128Set]{
		{Key: 5, Value: set(1)},
		{Key: 3, Value: set(2)},
	}
	require.ErrorIs(t, Create(path, c, entries), errs.ErrUnsortedInput)
}

// TestSparseIndexBoundsChecksOut checks that every sparse key is present
// in the dense index and that the sparse index stays small, for a key
// count that exactly straddles several sample strides.
func TestSparseIndexBoundsChecksOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strided.bin")
	c := valuecodec.Uint128SetCodec{}

	const n = 5 * DefaultSampleStride
	entries := make([]Entry[valuecodec.Uint128Set], n)
	for i := range entries {
		entries[i] = Entry[valuecodec.Uint128Set]{Key: uint64(i), Value: set(uint64(i))}
	}
	require.NoError(t, Create(path, c, entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	h, err := codec.ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(n), h.NumEntries)

	siLen := h.DenseBaseOffset - h.SparseBaseOffset
	require.Less(t, siLen, uint64(2<<20))

	diLen := h.DataBaseOffset - h.DenseBaseOffset
	require.Equal(t, uint64(n)*format.IndexEntrySize, diLen)

	denseKeys := make(map[uint64]bool, n)
	for i := uint64(0); i < uint64(n); i++ {
		e, err := codec.ParseIndexEntryAt(raw[h.DenseBaseOffset:h.DataBaseOffset], int(i))
		require.NoError(t, err)
		denseKeys[e.Key] = true
	}

	for i := uint64(0); i < siLen/format.IndexEntrySize; i++ {
		e, err := codec.ParseIndexEntryAt(raw[h.SparseBaseOffset:h.DenseBaseOffset], int(i))
		require.NoError(t, err)
		require.True(t, denseKeys[e.Key], "sparse key %d missing from dense index", e.Key)
	}
}

func TestWithSampleStride(t *testing.T) {
	o := resolveOptions([]Option{WithSampleStride(8)})
	require.Equal(t, 8, o.stride)

	o = resolveOptions([]Option{WithSampleStride(0)})
	require.Equal(t, DefaultSampleStride, o.stride)
}
