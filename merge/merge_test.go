package merge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matlapo/binstore/bucket"
	"github.com/matlapo/binstore/valuecodec"
	"github.com/matlapo/binstore/writer"
)

func set(lo ...uint64) valuecodec.Uint128Set {
	out := make(valuecodec.Uint128Set, len(lo))
	for i, v := range lo {
		out[i] = valuecodec.Uint128{Lo: v}
	}

	return out
}

func rangeSet(n uint64) valuecodec.Uint128Set {
	vals := make([]uint64, 0, n+1)
	for v := uint64(0); v <= n; v++ {
		vals = append(vals, v)
	}

	return set(vals...)
}

// TestMergeUnionScenario merges two overlapping key ranges and checks
// that colliding keys get the union of both sides' value sets.
func TestMergeUnionScenario(t *testing.T) {
	dir := t.TempDir()
	codec := valuecodec.Uint128SetCodec{}

	m1 := make(map[uint64]valuecodec.Uint128Set)
	for k := uint64(0); k < 100; k++ {
		m1[k] = rangeSet(k)
	}
	m2 := make(map[uint64]valuecodec.Uint128Set)
	for k := uint64(50); k < 200; k++ {
		m2[k] = rangeSet(k)
	}

	pathA := filepath.Join(dir, "a.bin")
	pathB := filepath.Join(dir, "b.bin")
	pathOut := filepath.Join(dir, "out.bin")

	require.NoError(t, writer.Create(pathA, codec, writer.EntriesFromMap(m1)))
	require.NoError(t, writer.Create(pathB, codec, writer.EntriesFromMap(m2)))
	require.NoError(t, Merge(pathA, pathB, pathOut, codec))

	bk, err := bucket.Open(pathOut)
	require.NoError(t, err)
	defer bk.Close()
	require.NoError(t, bk.CheckHeaders())
	require.Equal(t, uint64(200), bk.Header().NumEntries)

	si, err := bk.ReadSparseIndex()
	require.NoError(t, err)

	for k := uint64(0); k < 200; k++ {
		lo, hi, ok := si.Locate(k)
		require.True(t, ok, "key %d", k)
		raw, present, err := bk.TryGetRaw(k, lo, hi)
		require.NoError(t, err)
		require.True(t, present, "key %d", k)

		got, err := codec.Decode(raw)
		require.NoError(t, err)

		want := rangeSet(k) // both sides store {0..k}, so union is {0..k}
		require.Equal(t, want, got, "key %d", k)
	}
}

// TestMergeCommutative checks that the dense-index contents of
// merge(a,b) and merge(b,a) are byte-identical.
func TestMergeCommutative(t *testing.T) {
	dir := t.TempDir()
	codec := valuecodec.Uint128SetCodec{}

	m1 := map[uint64]valuecodec.Uint128Set{1: set(1, 2), 3: set(5)}
	m2 := map[uint64]valuecodec.Uint128Set{2: set(9), 3: set(6, 7)}

	pathA := filepath.Join(dir, "a.bin")
	pathB := filepath.Join(dir, "b.bin")
	require.NoError(t, writer.Create(pathA, codec, writer.EntriesFromMap(m1)))
	require.NoError(t, writer.Create(pathB, codec, writer.EntriesFromMap(m2)))

	outAB := filepath.Join(dir, "ab.bin")
	outBA := filepath.Join(dir, "ba.bin")
	require.NoError(t, Merge(pathA, pathB, outAB, codec))
	require.NoError(t, Merge(pathB, pathA, outBA, codec))

	denseAB := readDense(t, outAB)
	denseBA := readDense(t, outBA)
	require.Equal(t, denseAB, denseBA)
}

func readDense(t *testing.T, path string) []byte {
	t.Helper()

	bk, err := bucket.Open(path)
	require.NoError(t, err)
	defer bk.Close()
	require.NoError(t, bk.CheckHeaders())

	entries, err := bk.ReadDenseIndex()
	require.NoError(t, err)

	buf := make([]byte, 0, len(entries)*16)
	for _, e := range entries {
		buf = append(buf, e.Bytes()...)
	}

	return buf
}
