package valuecodec

import (
	"sort"

	"github.com/matlapo/binstore/endian"
	"github.com/matlapo/binstore/errs"
)

// Uint128 is a 128-bit unsigned integer split into two 64-bit halves,
// the reference payload type.
type Uint128 struct {
	Hi, Lo uint64
}

// Less reports whether u sorts before v under the total order used by
// Uint128Set's deterministic encoding.
func (u Uint128) Less(v Uint128) bool {
	if u.Hi != v.Hi {
		return u.Hi < v.Hi
	}

	return u.Lo < v.Lo
}

// Uint128Set is an ordered, duplicate-free set of Uint128 values — the
// reference value-set type.
type Uint128Set []Uint128

// Uint128SetCodec is the reference Codec implementation for Uint128Set.
//
// Values are encoded as sorted, fixed 16-byte (Hi, Lo) records laid end
// to end: the simplest encoding that is deterministic and whose decode
// is the identity of encode.
type Uint128SetCodec struct{}

var _ Codec[Uint128Set] = Uint128SetCodec{}

const uint128RecordSize = 16

// Encode serializes the set as sorted, deduplicated 16-byte records.
func (Uint128SetCodec) Encode(set Uint128Set) ([]byte, error) {
	sorted := dedupSorted(set)

	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, len(sorted)*uint128RecordSize)
	for i, v := range sorted {
		off := i * uint128RecordSize
		engine.PutUint64(buf[off:off+8], v.Hi)
		engine.PutUint64(buf[off+8:off+16], v.Lo)
	}

	return buf, nil
}

// Decode reverses Encode.
func (Uint128SetCodec) Decode(data []byte) (Uint128Set, error) {
	if len(data)%uint128RecordSize != 0 {
		return nil, errs.ErrDecodeError
	}

	n := len(data) / uint128RecordSize
	if n == 0 {
		return Uint128Set{}, nil
	}

	engine := endian.GetLittleEndianEngine()
	out := make(Uint128Set, n)
	for i := range out {
		off := i * uint128RecordSize
		out[i] = Uint128{
			Hi: engine.Uint64(data[off : off+8]),
			Lo: engine.Uint64(data[off+8 : off+16]),
		}
	}

	return out, nil
}

// Union returns the deduplicated, sorted union of a and b.
func (Uint128SetCodec) Union(a, b Uint128Set) Uint128Set {
	merged := make(Uint128Set, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)

	return dedupSorted(merged)
}

// dedupSorted returns a sorted copy of set with duplicate values removed.
func dedupSorted(set Uint128Set) Uint128Set {
	sorted := make(Uint128Set, len(set))
	copy(sorted, set)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}

	return out
}
