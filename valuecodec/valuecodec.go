// Package valuecodec defines the serialization contract a caller must
// supply for the value-set type stored behind each key,
// and ships one reference implementation for the reference value type:
// an ordered set of 128-bit unsigned integers.
package valuecodec

// Codec is the caller-supplied contract for a value-set type V.
//
// Encode must be deterministic: the same set always produces the same
// bytes, because Merger's commutativity property
// depends on it. Decode must accept exactly the bytes Encode produced
// for it (encode then decode must be the identity).
type Codec[V any] interface {
	// Encode serializes a value set to an opaque byte blob.
	Encode(set V) ([]byte, error)
	// Decode deserializes a byte blob produced by Encode back into a value set.
	Decode(data []byte) (V, error)
	// Union returns the set union of a and b, used by Merger when two
	// buckets share a key.
	Union(a, b V) V
}
