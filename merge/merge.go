// Package merge implements the two-cursor fusion of two buckets into a
// third, unioning value sets on key collision.
package merge

import (
	"github.com/matlapo/binstore/bucket"
	"github.com/matlapo/binstore/codec"
	"github.com/matlapo/binstore/valuecodec"
	"github.com/matlapo/binstore/writer"
)

// Merge opens and validates pathA and pathB, streams their dense
// indexes in ascending key order with two cursors, unions value sets on
// matching keys, and writes the result to pathOut via writer.Create.
//
// Merge(a, b) and Merge(b, a) produce buckets with byte-identical dense
// indexes as long as vcodec.Union is itself commutative;
// valuecodec.Uint128SetCodec satisfies this.
func Merge[V any](pathA, pathB, pathOut string, vcodec valuecodec.Codec[V], opts ...writer.Option) error {
	a, err := openValidated(pathA)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := openValidated(pathB)
	if err != nil {
		return err
	}
	defer b.Close()

	denseA, err := a.ReadDenseIndex()
	if err != nil {
		return err
	}
	denseB, err := b.ReadDenseIndex()
	if err != nil {
		return err
	}

	merged := make([]writer.Entry[V], 0, len(denseA)+len(denseB))

	i, j := 0, 0
	for i < len(denseA) && j < len(denseB) {
		switch {
		case denseA[i].Key < denseB[j].Key:
			v, err := decodeAt(a, denseA, i, vcodec)
			if err != nil {
				return err
			}
			merged = append(merged, writer.Entry[V]{Key: denseA[i].Key, Value: v})
			i++
		case denseB[j].Key < denseA[i].Key:
			v, err := decodeAt(b, denseB, j, vcodec)
			if err != nil {
				return err
			}
			merged = append(merged, writer.Entry[V]{Key: denseB[j].Key, Value: v})
			j++
		default:
			va, err := decodeAt(a, denseA, i, vcodec)
			if err != nil {
				return err
			}
			vb, err := decodeAt(b, denseB, j, vcodec)
			if err != nil {
				return err
			}
			merged = append(merged, writer.Entry[V]{Key: denseA[i].Key, Value: vcodec.Union(va, vb)})
			i++
			j++
		}
	}
	for ; i < len(denseA); i++ {
		v, err := decodeAt(a, denseA, i, vcodec)
		if err != nil {
			return err
		}
		merged = append(merged, writer.Entry[V]{Key: denseA[i].Key, Value: v})
	}
	for ; j < len(denseB); j++ {
		v, err := decodeAt(b, denseB, j, vcodec)
		if err != nil {
			return err
		}
		merged = append(merged, writer.Entry[V]{Key: denseB[j].Key, Value: v})
	}

	return writer.Create(pathOut, vcodec, merged, opts...)
}

func openValidated(path string) (*bucket.Bucket, error) {
	bk, err := bucket.Open(path)
	if err != nil {
		return nil, err
	}
	if err := bk.CheckHeaders(); err != nil {
		bk.Close()
		return nil, err
	}

	return bk, nil
}

func decodeAt[V any](bk *bucket.Bucket, entries []codec.IndexEntry, i int, vcodec valuecodec.Codec[V]) (V, error) {
	var zero V

	raw, err := bk.ReadValueRange(entries, i)
	if err != nil {
		return zero, err
	}

	v, err := vcodec.Decode(raw)
	if err != nil {
		return zero, err
	}

	return v, nil
}
