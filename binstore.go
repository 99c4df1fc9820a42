// Package binstore provides an immutable, on-disk key-to-multivalue
// store: each bucket file maps 64-bit unsigned keys to a caller-defined
// set of opaque byte payloads, built once from a sorted mapping and
// queried by random-access point lookups in roughly two small reads.
//
// # Basic usage
//
// Creating a bucket from a map of keys to reference Uint128 sets:
//
//	entries := writer.EntriesFromMap(map[uint64]valuecodec.Uint128Set{
//	    7: {{Lo: 42}},
//	})
//	codec := valuecodec.Uint128SetCodec{}
//	if err := binstore.Create("buckets/a.bin", codec, entries); err != nil {
//	    log.Fatal(err)
//	}
//
// Looking up a key:
//
//	set, ok, err := binstore.Lookup("buckets/a.bin", codec, 7)
//
// Merging two buckets:
//
//	err := binstore.Merge("buckets/a.bin", "buckets/b.bin", "buckets/merged.bin", codec)
//
// # Package structure
//
// This file provides convenience wrappers around the lower-level
// packages (bucket, writer, merge, sparseindex). Open keeps a bucket's
// sparse index loaded across many Get calls; programs that need the
// split SparseIndex.Locate / Bucket.TryGetRaw path directly should use
// the bucket and sparseindex packages instead.
package binstore

import (
	"github.com/matlapo/binstore/bucket"
	"github.com/matlapo/binstore/internal/hash"
	"github.com/matlapo/binstore/merge"
	"github.com/matlapo/binstore/sparseindex"
	"github.com/matlapo/binstore/valuecodec"
	"github.com/matlapo/binstore/writer"
)

// Key derives a 64-bit key from a string identifier with xxHash64, for
// callers that start from names rather than raw uint64s. It is a
// non-cryptographic convenience: nothing in the on-disk format depends
// on this particular derivation, so two programs may freely use
// different key schemes against the same bucket file.
func Key(name string) uint64 {
	return hash.ID(name)
}

// Create writes a new bucket at path from entries, which must already be
// in strictly ascending key order. See writer.EntriesFromMap
// for building entries from an unordered map.
func Create[V any](path string, vcodec valuecodec.Codec[V], entries []writer.Entry[V], opts ...writer.Option) error {
	return writer.Create(path, vcodec, entries, opts...)
}

// Open opens and validates the bucket at path, and loads its sparse
// index, returning a handle ready for repeated Get calls. Callers
// doing a single lookup can use the package-level Lookup function
// instead.
func Open(path string) (*OpenBucket, error) {
	bk, err := bucket.Open(path)
	if err != nil {
		return nil, err
	}

	if err := bk.CheckHeaders(); err != nil {
		bk.Close()
		return nil, err
	}

	si, err := bk.ReadSparseIndex()
	if err != nil {
		bk.Close()
		return nil, err
	}

	return &OpenBucket{bucket: bk, sparse: si}, nil
}

// OpenBucket is a validated, queryable bucket handle with its sparse
// index already loaded.
type OpenBucket struct {
	bucket *bucket.Bucket
	sparse *sparseindex.SparseIndex
}

// Close releases the bucket's file handle.
func (o *OpenBucket) Close() error {
	return o.bucket.Close()
}

// Get looks up key in the open bucket, decoding its value set with vcodec.
func Get[V any](o *OpenBucket, vcodec valuecodec.Codec[V], key uint64) (value V, ok bool, err error) {
	lo, hi, found := o.sparse.Locate(key)
	if !found {
		return value, false, nil
	}

	raw, present, err := o.bucket.TryGetRaw(key, lo, hi)
	if err != nil || !present {
		return value, false, err
	}

	value, err = vcodec.Decode(raw)
	return value, err == nil, err
}

// Lookup opens path, looks up key, and closes the bucket again — a
// one-shot convenience for callers that don't need the handle kept
// around for repeated lookups.
func Lookup[V any](path string, vcodec valuecodec.Codec[V], key uint64) (value V, ok bool, err error) {
	o, err := Open(path)
	if err != nil {
		return value, false, err
	}
	defer o.Close()

	return Get(o, vcodec, key)
}

// Merge fuses the buckets at pathA and pathB into a new bucket at
// pathOut, unioning value sets on key collision.
func Merge[V any](pathA, pathB, pathOut string, vcodec valuecodec.Codec[V], opts ...writer.Option) error {
	return merge.Merge(pathA, pathB, pathOut, vcodec, opts...)
}
