// Package sparseindex holds the in-memory sorted sample table loaded
// from a bucket's sparse-index section, and the binary search that
// brackets a lookup key to a byte range in the dense index.
package sparseindex

import "sort"

// Sample is one (key, dense-index byte offset) pair from the sparse
// index section.
type Sample struct {
	Key     uint64
	DIOffset uint64
}

// SparseIndex is the fully-loaded, in-memory sparse sample table for one
// bucket. Bucket.ReadSparseIndex builds a new one on each call and hands
// it to the caller (binstore.OpenBucket keeps the one it loaded); it is
// safe for concurrent reads once built, since Locate never mutates it.
type SparseIndex struct {
	samples        []Sample
	dataBaseOffset uint64
}

// New builds a SparseIndex from the samples read from disk, in ascending
// key order, plus the bucket's data_base_offset (the upper bound used
// for the last sample's range).
func New(samples []Sample, dataBaseOffset uint64) *SparseIndex {
	return &SparseIndex{samples: samples, dataBaseOffset: dataBaseOffset}
}

// Len returns the number of samples held by the index.
func (s *SparseIndex) Len() int { return len(s.samples) }

// Locate finds the dense-index byte range [lo, hi) that may contain key.
//
// It returns the largest sample whose key is <= key as lo, and the next
// sample's offset (or data_base_offset for the last sample) as hi. It
// returns ok=false when the index is empty or key is smaller than the
// first sample's key.
func (s *SparseIndex) Locate(key uint64) (lo, hi uint64, ok bool) {
	if len(s.samples) == 0 || key < s.samples[0].Key {
		return 0, 0, false
	}

	// Find the largest index i such that samples[i].Key <= key.
	i := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].Key > key
	}) - 1

	lo = s.samples[i].DIOffset
	if i+1 < len(s.samples) {
		hi = s.samples[i+1].DIOffset
	} else {
		hi = s.dataBaseOffset
	}

	return lo, hi, true
}
