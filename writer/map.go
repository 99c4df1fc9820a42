package writer

import "sort"

// EntriesFromMap builds a strictly-ascending Entry slice from an
// unordered mapping, for callers who start from a map rather than an
// already-sorted stream.
func EntriesFromMap[V any](m map[uint64]V) []Entry[V] {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	entries := make([]Entry[V], len(keys))
	for i, k := range keys {
		entries[i] = Entry[V]{Key: k, Value: m[k]}
	}

	return entries
}
