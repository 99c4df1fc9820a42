// Package format holds the wire-format constants shared by the codec,
// writer and bucket packages: the magic number, the current
// version byte, and the fixed sizes of the header and index records.
package format

const (
	// Magic is the four-byte sentinel at the start of every bucket file.
	Magic uint32 = 0xB145705E

	// Version is the only format version this module writes and reads.
	Version uint8 = 1

	// HeaderSize is the canonical, unpadded size of the header record
	// magic(4) + version(1) + timestamp(8) + si_base_offset(8)
	// + di_base_offset(8) + data_base_offset(8) + num_entries(8) = 45.
	HeaderSize = 45

	// IndexEntrySize is the fixed size, in bytes, of both a dense-index
	// record (key, data_offset) and a sparse-index record (key,
	// di_offset).
	IndexEntrySize = 16
)
