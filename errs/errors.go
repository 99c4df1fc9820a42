// Package errs collects the sentinel errors returned by every binstore
// package. Callers compare against these with errors.Is; no package in
// this module defines its own error types.
package errs

import "errors"

var (
	// ErrBadMagic is returned when a bucket's header magic does not
	// match format.Magic.
	ErrBadMagic = errors.New("binstore: bad magic")

	// ErrUnsupportedVersion is returned when a bucket's header carries a
	// known magic but a version byte this module does not understand.
	ErrUnsupportedVersion = errors.New("binstore: unsupported version")

	// ErrTruncated is returned when a file is shorter than its declared
	// offsets require, or a fixed-size record is only partially present.
	ErrTruncated = errors.New("binstore: truncated file")

	// ErrCorrupt is returned for internal inconsistencies that are not
	// simple truncation: offsets pointing outside the file, non-ascending
	// keys, or a sparse entry whose key is absent from the dense index.
	ErrCorrupt = errors.New("binstore: corrupt bucket")

	// ErrUnsortedInput is returned by the writer when the input stream
	// is not strictly ascending by key, or contains a duplicate key.
	ErrUnsortedInput = errors.New("binstore: input keys not strictly ascending")

	// ErrDecompressionFailed is returned when LZ4 decoding of a data
	// blob fails.
	ErrDecompressionFailed = errors.New("binstore: lz4 decompression failed")

	// ErrDecodeError is returned when a caller-supplied value codec
	// fails to encode or decode a value set.
	ErrDecodeError = errors.New("binstore: value codec failed")
)
