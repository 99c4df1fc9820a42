package codec

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/matlapo/binstore/errs"
)

// compressorPool pools lz4.Compressor instances; the compressor keeps an
// internal hash table that is expensive to zero on every call.
var compressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// CompressBlob compresses a value-set blob with LZ4.
//
// The framing choice is the library's raw block format (no frame header,
// no stored uncompressed size): the blob's length on disk is always
// known externally from the gap between two dense-index data_offsets,
// so there is nothing for a frame header to add. Both CompressBlob and
// DecompressBlob agree on this framing.
func CompressBlob(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	c, _ := compressorPool.Get().(*lz4.Compressor)
	defer compressorPool.Put(c)

	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	// CompressBlock returns n==0 when the input is incompressible; the
	// contract for this store is that the data section always holds
	// exactly what CompressBlob produced, so store the raw bytes with a
	// one-byte marker rather than special-casing an empty blob at read time.
	if n == 0 {
		return append([]byte{rawMarker}, data...), nil
	}

	return append([]byte{compressedMarker}, dst[:n]...), nil
}

// rawMarker and compressedMarker distinguish an incompressible blob
// (stored verbatim) from an LZ4 block, since LZ4's raw block format
// carries no self-describing header to tell them apart.
const (
	compressedMarker byte = 0x00
	rawMarker        byte = 0x01
)

const maxDecompressSize = 128 * 1024 * 1024 // 128MB safety limit.

// DecompressBlob reverses CompressBlob. Since the raw LZ4 block format
// does not record the decompressed size, it retries with a doubling
// destination buffer until UncompressBlock succeeds or the safety limit
// is hit.
func DecompressBlob(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 1 {
		return nil, errs.ErrDecompressionFailed
	}

	marker, payload := data[0], data[1:]
	if marker == rawMarker {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}
	if marker != compressedMarker {
		return nil, errs.ErrDecompressionFailed
	}

	bufSize := len(payload) * 4
	if bufSize == 0 {
		bufSize = 64
	}

	for bufSize <= maxDecompressSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(payload, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxDecompressSize {
				bufSize *= 2
				continue
			}

			return nil, errs.ErrDecompressionFailed
		}

		return buf[:n], nil
	}

	return nil, errs.ErrDecompressionFailed
}
