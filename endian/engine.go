// Package endian provides the byte order used to encode and decode a
// bucket file's binary records.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder
// interfaces so codec and valuecodec can share one value instead of
// passing two.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from the standard
// library into a single interface. binary.LittleEndian satisfies it
// directly.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. The bucket
// file format is little-endian only, so this is the one engine this
// module ever constructs.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
