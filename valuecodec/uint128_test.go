package valuecodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint128SetCodecRoundTrip(t *testing.T) {
	codec := Uint128SetCodec{}
	set := Uint128Set{{Hi: 0, Lo: 3}, {Hi: 0, Lo: 1}, {Hi: 1, Lo: 0}, {Hi: 0, Lo: 1}}

	data, err := codec.Encode(set)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	require.Equal(t, Uint128Set{{Hi: 0, Lo: 1}, {Hi: 0, Lo: 3}, {Hi: 1, Lo: 0}}, decoded)
}

func TestUint128SetCodecDeterministic(t *testing.T) {
	codec := Uint128SetCodec{}
	set := Uint128Set{{Hi: 5, Lo: 1}, {Hi: 2, Lo: 9}, {Hi: 2, Lo: 1}}

	a, err := codec.Encode(set)
	require.NoError(t, err)
	b, err := codec.Encode(set)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestUint128SetCodecUnion(t *testing.T) {
	codec := Uint128SetCodec{}
	a := Uint128Set{{Hi: 0, Lo: 1}, {Hi: 0, Lo: 2}}
	b := Uint128Set{{Hi: 0, Lo: 2}, {Hi: 0, Lo: 3}}

	union := codec.Union(a, b)
	require.Equal(t, Uint128Set{{Hi: 0, Lo: 1}, {Hi: 0, Lo: 2}, {Hi: 0, Lo: 3}}, union)
}

func TestUint128SetCodecEmpty(t *testing.T) {
	codec := Uint128SetCodec{}
	data, err := codec.Encode(nil)
	require.NoError(t, err)
	require.Empty(t, data)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestUint128SetCodecDecodeTruncated(t *testing.T) {
	codec := Uint128SetCodec{}
	_, err := codec.Decode([]byte{1, 2, 3})
	require.Error(t, err)
}
