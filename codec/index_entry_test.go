package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexEntryRoundTrip(t *testing.T) {
	e := IndexEntry{Key: 42, Offset: 12345}
	parsed, err := ParseIndexEntry(e.Bytes())
	require.NoError(t, err)
	require.Equal(t, e, parsed)
}

func TestIndexEntryWriteToSlice(t *testing.T) {
	buf := make([]byte, 32)
	next := IndexEntry{Key: 1, Offset: 2}.WriteToSlice(buf, 0)
	require.Equal(t, 16, next)
	next = IndexEntry{Key: 3, Offset: 4}.WriteToSlice(buf, next)
	require.Equal(t, 32, next)

	e0, err := ParseIndexEntryAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, IndexEntry{Key: 1, Offset: 2}, e0)

	e1, err := ParseIndexEntryAt(buf, 1)
	require.NoError(t, err)
	require.Equal(t, IndexEntry{Key: 3, Offset: 4}, e1)
}

func TestParseIndexEntryTruncated(t *testing.T) {
	_, err := ParseIndexEntry(make([]byte, 4))
	require.Error(t, err)
}
