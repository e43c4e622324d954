package varint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]uint32{
		{},
		{0},
		{0, 1, 2, 3},
		{5, 200, 201, 5000, 1000000},
		{0, 127, 128, 16383, 16384, 2097151, 2097152},
	}
	for _, ids := range cases {
		buf := Encode(nil, ids)
		require.Equal(t, EncodedLen(ids), len(buf))
		got, err := Decode(buf, len(ids))
		require.NoError(t, err)
		require.Equal(t, ids, got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	buf := Encode(nil, []uint32{1, 2, 3})
	_, err := Decode(buf[:len(buf)-1], 3)
	require.Error(t, err)
}
