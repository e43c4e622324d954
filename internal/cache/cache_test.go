package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapacityEvictsOldest(t *testing.T) {
	c := New(4, nil)
	fetchCount := map[string]int{}
	fetch := func(k string) func() ([]byte, error) {
		return func() ([]byte, error) {
			fetchCount[k]++
			return []byte(k), nil
		}
	}

	for i := 0; i < 4; i++ {
		k := fmt.Sprintf("k%d", i)
		_, err := c.Access(Key{Word: k}, fetch(k))
		require.NoError(t, err)
	}
	require.Equal(t, 4, c.Len())

	// Touch k0 so it becomes most-recently-used; k1 is now the oldest.
	_, err := c.Access(Key{Word: "k0"}, fetch("k0"))
	require.NoError(t, err)
	require.Equal(t, 1, fetchCount["k0"]) // still a hit, no refetch

	// Insert a 5th distinct key: k1 (the oldest) must be evicted.
	_, err = c.Access(Key{Word: "k4"}, fetch("k4"))
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())

	_, err = c.Access(Key{Word: "k1"}, fetch("k1"))
	require.NoError(t, err)
	require.Equal(t, 2, fetchCount["k1"], "k1 should have been evicted and refetched")

	require.Equal(t, 1, fetchCount["k0"], "k0 should still be resident")
}

func TestAfterKDistinctAccessesCacheHoldsExactlyCapacityMostRecent(t *testing.T) {
	capacity := 8
	c := New(capacity, nil)
	noop := func() ([]byte, error) { return nil, nil }
	total := 20
	for i := 0; i < total; i++ {
		_, err := c.Access(Key{Word: fmt.Sprintf("k%d", i)}, noop)
		require.NoError(t, err)
	}
	require.Equal(t, capacity, c.Len())
	for i := total - capacity; i < total; i++ {
		_, ok := c.byKey[Key{Word: fmt.Sprintf("k%d", i)}]
		require.True(t, ok, "k%d should still be resident", i)
	}
}
