package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertDedupAndOrder(t *testing.T) {
	d := NewDictionary()
	d.Insert("voronoi", 1)
	d.Insert("voronoi", 1) // consecutive duplicate: no-op
	d.Insert("voronoi", 2)
	d.Insert("erdos", 5)

	postings, ok := d.Lookup("voronoi")
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, postings)

	require.Equal(t, []string{"erdos", "voronoi"}, d.SortedWords())
}

func TestGrowPreservesPostings(t *testing.T) {
	d := NewDictionary()
	// Force several resizes by inserting more distinct words than the
	// initial table's 15/16 load factor allows.
	for i := 0; i < 1000; i++ {
		word := wordForIndex(i)
		d.Insert(word, uint32(i))
	}
	for i := 0; i < 1000; i++ {
		word := wordForIndex(i)
		postings, ok := d.Lookup(word)
		require.True(t, ok, "word %q missing after resize", word)
		require.Equal(t, []uint32{uint32(i)}, postings)
	}
}

func wordForIndex(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := []byte{letters[i%26], letters[(i/26)%26], letters[(i/676)%26]}
	return string(b)
}

func TestBlackHoleDiscardsInserts(t *testing.T) {
	d := NewBlackHole()
	d.Insert("anything", 1)
	_, ok := d.Lookup("anything")
	require.False(t, ok)
}

func TestTruncatedCollision(t *testing.T) {
	long1 := "aVeryLongWordThatExceedsTheThirtyOneByteLimitA"
	long2 := "aVeryLongWordThatExceedsTheThirtyOneByteLimitB"
	d := NewDictionary()
	d.Insert(long1, 1)
	d.Insert(long2, 2)
	// Both truncate to the same 31-byte prefix, so they collide by design.
	postings, ok := d.Lookup(long1)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, postings)
}

func TestFieldTableBlackHole(t *testing.T) {
	ft := NewFieldTable()
	require.NoError(t, ft.MarkBlackHole("note"))
	d, ok := ft.Lookup("note")
	require.True(t, ok)
	require.True(t, d.IsBlackHole())
	require.NotContains(t, ft.SortedFieldNames(), "note")
}
