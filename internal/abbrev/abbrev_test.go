package abbrev

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinsAndDefine(t *testing.T) {
	tab := NewTable()
	tab.SeedBuiltins()

	jan, ok := tab.Lookup("jan")
	require.True(t, ok)
	require.Equal(t, IndexBuiltin, jan.EntryID)
	require.Equal(t, []string{"january"}, jan.Expansion)

	redefined := tab.Define("foo", 3, []string{"fast", "algorithms"})
	require.False(t, redefined)
	foo, ok := tab.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, uint32(3), foo.EntryID)

	redefined = tab.Define("foo", 7, []string{"other"})
	require.True(t, redefined)
}

func TestForwardReference(t *testing.T) {
	tab := NewTable()
	ref := tab.Reference("bar")
	require.Equal(t, IndexNAN, ref.EntryID)

	tab.Define("bar", 2, []string{"expanded"})
	bar, ok := tab.Lookup("bar")
	require.True(t, ok)
	require.Equal(t, uint32(2), bar.EntryID)
}

func TestSortedNames(t *testing.T) {
	tab := NewTable()
	tab.Define("zeta", 1, nil)
	tab.Define("alpha", 2, nil)
	require.Equal(t, []string{"alpha", "zeta"}, tab.SortedNames())
}
