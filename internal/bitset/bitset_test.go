package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionIntersectComplement(t *testing.T) {
	universe := 70
	a := Build(universe, []uint32{0, 1, 65, 69})
	b := Build(universe, []uint32{1, 2, 65})

	union := New(universe)
	union.Union(a, b)
	require.Equal(t, []uint32{0, 1, 2, 65, 69}, collect(union))

	inter := New(universe)
	inter.Intersect(a, b)
	require.Equal(t, []uint32{1, 65}, collect(inter))

	comp := New(universe)
	comp.Complement(a)
	require.Equal(t, universe-4, comp.Count())

	full := New(universe)
	full.Union(a, comp)
	require.Equal(t, universe, full.Count())

	empty := New(universe)
	empty.Intersect(a, comp)
	require.Equal(t, 0, empty.Count())

	doubleComp := New(universe)
	doubleComp.Complement(comp)
	require.Equal(t, collect(a), collect(doubleComp))
}

func collect(s *Set) []uint32 {
	var out []uint32
	s.Each(func(id uint32) { out = append(out, id) })
	return out
}
