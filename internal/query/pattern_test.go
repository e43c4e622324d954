package query

import "testing"

func TestMatchPatternWildcards(t *testing.T) {
	cases := []struct {
		pattern, candidate string
		want               bool
	}{
		{"algorithm??", "algorithmic", true},
		{"algorithm??", "algorithmes", true},
		{"algorithm??", "algorithmen", true},
		{"algorithm??", "algorithm", false},    // ?? requires exactly two more chars
		{"algorithm??", "algorithmicx", false}, // one char too many
		{"erd*", "erdos", true},
		{"erd*", "erd", true},
		{"*os", "erdos", true},
		{"*os", "erd", false},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "ac", false},
		{"voronoi", "voronoi", true},
		{"voronoi", "voronoy", false},
	}
	for _, c := range cases {
		got := MatchPattern(c.pattern, c.candidate)
		if got != c.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", c.pattern, c.candidate, got, c.want)
		}
	}
}
