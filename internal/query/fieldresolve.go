package query

import (
	"sort"
	"strings"
)

// ResolveFieldPrefix returns the contiguous range of field indices (into
// Index.Fields, which is sorted by name) whose name has prefix as a
// prefix. An empty or non-alphanumeric prefix (conventionally "-") selects
// every field.
func (idx *Index) ResolveFieldPrefix(prefix string) []int {
	if !strings.ContainsFunc(prefix, isAlnum) {
		all := make([]int, len(idx.Fields))
		for i := range all {
			all[i] = i
		}
		return all
	}
	lo := sort.Search(len(idx.Fields), func(i int) bool { return idx.Fields[i].Name >= prefix })
	hi := lo
	for hi < len(idx.Fields) && hasPrefix(idx.Fields[hi].Name, prefix) {
		hi++
	}
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
