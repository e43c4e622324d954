package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biblook/go-biblook/internal/bibword"
	"github.com/biblook/go-biblook/internal/bitset"
	"github.com/biblook/go-biblook/internal/sidecar"
)

// maxMismatchTolerance bounds how far the prefix scan continues past the
// point where the candidate word stops sharing the search token's prefix,
// so a handful of out-of-order words don't force an unbounded linear scan.
const maxMismatchTolerance = 3

// Search evaluates one primitive (field-prefix, pattern-list) term against
// the index and returns the set of matching entry ids as a bitset. Every
// pattern's postings are unioned together within the term, matching the
// reference tool's "oneword" accumulation.
func (idx *Index) Search(fieldPrefix string, patterns []string) (*bitset.Set, error) {
	fields := idx.ResolveFieldPrefix(fieldPrefix)
	result := bitset.New(idx.Universe())

	for _, fi := range fields {
		words := idx.Fields[fi].Words
		for _, pat := range patterns {
			ids, err := idx.matchField(fi, words, pat)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				result.Add(id)
			}
		}
	}
	return result, nil
}

func (idx *Index) matchField(fi int, words []sidecar.WordEntry, pattern string) ([]uint32, error) {
	if strings.HasPrefix(pattern, "?") {
		// A leading '?' is the help token, so it cannot start a pattern.
		return nil, fmt.Errorf("query: pattern %q may not begin with '?'", pattern)
	}
	if trimmed := strings.TrimSuffix(pattern, "*"); len(trimmed) == len(pattern)-1 && !strings.ContainsAny(trimmed, "*?") {
		return idx.matchPrefix(fi, words, trimmed, true)
	}
	if strings.ContainsAny(pattern, "*?") {
		return idx.matchWildcard(fi, words, pattern)
	}

	// Query terms without a wildcard pass through the same filter the
	// indexer applied, so a common word never triggers a futile scan.
	if !bibword.IsIndexable(pattern) {
		return nil, nil
	}
	if idx.prefilter != nil && !idx.prefilter.MightContain(bibword.Truncate(pattern)) {
		// A prefilter miss is authoritative: the word is in no field.
		return nil, nil
	}
	return idx.matchPrefix(fi, words, pattern, false)
}

// matchPrefix binary-searches the sorted word list for the lower bound of
// literal, then scans forward while the candidate still shares literal as a
// prefix (when prefixOnly) or matches it exactly, tolerating a short run of
// non-matching neighbors before giving up.
func (idx *Index) matchPrefix(fi int, words []sidecar.WordEntry, literal string, prefixOnly bool) ([]uint32, error) {
	lo := sort.Search(len(words), func(i int) bool { return words[i].Word >= literal })

	var out []uint32
	mismatches := 0
	for i := lo; i < len(words); i++ {
		w := words[i]
		sharesPrefix := hasPrefix(w.Word, literal)
		if !sharesPrefix {
			mismatches++
			if mismatches > maxMismatchTolerance {
				break
			}
			continue
		}
		mismatches = 0
		if prefixOnly || w.Word == literal {
			ids, err := idx.Postings(fi, w)
			if err != nil {
				return nil, err
			}
			out = append(out, ids...)
		}
	}
	return out, nil
}

func (idx *Index) matchWildcard(fi int, words []sidecar.WordEntry, pattern string) ([]uint32, error) {
	var out []uint32
	for _, w := range words {
		if MatchPattern(pattern, w.Word) {
			ids, err := idx.Postings(fi, w)
			if err != nil {
				return nil, err
			}
			out = append(out, ids...)
		}
	}
	return out, nil
}
