// Package query implements the boolean keyword query language evaluated
// against a loaded sidecar: pattern matching, field resolution, prefix and
// literal word search, boolean combinators over postings, and the
// interactive command-shell state machine that drives them.
package query

import (
	"bufio"
	"fmt"
	"io"

	"github.com/biblook/go-biblook/internal/bitset"
	"github.com/biblook/go-biblook/internal/cache"
	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/metrics"
	"github.com/biblook/go-biblook/internal/sidecar"
	"github.com/biblook/go-biblook/internal/varint"
)

// Index is a loaded sidecar plus its source file, ready to answer queries.
// It owns the posting cache and exposes the sidecar's field table directly.
type Index struct {
	Fields  []sidecar.FieldEntry
	Entries []int64 // entry offsets within the source .bib, indexed by entry ID
	Abbrevs []sidecar.AbbrevEntry

	sc        *sidecar.Sidecar
	src       io.ReaderAt
	cache     *cache.Cache
	metric    *metrics.Registry
	prefilter *indexer.Prefilter // nil when the sidecar carries none
}

// Open wraps a loaded sidecar and the readable source .bib file into a
// queryable Index, with a posting cache of the given capacity (0 selects
// cache.DefaultCapacity).
func Open(sc *sidecar.Sidecar, fields []sidecar.FieldEntry, entries []int64, abbrevs []sidecar.AbbrevEntry, src io.ReaderAt, cacheCapacity int, reg *metrics.Registry) *Index {
	idx := &Index{
		Fields:  fields,
		Entries: entries,
		Abbrevs: abbrevs,
		sc:      sc,
		src:     src,
		cache:   cache.New(cacheCapacity, reg),
		metric:  reg,
	}
	if sc != nil && sc.PrefilterHashes != nil {
		idx.prefilter = indexer.NewPrefilterFromHashes(sc.PrefilterHashes)
	}
	return idx
}

// Universe returns the total number of entries, the bitset universe size
// for every result of a search against this index.
func (idx *Index) Universe() int { return len(idx.Entries) }

// Postings returns the decoded entry-ID list for one (field, word) pair,
// going through the posting cache.
func (idx *Index) Postings(fieldIdx int, w sidecar.WordEntry) ([]uint32, error) {
	key := cache.Key{Field: idx.Fields[fieldIdx].Name, Word: w.Word}
	raw, err := idx.cache.Access(key, func() ([]byte, error) {
		return idx.sc.FetchPostings(w)
	})
	if err != nil {
		return nil, err
	}
	return varint.Decode(raw, w.PostingCount)
}

// LookupAbbrev resolves an abbreviation name to its defining entry,
// distinguishing built-in abbreviations and undefined references per the
// abbrev.IndexBuiltin / abbrev.IndexNAN sentinels.
func (idx *Index) LookupAbbrev(name string) (sidecar.AbbrevEntry, bool) {
	for _, a := range idx.Abbrevs {
		if a.Name == name {
			return a, true
		}
	}
	return sidecar.AbbrevEntry{}, false
}

// EntryText returns the verbatim source text of one entry, read from the
// source .bib starting at its recorded offset and ending at the matching
// top-level close delimiter.
func (idx *Index) EntryText(entryID uint32) (string, error) {
	if int(entryID) >= len(idx.Entries) {
		return "", fmt.Errorf("query: entry id %d out of range", entryID)
	}
	off := idx.Entries[entryID]
	sr := io.NewSectionReader(idx.src, off, 1<<20)
	br := bufio.NewReader(sr)
	return readBalancedEntry(br)
}

func readBalancedEntry(br *bufio.Reader) (string, error) {
	var buf []byte
	depth := 0
	started := false
	inQuote := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		buf = append(buf, b)
		switch {
		case b == '"' && depth > 0:
			inQuote = !inQuote
		case inQuote:
			// ignore delimiters inside a quoted field value
		case b == '{' || b == '(':
			depth++
			started = true
		case b == '}' || b == ')':
			depth--
			if started && depth == 0 {
				return string(buf), nil
			}
		}
	}
	return string(buf), nil
}

// AllBitset returns a bitset over the full entry universe with every bit set.
func (idx *Index) AllBitset() *bitset.Set {
	s := bitset.New(idx.Universe())
	for i := 0; i < idx.Universe(); i++ {
		s.Add(uint32(i))
	}
	return s
}
