package query

import (
	"fmt"
	"sort"

	"github.com/biblook/go-biblook/internal/abbrev"
	"github.com/biblook/go-biblook/internal/bitset"
)

// Display writes the entries named by ids, in ascending order, to sink,
// each copied verbatim from its source offset through its balanced closing
// delimiter.
func (idx *Index) Display(ids *bitset.Set, sink Sink) (int, error) {
	var ordered []uint32
	ids.Each(func(id uint32) { ordered = append(ordered, id) })
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	n := 0
	for _, id := range ordered {
		text, err := idx.EntryText(id)
		if err != nil {
			return n, err
		}
		if _, err := fmt.Fprintln(sink, text); err != nil {
			return n, err
		}
		n++
	}
	return n, sink.Flush()
}

// Whatis resolves one abbreviation name, writing "built-in", "not defined",
// or the defining entry's verbatim text to sink.
func (idx *Index) Whatis(name string, sink Sink) error {
	a, ok := idx.LookupAbbrev(name)
	if !ok {
		_, err := fmt.Fprintf(sink, "%s: not defined\n", name)
		if err != nil {
			return err
		}
		return sink.Flush()
	}
	if a.EntryID == abbrev.IndexBuiltin {
		_, err := fmt.Fprintf(sink, "%s: built-in\n", name)
		if err != nil {
			return err
		}
		return sink.Flush()
	}
	if a.EntryID == abbrev.IndexNAN {
		_, err := fmt.Fprintf(sink, "%s: not defined\n", name)
		if err != nil {
			return err
		}
		return sink.Flush()
	}
	text, err := idx.EntryText(a.EntryID)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(sink, text); err != nil {
		return err
	}
	return sink.Flush()
}
