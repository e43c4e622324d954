// Package abbrev implements the @string abbreviation table: macro names
// mapped to their defining entry (or a sentinel for built-in / undefined)
// and to their expansion's word sequence.
package abbrev

import (
	"sort"

	"github.com/biblook/go-biblook/internal/bibword"
)

// Sentinels for an abbreviation's defining entry id, matching the sidecar
// format's INDEX_BUILTIN / INDEX_NAN values (biblook.h).
const (
	IndexNAN     = ^uint32(0)     // 2^32 - 1: undefined / forward-referenced
	IndexBuiltin = ^uint32(0) - 1 // 2^32 - 2: built-in, no source entry
)

// Abbrev is a single @string definition.
type Abbrev struct {
	Name      string
	EntryID   uint32 // IndexNAN or IndexBuiltin, or a real entry id
	Expansion []string
}

// Table is the abbreviation dictionary built during indexing and reloaded
// from the sidecar for lookup.
type Table struct {
	byName map[string]*Abbrev
	names  []string
}

// NewTable returns an empty abbreviation table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Abbrev)}
}

// monthNames are the built-in month abbreviations seeded at indexer
// start-up, matching the original's compiled-in month macros.
var monthNames = []struct{ name, expansion string }{
	{"jan", "january"}, {"feb", "february"}, {"mar", "march"},
	{"apr", "april"}, {"may", "may"}, {"jun", "june"},
	{"jul", "july"}, {"aug", "august"}, {"sep", "september"},
	{"oct", "october"}, {"nov", "november"}, {"dec", "december"},
}

// SeedBuiltins registers the built-in month abbreviations.
func (t *Table) SeedBuiltins() {
	for _, m := range monthNames {
		t.byName[m.name] = &Abbrev{Name: m.name, EntryID: IndexBuiltin, Expansion: []string{m.expansion}}
		t.names = append(t.names, m.name)
	}
}

// Define records a new @string definition at entryID. If name was already
// referenced before being defined (a forward reference recorded with
// IndexNAN), the expansion and entry id are filled in without disturbing
// name ordering. Returns true if this redefines an already-defined
// abbreviation (a caller warning condition).
func (t *Table) Define(name string, entryID uint32, expansion []string) (redefined bool) {
	name = bibword.Truncate(name)
	if a, ok := t.byName[name]; ok {
		redefined = a.EntryID != IndexNAN
		a.EntryID = entryID
		a.Expansion = expansion
		return redefined
	}
	t.byName[name] = &Abbrev{Name: name, EntryID: entryID, Expansion: expansion}
	t.names = append(t.names, name)
	return false
}

// Reference records a use of name before (or without) a defining @string,
// so Whatis can still report "not defined" rather than "unknown".
func (t *Table) Reference(name string) *Abbrev {
	name = bibword.Truncate(name)
	if a, ok := t.byName[name]; ok {
		return a
	}
	a := &Abbrev{Name: name, EntryID: IndexNAN}
	t.byName[name] = a
	t.names = append(t.names, name)
	return a
}

// Lookup returns the abbreviation registered for name, if any.
func (t *Table) Lookup(name string) (*Abbrev, bool) {
	a, ok := t.byName[bibword.Truncate(name)]
	return a, ok
}

// SortedNames returns every abbreviation name in lexicographic order,
// matching the sidecar's stored ordering.
func (t *Table) SortedNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	sort.Strings(names)
	return names
}

// Len returns the number of distinct abbreviation names.
func (t *Table) Len() int { return len(t.names) }
