package dict

import (
	"fmt"
	"sort"

	"github.com/biblook/go-biblook/internal/bibword"
)

// MaxFields bounds the number of distinct field names a single field table
// may hold; exceeding it is fatal (mirrors the original's fixed-capacity
// field table).
const MaxFields = 256

// FieldTable maps field names to their per-field Dictionary.
type FieldTable struct {
	order []string
	dicts map[string]*Dictionary
}

// NewFieldTable returns an empty field table.
func NewFieldTable() *FieldTable {
	return &FieldTable{dicts: make(map[string]*Dictionary)}
}

// Field returns the dictionary for name, creating a fresh (non-black-hole)
// one on first use. Returns an error if the table's fixed capacity would be
// exceeded.
func (ft *FieldTable) Field(name string) (*Dictionary, error) {
	name = bibword.Truncate(name)
	if d, ok := ft.dicts[name]; ok {
		return d, nil
	}
	if len(ft.order) >= MaxFields {
		return nil, fmt.Errorf("dict: field table capacity (%d) exceeded by field %q", MaxFields, name)
	}
	d := NewDictionary()
	ft.dicts[name] = d
	ft.order = append(ft.order, name)
	return d, nil
}

// MarkBlackHole forces name to discard all insertions from this point
// forward, creating the entry if it does not already exist.
func (ft *FieldTable) MarkBlackHole(name string) error {
	name = bibword.Truncate(name)
	if _, ok := ft.dicts[name]; ok {
		ft.dicts[name] = NewBlackHole()
		return nil
	}
	if len(ft.order) >= MaxFields {
		return fmt.Errorf("dict: field table capacity (%d) exceeded by field %q", MaxFields, name)
	}
	ft.dicts[name] = NewBlackHole()
	ft.order = append(ft.order, name)
	return nil
}

// SortedFieldNames returns every non-black-hole field name in lexicographic
// order, matching the sidecar's output ordering (black-hole fields are
// omitted from the sidecar entirely).
func (ft *FieldTable) SortedFieldNames() []string {
	names := make([]string, 0, len(ft.order))
	for _, n := range ft.order {
		if !ft.dicts[n].IsBlackHole() {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the dictionary registered for name, if any.
func (ft *FieldTable) Lookup(name string) (*Dictionary, bool) {
	d, ok := ft.dicts[bibword.Truncate(name)]
	return d, ok
}
