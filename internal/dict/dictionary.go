// Package dict implements the open-addressed, double-hashed, growable word
// dictionary that backs each per-field index, plus the field table that
// maps field names to their dictionaries.
package dict

import (
	"sort"

	"github.com/biblook/go-biblook/internal/bibword"
)

// hashConst is the multiplier used by the word hash: h = h*hashConst + b.
const hashConst = 1482907

const initialTableSize = 256

// loadFactorResizeNum/Den: resize when occupancy reaches 15/16.
const loadFactorResizeNum = 15
const loadFactorResizeDen = 16

type slot struct {
	occupied bool
	word     string
	postings []uint32
}

// Dictionary is an open-addressed hash table from truncated Word to posting
// list, matching the original's double-hash probing and growth-by-doubling
// scheme.
type Dictionary struct {
	slots     []slot
	count     int
	arena     arena
	blackHole bool
}

// NewDictionary allocates an empty, growable dictionary.
func NewDictionary() *Dictionary {
	d := &Dictionary{slots: make([]slot, initialTableSize)}
	d.arena.init()
	return d
}

// NewBlackHole returns a dictionary that silently discards every insertion,
// used for fields the caller has asked to ignore.
func NewBlackHole() *Dictionary {
	return &Dictionary{blackHole: true}
}

// IsBlackHole reports whether d discards insertions.
func (d *Dictionary) IsBlackHole() bool { return d.blackHole }

// hashWord computes the dictionary's primary hash and skip value over the
// truncated word, per the original algorithm: h <- h*hashConst + b for each
// byte up to the truncation bound, with skip seeded at 1 and accumulated as
// s <- s + 2*h. The seed keeps the stride odd, so the probe sequence visits
// every slot of the power-of-two table.
func hashWord(word string) (h uint32, skip uint32) {
	skip = 1
	w := bibword.Truncate(word)
	for i := 0; i < len(w); i++ {
		h = h*hashConst + uint32(w[i])
		skip += 2 * h
	}
	return h, skip
}

func truncEqual(a, b string) bool {
	return bibword.Truncate(a) == bibword.Truncate(b)
}

// find returns the slot index for word: either the occupied slot holding it,
// or the first empty slot on its probe sequence.
func (d *Dictionary) find(word string) int {
	n := uint32(len(d.slots))
	h, skip := hashWord(word)
	idx := h % n
	for {
		s := &d.slots[idx]
		if !s.occupied {
			return int(idx)
		}
		if truncEqual(s.word, word) {
			return int(idx)
		}
		idx = (idx + skip) % n
	}
}

// Insert appends entryID to word's posting list, creating the word's slot if
// necessary. Matches the original's dedup-by-last-id rule: consecutive
// inserts of the same entry id for the same word are no-ops.
func (d *Dictionary) Insert(word string, entryID uint32) {
	if d.blackHole {
		return
	}
	if d.count*loadFactorResizeDen >= len(d.slots)*loadFactorResizeNum {
		d.grow()
	}
	idx := d.find(word)
	s := &d.slots[idx]
	if !s.occupied {
		s.occupied = true
		s.word = bibword.Truncate(word)
		d.count++
	}
	if len(s.postings) > 0 && s.postings[len(s.postings)-1] == entryID {
		return
	}
	s.postings = d.arenaAppend(s.postings, entryID)
}

func (d *Dictionary) arenaAppend(s []uint32, v uint32) []uint32 {
	if len(s) < cap(s) {
		n := len(s)
		s = s[:n+1]
		s[n] = v
		return s
	}
	newCap := 4
	if c := cap(s); c > 0 {
		newCap = c * 2
	}
	ns := d.arena.allocUint32(newCap)[:len(s)]
	copy(ns, s)
	ns = ns[:len(s)+1]
	ns[len(s)] = v
	return ns
}

// grow doubles the table size and reinserts every occupied slot, discarding
// the old table and arena generation (old arena slabs become garbage once
// every posting list has been copied into the new one).
func (d *Dictionary) grow() {
	old := d.slots
	d.slots = make([]slot, len(old)*2)
	var newArena arena
	newArena.init()
	oldArena := d.arena
	d.arena = newArena
	d.count = 0
	for _, s := range old {
		if !s.occupied {
			continue
		}
		idx := d.find(s.word)
		ns := &d.slots[idx]
		ns.occupied = true
		ns.word = s.word
		cp := d.arena.allocUint32(len(s.postings))
		copy(cp, s.postings)
		ns.postings = cp
		d.count++
	}
	_ = oldArena // old arena and its slabs are now unreferenced garbage
}

// Lookup returns the posting list for word and whether it was found.
func (d *Dictionary) Lookup(word string) ([]uint32, bool) {
	if d.blackHole || d.count == 0 {
		return nil, false
	}
	idx := d.find(word)
	s := &d.slots[idx]
	if !s.occupied {
		return nil, false
	}
	return s.postings, true
}

// Len returns the number of distinct words stored.
func (d *Dictionary) Len() int { return d.count }

// SortedWords returns every stored word in lexicographic order, matching
// the sidecar writer's compaction-then-sort step.
func (d *Dictionary) SortedWords() []string {
	words := make([]string, 0, d.count)
	for _, s := range d.slots {
		if s.occupied {
			words = append(words, s.word)
		}
	}
	sort.Strings(words)
	return words
}
