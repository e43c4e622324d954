package indexer

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Prefilter is a flat, sorted array of xxhash64 digests of every indexed
// word across every field, used by the lookup engine as a fast negative
// existence check ahead of the exact dictionary probe (modeled on the
// bucketed existence filter used elsewhere in the retrieval ecosystem).
// A miss here is authoritative (the word cannot be in any dictionary); a
// hit still requires the real dictionary lookup, since xxhash64 collisions
// are possible at this scale.
type Prefilter struct {
	hashes []uint64
}

// NewPrefilterBuilder returns an empty builder.
func NewPrefilterBuilder() *prefilterBuilder {
	return &prefilterBuilder{seen: make(map[uint64]struct{})}
}

type prefilterBuilder struct {
	seen   map[uint64]struct{}
	hashes []uint64
}

// Add records word's presence in the prefilter being built.
func (b *prefilterBuilder) Add(word string) {
	h := xxhash.Sum64String(word)
	if _, ok := b.seen[h]; ok {
		return
	}
	b.seen[h] = struct{}{}
	b.hashes = append(b.hashes, h)
}

// Build finalizes the prefilter with its hashes in ascending order, so
// MightContain can binary-search it and so the on-disk bytes are
// deterministic across repeated runs.
func (b *prefilterBuilder) Build() *Prefilter {
	sort.Slice(b.hashes, func(i, j int) bool { return b.hashes[i] < b.hashes[j] })
	return &Prefilter{hashes: b.hashes}
}

// MightContain reports whether word could be present. False is
// authoritative; true requires confirmation from the real dictionary.
func (p *Prefilter) MightContain(word string) bool {
	h := xxhash.Sum64String(word)
	i := sort.Search(len(p.hashes), func(i int) bool { return p.hashes[i] >= h })
	return i < len(p.hashes) && p.hashes[i] == h
}

// Hashes returns the sorted hash list for serialization.
func (p *Prefilter) Hashes() []uint64 { return p.hashes }

// NewPrefilterFromHashes reconstructs a Prefilter from a sorted hash list
// read back from the sidecar.
func NewPrefilterFromHashes(hashes []uint64) *Prefilter {
	return &Prefilter{hashes: hashes}
}
