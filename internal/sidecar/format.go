// Package sidecar implements the binary .bix format: an ASCII header line
// followed by entry offsets, per-field sorted word dictionaries with
// varint-compressed postings, sorted abbreviation tables, and an optional
// trailing existence-prefilter section, all multi-byte integers in network
// (big-endian) byte order.
package sidecar

const (
	// FileVersion is the only sidecar format version this package reads
	// or writes; any other value in the header is a hard error.
	FileVersion = 4
	// MajorVersion/MinorVersion are informational, carried through from
	// the writer to the header line and otherwise unchecked.
	MajorVersion = 2
	MinorVersion = 11

	headerMagic = "bibindex"

	// MaxFieldNameLen bounds a pstring field/word name; a larger stored
	// length indicates a corrupt file.
	MaxFieldNameLen = 31
)
