package sidecar

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/varint"
)

// Write serializes res to w in the exact on-disk layout: an ASCII header
// line, the entry offset table, sorted field dictionaries with
// varint-compressed postings, the sorted abbreviation tables, and — when
// res.Prefilter is non-nil — a trailing existence-prefilter section.
// ctime is the header's timestamp field (the caller supplies it so the
// output is reproducible in tests).
func Write(w io.Writer, res *indexer.Result, ctime int64) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s %d %d %d %d\n", headerMagic, FileVersion, MajorVersion, MinorVersion, ctime); err != nil {
		return err
	}

	if err := writeU32(bw, uint32(len(res.EntryOffsets))); err != nil {
		return err
	}
	for _, off := range res.EntryOffsets {
		if err := writeU32(bw, uint32(off)); err != nil {
			return err
		}
	}

	fieldNames := res.Fields.SortedFieldNames()
	if len(fieldNames) > 0xffff {
		return fmt.Errorf("sidecar: %d fields exceeds u16 range", len(fieldNames))
	}
	if err := writeU16(bw, uint16(len(fieldNames))); err != nil {
		return err
	}
	for _, name := range fieldNames {
		if err := writePString(bw, name); err != nil {
			return err
		}
	}

	for _, name := range fieldNames {
		d, _ := res.Fields.Lookup(name)
		words := d.SortedWords()
		if err := writeU32(bw, uint32(len(words))); err != nil {
			return err
		}
		for _, word := range words {
			postings, _ := d.Lookup(word)
			if err := writePString(bw, word); err != nil {
				return err
			}
			if len(postings) > 0xffff {
				return fmt.Errorf("sidecar: word %q has %d postings, exceeds u16 range", word, len(postings))
			}
			compressed := varint.Encode(nil, postings)
			if len(compressed) > 0xffff {
				return fmt.Errorf("sidecar: word %q compressed postings exceed u16 byte range", word)
			}
			if err := writeU16(bw, uint16(len(postings))); err != nil {
				return err
			}
			if err := writeU16(bw, uint16(len(compressed))); err != nil {
				return err
			}
			if _, err := bw.Write(compressed); err != nil {
				return err
			}
		}
	}

	names := res.Abbrevs.SortedNames()
	if err := writeU32(bw, uint32(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		if err := writePString(bw, name); err != nil {
			return err
		}
	}
	for _, name := range names {
		a, _ := res.Abbrevs.Lookup(name)
		if err := writeU32(bw, a.EntryID); err != nil {
			return err
		}
	}

	if res.Prefilter != nil {
		if err := bw.WriteByte(1); err != nil {
			return err
		}
		hashes := res.Prefilter.Hashes()
		if err := writeU32(bw, uint32(len(hashes))); err != nil {
			return err
		}
		for _, h := range hashes {
			if err := writeU64(bw, h); err != nil {
				return err
			}
		}
	} else {
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writePString(w *bufio.Writer, s string) error {
	if len(s) > MaxFieldNameLen {
		return fmt.Errorf("sidecar: pstring %q exceeds %d bytes", s, MaxFieldNameLen)
	}
	if err := w.WriteByte(byte(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func writeU16(w *bufio.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU64(w *bufio.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
