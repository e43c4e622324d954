package sidecar

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header is the parsed ASCII header line.
type Header struct {
	Version int
	Major   int
	Minor   int
	CTime   int64
}

// WordEntry is one word's posting-list location within the sidecar file,
// left uncompressed/undecoded until the cache faults it in.
type WordEntry struct {
	Word         string
	PostingCount int
	ByteLen      int
	Offset       int64 // absolute file offset of the compressed posting bytes
}

// FieldEntry is one field's sorted word list.
type FieldEntry struct {
	Name  string
	Words []WordEntry
}

// AbbrevEntry is one abbreviation's name and defining-entry sentinel.
type AbbrevEntry struct {
	Name    string
	EntryID uint32
}

// Sidecar is the fully parsed (but lazily-postinged) .bix file.
type Sidecar struct {
	Header          Header
	EntryOffsets    []int64
	Fields          []FieldEntry
	Abbrevs         []AbbrevEntry
	PrefilterHashes []uint64 // nil if the sidecar has no prefilter section

	ra io.ReaderAt
}

// FetchPostings reads a word's compressed posting bytes from the
// underlying file, one allocation per call; callers needing caching should
// go through internal/cache.Cache instead of calling this directly on a
// hot path.
func (s *Sidecar) FetchPostings(w WordEntry) ([]byte, error) {
	buf := make([]byte, w.ByteLen)
	if _, err := s.ra.ReadAt(buf, w.Offset); err != nil {
		return nil, fmt.Errorf("sidecar: reading postings for %q: %w", w.Word, err)
	}
	return buf, nil
}

// reader is a minimal cursor over an io.ReaderAt that tracks the exact
// logical byte offset of the next unread byte — unlike bufio.Reader, which
// would prefetch ahead of the offsets callers need to record for lazy
// posting lookups.
type reader struct {
	ra  io.ReaderAt
	pos int64
}

func (r *reader) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := io.ReadFull(io.NewSectionReader(r.ra, r.pos, int64(n)), buf); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

func (r *reader) readByte() (byte, error) {
	buf, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *reader) readLine() (string, error) {
	var buf []byte
	for {
		b, err := r.readByte()
		if err != nil {
			return string(buf), err
		}
		buf = append(buf, b)
		if b == '\n' {
			return string(buf), nil
		}
	}
}

func (r *reader) readU16() (uint16, error) {
	buf, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (r *reader) readU32() (uint32, error) {
	buf, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (r *reader) readU64() (uint64, error) {
	buf, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func (r *reader) readPString() (string, error) {
	n, err := r.readByte()
	if err != nil {
		return "", err
	}
	if int(n) > MaxFieldNameLen {
		return "", fmt.Errorf("sidecar: pstring length %d exceeds %d bytes (corrupt file)", n, MaxFieldNameLen)
	}
	buf, err := r.read(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (r *reader) skip(n int) error {
	r.pos += int64(n)
	return nil
}

// Load parses a complete sidecar file from ra, which also serves as the
// random-access source for later lazy posting reads.
func Load(ra io.ReaderAt) (*Sidecar, error) {
	r := &reader{ra: ra}

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if header.Version != FileVersion {
		return nil, fmt.Errorf("sidecar: unsupported file version %d (expected %d)", header.Version, FileVersion)
	}

	s := &Sidecar{Header: header, ra: ra}

	numEntries, err := r.readU32()
	if err != nil {
		return nil, err
	}
	s.EntryOffsets = make([]int64, numEntries)
	for i := range s.EntryOffsets {
		off, err := r.readU32()
		if err != nil {
			return nil, err
		}
		s.EntryOffsets[i] = int64(off)
	}

	numFields, err := r.readU16()
	if err != nil {
		return nil, err
	}
	fieldNames := make([]string, numFields)
	for i := range fieldNames {
		name, err := r.readPString()
		if err != nil {
			return nil, err
		}
		fieldNames[i] = name
	}

	s.Fields = make([]FieldEntry, numFields)
	for i, name := range fieldNames {
		numWords, err := r.readU32()
		if err != nil {
			return nil, err
		}
		fe := FieldEntry{Name: name, Words: make([]WordEntry, numWords)}
		for j := range fe.Words {
			word, err := r.readPString()
			if err != nil {
				return nil, err
			}
			postingCount, err := r.readU16()
			if err != nil {
				return nil, err
			}
			byteLen, err := r.readU16()
			if err != nil {
				return nil, err
			}
			offset := r.pos
			if err := r.skip(int(byteLen)); err != nil {
				return nil, err
			}
			fe.Words[j] = WordEntry{
				Word:         word,
				PostingCount: int(postingCount),
				ByteLen:      int(byteLen),
				Offset:       offset,
			}
		}
		s.Fields[i] = fe
	}

	numAbbrevs, err := r.readU32()
	if err != nil {
		return nil, err
	}
	names := make([]string, numAbbrevs)
	for i := range names {
		name, err := r.readPString()
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	s.Abbrevs = make([]AbbrevEntry, numAbbrevs)
	for i, name := range names {
		id, err := r.readU32()
		if err != nil {
			return nil, err
		}
		s.Abbrevs[i] = AbbrevEntry{Name: name, EntryID: id}
	}

	hasPrefilter, err := r.readByte()
	if err != nil {
		if err == io.EOF {
			return s, nil
		}
		return nil, err
	}
	if hasPrefilter == 1 {
		count, err := r.readU32()
		if err != nil {
			return nil, err
		}
		hashes := make([]uint64, count)
		for i := range hashes {
			h, err := r.readU64()
			if err != nil {
				return nil, err
			}
			hashes[i] = h
		}
		s.PrefilterHashes = hashes
	}

	return s, nil
}

func readHeader(r *reader) (Header, error) {
	line, err := r.readLine()
	if err != nil && err != io.EOF {
		return Header{}, err
	}
	var magic string
	var h Header
	n, scanErr := fmt.Sscanf(line, "%s %d %d %d %d", &magic, &h.Version, &h.Major, &h.Minor, &h.CTime)
	if scanErr != nil || n != 5 || magic != headerMagic {
		return Header{}, fmt.Errorf("sidecar: malformed header line %q", line)
	}
	return h, nil
}
