// Package indexer drives the batch indexing pipeline: it walks a BibTeX
// source with internal/lexer, dispatches extracted words into per-field
// dictionaries, resolves @string abbreviations, and assembles the
// in-memory structures that internal/sidecar then serializes.
package indexer

import (
	"fmt"
	"io"
	"sort"

	"github.com/biblook/go-biblook/internal/abbrev"
	"github.com/biblook/go-biblook/internal/bibword"
	"github.com/biblook/go-biblook/internal/dict"
	"github.com/biblook/go-biblook/internal/lexer"
	"github.com/biblook/go-biblook/internal/session"
)

// StringField is the synthetic field name under which @string expansion
// words are indexed, so "find @string fast" locates macro definitions.
const StringField = "@string"

// Options configures a single indexing run.
type Options struct {
	// IgnoreFields marks these field names as black holes: their
	// insertions are discarded entirely.
	IgnoreFields []string
	// WithJournalAbbrevs seeds a journal-name abbreviation set in addition
	// to the built-in month names.
	WithJournalAbbrevs bool
	// WithPrefilter builds the xxhash existence prefilter alongside the
	// field dictionaries.
	WithPrefilter bool
}

// Result is everything the sidecar writer needs.
type Result struct {
	EntryOffsets []int64
	Fields       *dict.FieldTable
	Abbrevs      *abbrev.Table
	Prefilter    *Prefilter // nil unless Options.WithPrefilter
	EntryCount   int
	WordCount    int
}

// Run scans src (an io.Reader positioned at the start of the BibTeX file)
// and returns the populated indexing result.
func Run(src io.Reader, opts Options, sess *session.Session) (*Result, error) {
	l := lexer.New(src)
	ft := dict.NewFieldTable()
	abbrevs := abbrev.NewTable()
	abbrevs.SeedBuiltins()
	if opts.WithJournalAbbrevs {
		seedJournalAbbrevs(abbrevs)
	}
	for _, name := range opts.IgnoreFields {
		if err := ft.MarkBlackHole(name); err != nil {
			return nil, &session.FatalError{Err: err}
		}
	}

	var pf *prefilterBuilder
	if opts.WithPrefilter {
		pf = NewPrefilterBuilder()
	}

	res := &Result{Fields: ft, Abbrevs: abbrevs}

	for {
		entryOffset, err := l.FindNextEntry()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &session.FatalError{Err: fmt.Errorf("indexer: scanning for next entry: %w", err)}
		}

		kind, open, err := l.ReadEntryKind()
		if err != nil {
			if sess != nil {
				sess.Warn("malformed entry header: %v", err)
			}
			if err := l.SkipToNextAt(); err != nil {
				if err == io.EOF {
					break
				}
				return nil, &session.FatalError{Err: err}
			}
			continue
		}

		switch kind {
		case lexer.KindComment:
			// Do nothing [bibtex.web 241]: the opening delimiter was
			// deliberately left unconsumed, and the next FindNextEntry
			// call resynchronizes at the next blank-line boundary.

		case lexer.KindPreamble:
			if err := l.SkipPreamble(); err != nil {
				return nil, &session.FatalError{Err: err}
			}

		case lexer.KindString:
			name, parts, err := l.ReadStringDef(open)
			if err != nil {
				if sess != nil {
					sess.Warn("malformed @string definition: %v", err)
				}
				if err := l.SkipToNextAt(); err != nil {
					if err == io.EOF {
						goto done
					}
					return nil, &session.FatalError{Err: err}
				}
				continue
			}
			// A @string definition occupies an entry id of its own, so the
			// lookup engine's whatis command can seek to and display it.
			entryID := uint32(len(res.EntryOffsets))
			res.EntryOffsets = append(res.EntryOffsets, entryOffset)
			expansion := expandParts(parts, abbrevs, sess)
			if redefined := abbrevs.Define(name, entryID, expansion); redefined && sess != nil {
				sess.Warn("abbreviation %q redefined", name)
			}
			sd, err := ft.Field(StringField)
			if err != nil {
				return nil, &session.FatalError{Err: err}
			}
			for _, w := range expansion {
				indexLiteral(sd, w, entryID, pf, sess, &res.WordCount)
			}
			if sess != nil && sess.Metrics != nil {
				sess.Metrics.AbbrevsIndexed.Inc()
			}

		case lexer.KindReal:
			entry, err := l.ReadRealEntry(open)
			if err != nil {
				if sess != nil {
					sess.Warn("malformed entry: %v", err)
				}
				if err := l.SkipToNextAt(); err != nil {
					if err == io.EOF {
						goto done
					}
					return nil, &session.FatalError{Err: err}
				}
				continue
			}
			entryID := uint32(len(res.EntryOffsets))
			res.EntryOffsets = append(res.EntryOffsets, entryOffset)
			if err := indexEntry(ft, abbrevs, entry, entryID, pf, sess, &res.WordCount); err != nil {
				return nil, err
			}
			if sess != nil && sess.Metrics != nil {
				sess.Metrics.EntriesIndexed.Inc()
			}
		}
	}
done:
	res.EntryCount = len(res.EntryOffsets)
	if pf != nil {
		res.Prefilter = pf.Build()
	}
	return res, nil
}

func indexEntry(ft *dict.FieldTable, abbrevs *abbrev.Table, entry lexer.Entry, entryID uint32, pf *prefilterBuilder, sess *session.Session, wordCount *int) error {
	for _, f := range entry.Fields {
		d, err := ft.Field(f.Name)
		if err != nil {
			return &session.FatalError{Err: err}
		}
		for _, part := range f.Parts {
			switch part.Kind {
			case lexer.PartQuoted:
				if sess != nil {
					for i := 0; i < len(part.Raw); i++ {
						if part.Raw[i] >= 0x80 {
							sess.Warn("non-ascii byte 0x%02x in field %q, ignoring", part.Raw[i], f.Name)
							break
						}
					}
				}
				for _, w := range lexer.ExtractWords([]byte(part.Raw)) {
					indexWord(d, w, entryID, pf, sess, wordCount)
				}
			case lexer.PartDigits:
				indexLiteral(d, part.Raw, entryID, pf, sess, wordCount)
			case lexer.PartIdent:
				indexLiteral(d, part.Raw, entryID, pf, sess, wordCount)
				if a, ok := abbrevs.Lookup(part.Raw); ok {
					if a.EntryID == abbrev.IndexNAN && sess != nil {
						sess.Warn("undefined abbreviation %q referenced", part.Raw)
					}
					for _, w := range a.Expansion {
						indexLiteral(d, w, entryID, pf, sess, wordCount)
					}
				} else {
					abbrevs.Reference(part.Raw)
					if sess != nil {
						sess.Warn("undefined abbreviation %q referenced", part.Raw)
					}
				}
			}
		}
	}
	return nil
}

func indexWord(d *dict.Dictionary, w lexer.Word, entryID uint32, pf *prefilterBuilder, sess *session.Session, wordCount *int) {
	for _, c := range w.Components {
		if len(c) > bibword.MaxWord && sess != nil {
			sess.Warn("word truncated: %q", c)
		}
		indexLiteral(d, c, entryID, pf, sess, wordCount)
	}
	if len(w.Components) > 1 {
		joined := w.Joined()
		if len(joined) > bibword.MaxString {
			if sess != nil {
				sess.Warn("compound word truncated: %q", joined)
			}
			joined = joined[:bibword.MaxString]
		}
		indexLiteral(d, joined, entryID, pf, sess, wordCount)
	}
}

func indexLiteral(d *dict.Dictionary, word string, entryID uint32, pf *prefilterBuilder, sess *session.Session, wordCount *int) {
	if !bibword.IsIndexable(word) {
		return
	}
	d.Insert(word, entryID)
	if pf != nil {
		pf.Add(bibword.Truncate(word))
	}
	*wordCount++
	if sess != nil && sess.Metrics != nil {
		sess.Metrics.WordsIndexed.Inc()
	}
}

// expandParts resolves a @string value's parts into the flat list of
// expansion words stored against the abbreviation.
func expandParts(parts []lexer.FieldPart, abbrevs *abbrev.Table, sess *session.Session) []string {
	var out []string
	for _, part := range parts {
		switch part.Kind {
		case lexer.PartQuoted:
			for _, w := range lexer.ExtractWords([]byte(part.Raw)) {
				out = append(out, w.Components...)
				if len(w.Components) > 1 {
					out = append(out, w.Joined())
				}
			}
		case lexer.PartDigits:
			out = append(out, part.Raw)
		case lexer.PartIdent:
			if a, ok := abbrevs.Lookup(part.Raw); ok {
				out = append(out, a.Expansion...)
			} else if sess != nil {
				sess.Warn("undefined abbreviation %q referenced in @string expansion", part.Raw)
			}
		}
	}
	return out
}

func seedJournalAbbrevs(t *abbrev.Table) {
	// A short, representative set; operators extend this via their own
	// @string definitions in the source file, which simply override these.
	journals := map[string]string{
		"cacm": "communications of the acm",
		"jacm": "journal of the acm",
		"focs": "ieee symposium on foundations of computer science",
		"stoc": "acm symposium on theory of computing",
		"soda": "acm-siam symposium on discrete algorithms",
		"tcs":  "theoretical computer science",
	}
	names := make([]string, 0, len(journals))
	for k := range journals {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Define(name, abbrev.IndexBuiltin, splitWords(journals[name]))
	}
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	return out
}
