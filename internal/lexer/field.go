package lexer

import (
	"fmt"

	"github.com/biblook/go-biblook/internal/bibword"
)

// PartKind distinguishes the three forms a field-value fragment can take.
type PartKind int

const (
	// PartQuoted is a brace- or quote-delimited string; Raw holds the
	// content between the delimiters for word extraction via ExtractWords.
	PartQuoted PartKind = iota
	// PartDigits is a bare digit run, indexed as a single literal word.
	PartDigits
	// PartIdent is a bare identifier: a reference to an abbreviation,
	// resolved by the caller against the abbreviation table.
	PartIdent
)

// FieldPart is one '#'-concatenated fragment of a field value.
type FieldPart struct {
	Kind PartKind
	Raw  string
}

// ReadFieldValue reads a complete field value: one or more parts joined by
// '#', terminated by ',' or closeDelim at depth 0.
func (l *Lexer) ReadFieldValue(closeDelim byte) ([]FieldPart, error) {
	var parts []FieldPart
	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		b, err := l.readByte()
		if err != nil {
			return nil, err
		}
		switch {
		case b == '"':
			raw, err := l.readQuoted()
			if err != nil {
				return nil, err
			}
			parts = append(parts, FieldPart{Kind: PartQuoted, Raw: raw})
		case b == '{':
			raw, err := l.readBraced()
			if err != nil {
				return nil, err
			}
			parts = append(parts, FieldPart{Kind: PartQuoted, Raw: raw})
		case bibword.IsDigit(b):
			l.unreadByte()
			digits, err := l.readDigitRun()
			if err != nil {
				return nil, err
			}
			parts = append(parts, FieldPart{Kind: PartDigits, Raw: digits})
		case bibword.IsKeyChar(b):
			l.unreadByte()
			ident, err := l.readIdentifier()
			if err != nil {
				return nil, err
			}
			parts = append(parts, FieldPart{Kind: PartIdent, Raw: ident})
		default:
			return nil, fmt.Errorf("%w: unexpected byte %q in field value at line %d", ErrSkipEntry, b, l.line)
		}

		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		b, err = l.readByte()
		if err != nil {
			return nil, err
		}
		if b == '#' {
			continue
		}
		if b == ',' || b == closeDelim {
			l.unreadByte()
			return parts, nil
		}
		return nil, fmt.Errorf("%w: unexpected byte %q after field value at line %d", ErrSkipEntry, b, l.line)
	}
}

// readQuoted reads the content of a "..."-delimited string: braces nest and
// suspend the quote-termination rule, matching the word scanner's own
// brace-depth tracking.
func (l *Lexer) readQuoted() (string, error) {
	var buf []byte
	depth := 0
	for {
		b, err := l.readByte()
		if err != nil {
			return "", err
		}
		if b == '"' && depth == 0 {
			return string(buf), nil
		}
		if b == '{' {
			depth++
		} else if b == '}' {
			depth--
		}
		buf = append(buf, b)
	}
}

// readBraced reads the content of a balanced {...} group.
func (l *Lexer) readBraced() (string, error) {
	var buf []byte
	depth := 0
	for {
		b, err := l.readByte()
		if err != nil {
			return "", err
		}
		if b == '}' && depth == 0 {
			return string(buf), nil
		}
		if b == '{' {
			depth++
		} else if b == '}' {
			depth--
		}
		buf = append(buf, b)
	}
}

func (l *Lexer) readDigitRun() (string, error) {
	var buf []byte
	for {
		b, err := l.readByte()
		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		if !bibword.IsDigit(b) {
			l.unreadByte()
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}
