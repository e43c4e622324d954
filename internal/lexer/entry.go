package lexer

// Field is one parsed "name = value" pair of a real entry or a @string
// definition.
type Field struct {
	Name  string
	Parts []FieldPart
}

// Entry is a fully parsed real BibTeX entry (not @string/@comment/
// @preamble, which the caller handles separately via ReadEntryKind).
type Entry struct {
	Key    string
	Fields []Field
}

// ReadRealEntry reads a real entry's citation key and fields up to its
// close delimiter, which must match open ('{' with '}', '(' with ')').
func (l *Lexer) ReadRealEntry(open byte) (Entry, error) {
	closeDelim := matchingClose(open)
	key, err := l.ReadCitationKey()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Key: key}
	for {
		name, done, err := l.NextField(closeDelim)
		if err != nil {
			return Entry{}, err
		}
		if done {
			return e, nil
		}
		parts, err := l.ReadFieldValue(closeDelim)
		if err != nil {
			return Entry{}, err
		}
		e.Fields = append(e.Fields, Field{Name: name, Parts: parts})
	}
}

// ReadStringDef reads a @string{name = value} definition's name and parts.
func (l *Lexer) ReadStringDef(open byte) (name string, parts []FieldPart, err error) {
	closeDelim := matchingClose(open)
	name, err = l.readIdentifier()
	if err != nil {
		return "", nil, err
	}
	if err := l.skipSpace(); err != nil {
		return "", nil, err
	}
	eq, err := l.readByte()
	if err != nil {
		return "", nil, err
	}
	if eq != '=' {
		return "", nil, ErrSkipEntry
	}
	parts, err = l.ReadFieldValue(closeDelim)
	if err != nil {
		return "", nil, err
	}
	// consume trailing close delimiter
	if err := l.skipSpace(); err != nil {
		return "", nil, err
	}
	b, err := l.readByte()
	if err != nil {
		return "", nil, err
	}
	if b != closeDelim {
		return "", nil, ErrSkipEntry
	}
	l.NoteEntryClosed()
	return name, parts, nil
}

func matchingClose(open byte) byte {
	if open == '(' {
		return ')'
	}
	return '}'
}
