package lexer

import "github.com/biblook/go-biblook/internal/bibword"

// Word is one logical word extracted from a field value: one or more
// components whose concatenation is the compound spelling. "half-space"
// has components half/space, "{van Dam}" van/dam, and "$\Omega(n\log n)$"
// omega/n/log/n; the indexer emits each component and, for compound words,
// the joined spelling too.
type Word struct {
	Components []string
}

// Joined returns the compound spelling: every component concatenated in
// order.
func (w Word) Joined() string {
	if len(w.Components) == 1 {
		return w.Components[0]
	}
	var buf []byte
	for _, c := range w.Components {
		buf = append(buf, c...)
	}
	return string(buf)
}

// ExtractWords scans raw (the content captured between a field value's
// outer quote or brace delimiters) and returns every word it contains,
// applying the brace/math/TeX-command/hyphen rules.
func ExtractWords(raw []byte) []Word {
	s := &wordState{raw: raw}
	var words []Word
	for {
		w, ok := s.next()
		if !ok {
			break
		}
		words = append(words, w)
	}
	return words
}

type wordState struct {
	raw        []byte
	pos        int
	braceDepth int
	mathMode   bool
}

func (s *wordState) peek() (byte, bool) {
	if s.pos >= len(s.raw) {
		return 0, false
	}
	return s.raw[s.pos], true
}

func (s *wordState) advance() (byte, bool) {
	b, ok := s.peek()
	if ok {
		s.pos++
	}
	return b, ok
}

// next returns the next logical word, or ok=false at end of input.
//
// Rules, matching the reference scanner byte for byte:
//   - letters fold to lower case, digits pass through;
//   - a backslash starts a TeX control sequence whose name is discarded
//     (math mode treats the backslash as a plain separator instead, so
//     \log becomes the component "log");
//   - whitespace inside braces separates components, except the single
//     space that terminates a control sequence, so "Erd{\H o}s" stays
//     one component while "{van Dam}" splits;
//   - a hyphen separates components, but a second consecutive hyphen ends
//     the word, so "18--21" is two words;
//   - in math mode any non-alphanumeric byte separates components;
//   - apostrophes and square brackets vanish;
//   - any other printable at depth 0 ends the word once it has content,
//     and is silently dropped inside braces.
func (s *wordState) next() (Word, bool) {
	var components []string
	var cur []byte

	flush := func() {
		if len(cur) > 0 {
			components = append(components, string(cur))
			cur = nil
		}
	}

	finish := func() (Word, bool) {
		flush()
		if len(components) > 0 {
			return Word{Components: components}, true
		}
		return Word{}, false
	}

	started := func() bool { return len(cur) > 0 || len(components) > 0 }

	for {
		b, ok := s.peek()
		if !ok {
			return finish()
		}

		switch {
		case bibword.IsLetter(b):
			s.advance()
			cur = append(cur, bibword.ToLower(b))

		case bibword.IsDigit(b):
			s.advance()
			cur = append(cur, b)

		case s.mathMode:
			s.advance()
			if b == '$' {
				s.mathMode = false
			} else {
				flush()
			}

		case b == '\\':
			s.advance()
			s.consumeTeXCommand()

		case b == '$':
			s.advance()
			s.mathMode = true

		case b == '{':
			s.advance()
			s.braceDepth++

		case b == '}':
			if s.braceDepth == 0 {
				return finish()
			}
			s.advance()
			s.braceDepth--

		case b == '\'' || b == '[' || b == ']' || b == '"':
			s.advance()
			// silently dropped

		case b == '-':
			s.advance()
			if len(cur) > 0 {
				flush()
			} else if len(components) > 0 && s.braceDepth == 0 {
				// a second consecutive hyphen: "18--21" is two words
				return finish()
			}

		case bibword.IsSpace(b):
			s.advance()
			if s.braceDepth > 0 {
				flush()
				continue
			}
			if started() {
				return finish()
			}
			// leading space before any word content: keep scanning

		case !bibword.IsASCII(b):
			// Non-ASCII byte: skipped with a warning upstream, acting as
			// a component separator.
			s.advance()
			flush()

		default:
			s.advance()
			if s.braceDepth == 0 && started() {
				return finish()
			}
			// other printables inside braces are removed outright
		}
	}
}

// consumeTeXCommand discards the control-sequence name following a
// backslash outside math mode, plus the single whitespace byte that
// terminates it, so the letters around an accent command run together
// ("Erd{\H o}s" -> "erdos"). A non-alphabetic byte after the backslash is
// a character escape (\&, \_) and is consumed as a literal to discard.
func (s *wordState) consumeTeXCommand() {
	b, ok := s.peek()
	if !ok {
		return
	}
	if !bibword.IsLetter(b) {
		s.advance()
		return
	}
	for {
		b, ok := s.peek()
		if !ok || !bibword.IsLetter(b) {
			break
		}
		s.advance()
	}
	if b, ok := s.peek(); ok && bibword.IsSpace(b) {
		s.advance()
	}
}
