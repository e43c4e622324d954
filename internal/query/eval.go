package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/biblook/go-biblook/internal/bitset"
)

// tokenType enumerates the query language's lexical categories, mirroring
// the teacher's small Token/TokenType shape rather than hand-rolled
// lookahead over the raw line.
type tokenType int

const (
	tokEOF tokenType = iota
	tokAnd
	tokOr
	tokNot
	tokSemi
	tokWord
)

// token2 is one lexed unit. Raw slices into the original line rather than
// allocating a fresh string per token.
type token2 struct {
	typ tokenType
	raw string
}

// tokenizeLine splits one query-language statement line into tokens on
// whitespace, recognizing the combinator keywords/symbols and treating
// everything else as a plain word (field prefix or pattern). A leading '~'
// or '!' attached to a word ("~t") is split off as its own negation token.
func tokenizeLine(line string) []token2 {
	var toks []token2
	for _, f := range strings.Fields(line) {
		for len(f) > 0 {
			if strings.HasPrefix(f, ";") {
				toks = append(toks, token2{tokSemi, ";"})
				f = f[1:]
				continue
			}
			if len(f) > 1 && (f[0] == '~' || f[0] == '!') {
				toks = append(toks, token2{tokNot, f[:1]})
				f = f[1:]
				continue
			}
			switch f {
			case "&", "and":
				toks = append(toks, token2{tokAnd, f})
			case "|", "or":
				toks = append(toks, token2{tokOr, f})
			case "~", "!", "not":
				toks = append(toks, token2{tokNot, f})
			default:
				toks = append(toks, token2{tokWord, f})
			}
			f = ""
		}
	}
	toks = append(toks, token2{tokEOF, ""})
	return toks
}

// parser walks a token stream implementing not > and > or precedence,
// following the teacher's left-to-right precedence-climbing shape.
type parser struct {
	toks []token2
	pos  int
	idx  *Index
}

func (p *parser) peek() token2 { return p.toks[p.pos] }
func (p *parser) next() token2 {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// EvalQuery parses and evaluates one query-language statement (the part of
// a line up to a ';' or end of line) against the index, returning the
// resulting entry-id bitset.
func (idx *Index) EvalQuery(line string) (*bitset.Set, error) {
	if idx.metric != nil {
		start := time.Now()
		defer func() { idx.metric.QueryLatency.Observe(time.Since(start).Seconds()) }()
	}
	p := &parser{toks: tokenizeLine(line), idx: idx}
	result, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF && p.peek().typ != tokSemi {
		return nil, fmt.Errorf("query: unexpected token %q", p.peek().raw)
	}
	return result, nil
}

func (p *parser) parseOr() (*bitset.Set, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		out := bitset.New(p.idx.Universe())
		out.Union(left, right)
		left = out
	}
	return left, nil
}

func (p *parser) parseAnd() (*bitset.Set, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		out := bitset.New(p.idx.Universe())
		out.Intersect(left, right)
		left = out
	}
	return left, nil
}

func (p *parser) parseUnary() (*bitset.Set, error) {
	negate := false
	if p.peek().typ == tokNot {
		p.next()
		negate = true
	}
	r, err := p.parsePrimitive()
	if err != nil {
		return nil, err
	}
	if negate {
		out := bitset.New(p.idx.Universe())
		out.Complement(r)
		r = out
	}
	return r, nil
}

func (p *parser) parsePrimitive() (*bitset.Set, error) {
	field := p.next()
	if field.typ != tokWord {
		return nil, fmt.Errorf("query: expected field prefix, got %q", field.raw)
	}
	var patterns []string
	for p.peek().typ == tokWord {
		patterns = append(patterns, p.next().raw)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("query: field %q has no pattern", field.raw)
	}
	return p.idx.Search(field.raw, patterns)
}
