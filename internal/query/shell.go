package query

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biblook/go-biblook/internal/bitset"
)

// ErrQuit is returned by Shell.Execute when the user issues the "quit"
// command; Shell.Run treats it as a normal end and returns nil.
var ErrQuit = errors.New("query: quit")

const shortHelp = `find [not] <field> <word>...    search one field, optionally negated
and/or <field> <word>...        combine with the running result
display                         show the running result
save [<file>]                   append the running result to a file
whatis <abbrev>                 look up an @string abbreviation
help                             show this message (twice for verbose help)
quit                             exit`

const longHelp = shortHelp + `

<field> is a prefix of a field name (author, title, ...), or "-" for all
fields. A <word> may contain "*" (any run, possibly empty) or "?" (exactly
one character) as wildcards, or end in "*" to mean "prefix of". Multiple
words after one field are unioned together; field/word groups are combined
left to right with "and"/"&" (binds tighter) and "or"/"|" (binds looser),
each optionally preceded by "not"/"~"/"!". Statements on one line may be
separated by ";".`

// Shell drives the interactive command loop: Wait/Find/Display/Save/Whatis
// states collapse into one line-oriented dispatcher per clause (clauses
// within a line are separated by ';'), since each clause's query grammar is
// itself already a complete state machine handled by EvalQuery.
type Shell struct {
	idx       *Index
	result    *bitset.Set
	out       Sink
	saveFile  string
	helpShown int
}

// NewShell constructs a Shell over idx, writing command output to out.
func NewShell(idx *Index, out Sink) *Shell {
	return &Shell{idx: idx, result: bitset.New(idx.Universe()), out: out, saveFile: "save.bib"}
}

// SetDefaultSaveFile changes the file "save" writes to when no filename
// argument is given (biblook's <savefile> command-line argument).
func (sh *Shell) SetDefaultSaveFile(path string) {
	if path != "" {
		sh.saveFile = path
	}
}

// Run reads lines from r (typically os.Stdin) with its own bufio.Scanner
// until ErrQuit or the reader is exhausted.
func (sh *Shell) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := sh.Execute(sc.Text()); err != nil {
			if err == ErrQuit {
				return nil
			}
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
	return sc.Err()
}

// Execute runs every ';'-separated clause of one input line.
func (sh *Shell) Execute(line string) error {
	for _, clause := range strings.Split(line, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if err := sh.executeClause(clause); err != nil {
			return err
		}
	}
	return nil
}

func (sh *Shell) executeClause(clause string) error {
	fields := strings.Fields(clause)
	if len(fields) == 0 {
		return nil
	}
	if fields[0] == "?" {
		fields[0] = "help"
	}
	cmd, matched := matchCommand(fields[0])
	rest := strings.Join(fields[1:], " ")

	switch cmd {
	case cmdQuit:
		return ErrQuit
	case cmdFind:
		r, err := sh.idx.EvalQuery(rest)
		if err != nil {
			fmt.Fprintln(sh.out, "find:", err)
			return nil
		}
		sh.result = r
		return nil
	case cmdAnd:
		r, err := sh.idx.EvalQuery(rest)
		if err != nil {
			fmt.Fprintln(sh.out, "and:", err)
			return nil
		}
		out := bitset.New(sh.idx.Universe())
		out.Intersect(sh.result, r)
		sh.result = out
		return nil
	case cmdOr:
		r, err := sh.idx.EvalQuery(rest)
		if err != nil {
			fmt.Fprintln(sh.out, "or:", err)
			return nil
		}
		out := bitset.New(sh.idx.Universe())
		out.Union(sh.result, r)
		sh.result = out
		return nil
	case cmdDisplay:
		n, err := sh.idx.Display(sh.result, sh.out)
		if err != nil {
			fmt.Fprintln(sh.out, "display:", err)
			return nil
		}
		fmt.Fprintf(sh.out, "%d entries\n", n)
		return nil
	case cmdSave:
		file := sh.saveFile
		if len(fields) > 1 {
			file = fields[1]
		}
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(sh.out, "save:", err)
			return nil
		}
		defer f.Close()
		sink := NewWriterSink(f)
		n, err := sh.idx.Display(sh.result, sink)
		if err != nil {
			fmt.Fprintln(sh.out, "save:", err)
			return nil
		}
		fmt.Fprintf(sh.out, "%d entries written to %s\n", n, file)
		return nil
	case cmdWhatis:
		if len(fields) < 2 {
			fmt.Fprintln(sh.out, "whatis: missing abbreviation name")
			return nil
		}
		if err := sh.idx.Whatis(fields[1], sh.out); err != nil {
			fmt.Fprintln(sh.out, "whatis:", err)
		}
		return nil
	case cmdHelp:
		if sh.helpShown == 0 {
			fmt.Fprintln(sh.out, shortHelp)
		} else {
			fmt.Fprintln(sh.out, longHelp)
		}
		sh.helpShown++
		return nil
	default:
		if !matched {
			fmt.Fprintf(sh.out, "unrecognized command %q (try \"help\")\n", fields[0])
		}
		return nil
	}
}

type command int

const (
	cmdUnknown command = iota
	cmdFind
	cmdAnd
	cmdOr
	cmdDisplay
	cmdSave
	cmdWhatis
	cmdHelp
	cmdQuit
)

var commandNames = []struct {
	name string
	cmd  command
}{
	{"find", cmdFind},
	{"and", cmdAnd},
	{"or", cmdOr},
	{"display", cmdDisplay},
	{"save", cmdSave},
	{"whatis", cmdWhatis},
	{"help", cmdHelp},
	{"quit", cmdQuit},
}

// matchCommand resolves tok as an unambiguous prefix of a command word, the
// same abbreviation convention the reference shell accepts.
func matchCommand(tok string) (command, bool) {
	tok = strings.ToLower(tok)
	for _, c := range commandNames {
		if strings.HasPrefix(c.name, tok) {
			return c.cmd, true
		}
	}
	return cmdUnknown, false
}
