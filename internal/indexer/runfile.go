package indexer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/biblook/go-biblook/internal/session"
)

// progressReader wraps an *os.File and advances a progress bar by the
// number of bytes consumed so far, independent of how the lexer buffers
// its reads internally.
type progressReader struct {
	f   *os.File
	bar *progressbar.ProgressBar
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.f.Read(buf)
	if p.bar != nil && n > 0 {
		_ = p.bar.Add(n)
	}
	return n, err
}

// RunFile indexes the named .bib file, showing a progress bar when stdout
// is a terminal, and returns both the indexing result and a one-line
// human-readable summary of the run (entry/word/warning counts, wall time,
// peak RSS).
func RunFile(path string, opts Options, sess *session.Session) (*Result, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &session.FatalError{Err: fmt.Errorf("indexer: opening %s: %w", path, err)}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, "", &session.FatalError{Err: err}
	}

	var bar *progressbar.ProgressBar
	if isTerminal(os.Stdout) {
		bar = progressbar.DefaultBytes(info.Size(), "indexing "+path)
	}

	start := time.Now()
	var src io.Reader = &progressReader{f: f, bar: bar}
	res, err := Run(src, opts, sess)
	if err != nil {
		return nil, "", err
	}
	elapsed := time.Since(start)
	if bar != nil {
		_ = bar.Finish()
	}

	summary := buildSummary(res, elapsed, sess)
	return res, summary, nil
}

func buildSummary(res *Result, elapsed time.Duration, sess *session.Session) string {
	rss := peakRSS()
	warnings := 0
	if sess != nil {
		warnings = sess.Warnings()
	}
	return fmt.Sprintf(
		"indexed %s entries, %s words, %d abbreviations, %d warnings in %s (peak RSS %s)",
		humanize.Comma(int64(res.EntryCount)),
		humanize.Comma(int64(res.WordCount)),
		res.Abbrevs.Len(),
		warnings,
		elapsed.Round(time.Millisecond),
		humanize.Bytes(rss),
	)
}

// peakRSS reports the current process's resident set size, used as a
// stand-in for peak RSS (gopsutil does not expose a peak counter
// portably); zero is returned if the platform query fails.
func peakRSS() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := p.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
