// Package biblook is a two-stage BibTeX bibliographic retrieval engine: a
// batch indexer that scans a .bib file and writes a binary .bix sidecar,
// and a lookup engine that answers boolean keyword queries against that
// sidecar without re-parsing the source file.
//
// Most callers want cmd/bibindex and cmd/biblook directly; this package
// re-exports the pieces needed to drive both stages from Go code.
package biblook

import (
	"io"

	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/metrics"
	"github.com/biblook/go-biblook/internal/query"
	"github.com/biblook/go-biblook/internal/session"
	"github.com/biblook/go-biblook/internal/sidecar"
)

// Re-export core types so callers only import this package.
type (
	IndexOptions = indexer.Options
	IndexResult  = indexer.Result
	Sidecar      = sidecar.Sidecar
	Index        = query.Index
	Shell        = query.Shell
	Session      = session.Session
	Metrics      = metrics.Registry
)

// BuildIndex runs the indexer over src, producing the in-memory structures
// that Write serializes into a .bix sidecar.
func BuildIndex(src io.Reader, opts IndexOptions, sess *Session) (*IndexResult, error) {
	return indexer.Run(src, opts, sess)
}

// WriteSidecar serializes an indexing result to w in the binary sidecar
// format, stamping it with ctime (typically time.Now().Unix()).
func WriteSidecar(w io.Writer, res *IndexResult, ctime int64) error {
	return sidecar.Write(w, res, ctime)
}

// LoadSidecar parses a previously written sidecar, ready for lazy posting
// lookups against ra.
func LoadSidecar(ra io.ReaderAt) (*Sidecar, error) {
	return sidecar.Load(ra)
}

// OpenIndex wraps a loaded sidecar and its source .bib file into a
// queryable Index with a posting cache of the given capacity (0 selects
// the default).
func OpenIndex(sc *Sidecar, src io.ReaderAt, cacheCapacity int, reg *Metrics) *Index {
	return query.Open(sc, sc.Fields, sc.EntryOffsets, sc.Abbrevs, src, cacheCapacity, reg)
}

// NewShell constructs the interactive command-shell state machine over idx,
// writing command output to out.
func NewShell(idx *Index, out query.Sink) *Shell {
	return query.NewShell(idx, out)
}

// NewSession constructs a Session for one run of either binary.
func NewSession(program string, reg *Metrics) *Session {
	return session.New(program, reg)
}

// NewMetrics constructs a fresh Prometheus registry for one process.
func NewMetrics() *Metrics {
	return metrics.New()
}
