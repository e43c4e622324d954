// Package session encapsulates the per-run global state that the original
// implementation kept in process-wide variables: a logger, a run identity,
// a warning counter, and an optional metrics registry. One Session exists
// per indexer or lookup-engine invocation and is never shared across
// goroutines — both programs in this repository are single-threaded.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/biblook/go-biblook/internal/metrics"
)

// FatalError marks an error that must terminate the program. Only main()
// is permitted to act on it (translate to a non-zero exit); library code
// always returns it up the call stack instead of calling os.Exit.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal wraps err as a FatalError.
func Fatal(format string, args ...any) *FatalError {
	return &FatalError{Err: fmt.Errorf(format, args...)}
}

// Session is the encapsulated per-run state object.
type Session struct {
	RunID    string
	Program  string
	warnings int
	Metrics  *metrics.Registry
}

// New starts a session for the named program (e.g. "bibindex", "biblook"),
// tagging every subsequent log line with a fresh run id for cross-process
// correlation.
func New(program string, reg *metrics.Registry) *Session {
	return &Session{
		RunID:   uuid.NewString(),
		Program: program,
		Metrics: reg,
	}
}

// Warn logs a recoverable warning and increments the session's warning
// counter, matching the original's "print and continue" diagnostics.
func (s *Session) Warn(format string, args ...any) {
	s.warnings++
	if s.Metrics != nil {
		s.Metrics.WarningsTotal.Inc()
	}
	klog.Warningf("[%s %s] %s", s.Program, s.RunID[:8], fmt.Sprintf(format, args...))
}

// Info logs an informational message tagged with the session's run id.
func (s *Session) Info(format string, args ...any) {
	klog.Infof("[%s %s] %s", s.Program, s.RunID[:8], fmt.Sprintf(format, args...))
}

// Warnings returns the number of warnings recorded so far.
func (s *Session) Warnings() int { return s.warnings }

// Close releases any resources held by the session (currently none beyond
// the metrics registry, which outlives individual sessions).
func (s *Session) Close() {}
