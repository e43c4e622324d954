package indexer

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/biblook/go-biblook/internal/session"
)

// WatchAndReindex runs RunFile once, then again every time the watcher on
// path reports a write or create event for it, invoking onIndexed with each
// new Result until ctx is canceled. Each reindex is a full rebuild — there
// is no incremental update path, so this never violates the engine's
// always-full-rebuild design.
func WatchAndReindex(ctx context.Context, path string, opts Options, sess *session.Session, onIndexed func(*Result, string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &session.FatalError{Err: err}
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return &session.FatalError{Err: err}
	}

	reindex := func() {
		res, summary, err := RunFile(path, opts, sess)
		if err != nil {
			if sess != nil {
				sess.Warn("watch: reindex failed: %v", err)
			}
			return
		}
		onIndexed(res, summary)
	}

	reindex()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				reindex()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if sess != nil {
				sess.Warn("watch: %v", err)
			}
		}
	}
}
