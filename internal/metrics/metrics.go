// Package metrics registers the prometheus collectors shared by the
// indexer and lookup-engine CLIs: counters for entries/words/abbreviations
// processed and for cache behavior, plus a histogram of query latency.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every collector either program may update. Both CLIs
// construct their own Registry bound to a fresh prometheus.Registry, so
// repeated runs within one process (as in tests) never collide on metric
// registration.
type Registry struct {
	reg *prometheus.Registry

	EntriesIndexed prometheus.Counter
	WordsIndexed   prometheus.Counter
	AbbrevsIndexed prometheus.Counter
	WarningsTotal  prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	QueryLatency   prometheus.Histogram
}

// New constructs and registers a fresh Registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		EntriesIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "entries_indexed_total",
			Help:      "Number of real BibTeX entries processed by the indexer.",
		}),
		WordsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "words_indexed_total",
			Help:      "Number of indexable words passed to field dictionaries, counting repeats within an entry.",
		}),
		AbbrevsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "abbreviations_indexed_total",
			Help:      "Number of @string abbreviation definitions recorded.",
		}),
		WarningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "warnings_total",
			Help:      "Number of recoverable warnings emitted this run.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "cache_hits_total",
			Help:      "Posting cache accesses that found the posting already resident.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "cache_misses_total",
			Help:      "Posting cache accesses that required a fault-in read.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biblook",
			Name:      "cache_evictions_total",
			Help:      "Postings evicted from the cache to make room for a new entry.",
		}),
		QueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "biblook",
			Name:      "query_evaluation_seconds",
			Help:      "Time to evaluate one query-language statement.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	r.reg.MustRegister(
		r.EntriesIndexed, r.WordsIndexed, r.AbbrevsIndexed, r.WarningsTotal,
		r.CacheHits, r.CacheMisses, r.CacheEvictions, r.QueryLatency,
	)
	return r
}

// Gatherer exposes the underlying prometheus.Gatherer for an HTTP handler
// (see cmd/bibindex and cmd/biblook's --metrics-addr flag).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
