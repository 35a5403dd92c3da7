package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "traveline",
		Subsystem: "query_cache",
		Name:      "hits_total",
		Help:      "Reads served from a fresh cache entry.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "traveline",
		Subsystem: "query_cache",
		Name:      "misses_total",
		Help:      "Reads that had to wait for a fetch.",
	})
	cacheFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traveline",
		Subsystem: "query_cache",
		Name:      "fetches_total",
		Help:      "Backend fetches issued by the cache, by outcome.",
	}, []string{"outcome"})
	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "traveline",
		Subsystem: "query_cache",
		Name:      "invalidations_total",
		Help:      "Cache entries marked stale by a mutation.",
	})
	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "traveline",
		Subsystem: "query_cache",
		Name:      "entries",
		Help:      "Entries currently held by all caches.",
	})
)
