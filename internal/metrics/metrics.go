package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal tracks history scans per chain and outcome.
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_scans_total",
			Help: "Total number of history scans",
		},
		[]string{"chain", "result"},
	)

	// ScanDuration tracks end-to-end scan latency.
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txhistory_scan_duration_seconds",
			Help:    "History scan duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	// CacheHits tracks cache lookups that returned a fresh entry.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks cache lookups that missed or were stale.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	// RPCCallsTotal tracks RPC calls per provider and method.
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"provider", "method"},
	)

	// RPCErrorsTotal tracks RPC errors per provider and method.
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"provider", "method"},
	)

	// RPCLatency tracks RPC call latency.
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txhistory_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// FetchErrorsTotal tracks per-unit fetch failures that were absorbed.
	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txhistory_fetch_errors_total",
			Help: "Total number of absorbed per-unit fetch errors",
		},
		[]string{"chain", "source"},
	)
)
