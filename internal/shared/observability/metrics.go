package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "layercheck_analysis_seconds",
		Help:    "Time spent on analysis stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layercheck_graph_nodes_total",
		Help: "Number of modules in the last analysed import graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layercheck_graph_edges_total",
		Help: "Number of edges in the last analysed import graph.",
	})

	Violations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "layercheck_violations",
		Help: "Layering violations found by the last check, by kind.",
	}, []string{"kind"})

	CyclePairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layercheck_cycle_pairs",
		Help: "Cycle pairs found by the last check.",
	})

	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "layercheck_checks_total",
		Help: "Completed checks by result (clean, findings, error).",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layercheck_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layercheck_watcher_throttled_total",
		Help: "Re-checks skipped because the re-check rate limit was exhausted.",
	})

	HistoryWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "layercheck_history_writes_total",
		Help: "History snapshot writes by result.",
	}, []string{"result"})
)
