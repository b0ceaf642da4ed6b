package ports

import (
	"context"
	"layercheck/internal/data/history"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/graph"
	"time"
)

// GraphExtractor produces the dependency edges of a project.
type GraphExtractor interface {
	Extract(ctx context.Context) ([]graph.Edge, error)
}

// HistoryStore abstracts snapshot persistence for trend/report workflows.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) error
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
}

// CheckRequest defines one conformance run.
type CheckRequest struct {
	// RecordHistory saves a snapshot when a history store is configured.
	RecordHistory bool
}

// CheckResult carries the findings and the graph they were computed from.
type CheckResult struct {
	Report   findings.Report
	Graph    *graph.ImportGraph
	Strategy string
	Duration time.Duration
	Snapshot *history.Snapshot
}

// CheckService is the driving port used by the CLI and watch mode.
type CheckService interface {
	Check(ctx context.Context, req CheckRequest) (CheckResult, error)
	TraceChain(ctx context.Context, from, to string) ([]string, error)
}
