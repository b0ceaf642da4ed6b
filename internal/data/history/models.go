package history

import (
	"layercheck/internal/engine/findings"
	"time"
)

const SchemaVersion = 1

// Snapshot is the persisted summary of one check run.
type Snapshot struct {
	SchemaVersion     int       `json:"schema_version"`
	RunID             string    `json:"run_id"`
	ProjectKey        string    `json:"project_key"`
	Timestamp         time.Time `json:"timestamp"`
	CommitHash        string    `json:"commit_hash,omitempty"`
	CommitTimestamp   time.Time `json:"commit_timestamp,omitempty"`
	ModuleCount       int       `json:"module_count"`
	EdgeCount         int       `json:"edge_count"`
	ViolationCount    int       `json:"violation_count"`
	UpwardCount       int       `json:"upward_count"`
	BreachCount       int       `json:"breach_count"`
	CycleCount        int       `json:"cycle_count"`
	UnclassifiedCount int       `json:"unclassified_count"`
	AvgFanOut         float64   `json:"avg_fan_out"`
	MaxFanIn          int       `json:"max_fan_in"`
	MaxFanOut         int       `json:"max_fan_out"`
	MaxDepth          int       `json:"max_depth"`
}

// NewSnapshot summarises a report. The caller sets identifiers and git
// metadata.
func NewSnapshot(r findings.Report) Snapshot {
	return Snapshot{
		SchemaVersion:     SchemaVersion,
		ModuleCount:       r.Summary.Modules,
		EdgeCount:         r.Summary.Edges,
		ViolationCount:    r.ViolationCount,
		UpwardCount:       r.Summary.Upward,
		BreachCount:       r.Summary.Breaches,
		CycleCount:        r.CycleCount,
		UnclassifiedCount: len(r.Summary.Unclassified),
		AvgFanOut:         r.Summary.AvgFanOut,
		MaxFanIn:          r.Summary.MaxFanIn,
		MaxFanOut:         r.Summary.MaxFanOut,
		MaxDepth:          r.Summary.MaxDepth,
	}
}

func (s Snapshot) Clean() bool {
	return s.ViolationCount == 0 && s.CycleCount == 0
}

type TrendPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	RunID           string    `json:"run_id"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	ModuleCount     int       `json:"module_count"`
	EdgeCount       int       `json:"edge_count"`
	ViolationCount  int       `json:"violation_count"`
	CycleCount      int       `json:"cycle_count"`
	AvgFanOut       float64   `json:"avg_fan_out"`
	MaxDepth        int       `json:"max_depth"`
	DeltaModules    int       `json:"delta_modules"`
	DeltaEdges      int       `json:"delta_edges"`
	DeltaViolations int       `json:"delta_violations"`
	DeltaCycles     int       `json:"delta_cycles"`
	DeltaAvgFanOut  float64   `json:"delta_avg_fan_out"`
	ModuleGrowthPct float64   `json:"module_growth_pct"`
	AvgViolations   float64   `json:"avg_violations"`
	AvgCycles       float64   `json:"avg_cycles"`
	WindowHours     float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	ProjectKey    string       `json:"project_key"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
