package findings

import (
	"layercheck/internal/engine/cycles"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/layering"
	"layercheck/internal/engine/tier"
)

type TierGroup struct {
	Tier    int      `json:"tier"`
	Names   []string `json:"names,omitempty"`
	Modules []string `json:"modules"`
}

type Summary struct {
	Modules      int         `json:"modules"`
	Edges        int         `json:"edges"`
	Upward       int         `json:"upward"`
	Breaches     int         `json:"breaches"`
	Tiers        []TierGroup `json:"tiers,omitempty"`
	Unclassified []string    `json:"unclassified,omitempty"`
	AvgFanOut    float64     `json:"avg_fan_out"`
	MaxFanIn     int         `json:"max_fan_in"`
	MaxFanOut    int         `json:"max_fan_out"`
	MaxDepth     int         `json:"max_depth"`
}

type Report struct {
	Violations     []layering.Violation `json:"violations"`
	Cycles         []cycles.Pair        `json:"cycles"`
	ViolationCount int                  `json:"violation_count"`
	CycleCount     int                  `json:"cycle_count"`
	Summary        Summary              `json:"summary"`
}

// Aggregate copies both inputs, preserving their order.
func Aggregate(violations []layering.Violation, pairs []cycles.Pair) Report {
	r := Report{
		Violations: make([]layering.Violation, len(violations)),
		Cycles:     make([]cycles.Pair, len(pairs)),
	}
	copy(r.Violations, violations)
	for i, p := range pairs {
		p.Path = append([]string(nil), p.Path...)
		r.Cycles[i] = p
	}
	r.ViolationCount = len(r.Violations)
	r.CycleCount = len(r.Cycles)

	for _, v := range r.Violations {
		switch v.Kind {
		case layering.UpwardDependency:
			r.Summary.Upward++
		case layering.EncapsulationBreach:
			r.Summary.Breaches++
		}
	}
	return r
}

func (r Report) IsClean() bool {
	return r.ViolationCount == 0 && r.CycleCount == 0
}

// WithGraph fills the graph-derived summary fields. Findings are left as is.
func (r Report) WithGraph(g *graph.ImportGraph, classifier *tier.Classifier) Report {
	if g == nil {
		return r
	}
	r.Summary.Modules = g.ModuleCount()
	r.Summary.Edges = g.EdgeCount()

	if classifier != nil {
		groups, unclassified := classifier.Distribution(g.Modules())
		r.Summary.Tiers = make([]TierGroup, 0, len(groups))
		for _, grp := range groups {
			r.Summary.Tiers = append(r.Summary.Tiers, TierGroup{Tier: grp.Tier, Names: grp.Names, Modules: grp.Modules})
		}
		r.Summary.Unclassified = unclassified
	}

	metrics := g.Metrics()
	totalFanOut := 0
	for _, m := range metrics {
		totalFanOut += m.FanOut
		if m.FanIn > r.Summary.MaxFanIn {
			r.Summary.MaxFanIn = m.FanIn
		}
		if m.FanOut > r.Summary.MaxFanOut {
			r.Summary.MaxFanOut = m.FanOut
		}
		if m.Depth > r.Summary.MaxDepth {
			r.Summary.MaxDepth = m.Depth
		}
	}
	if len(metrics) > 0 {
		r.Summary.AvgFanOut = float64(totalFanOut) / float64(len(metrics))
	}
	return r
}

// ViolationsOf returns the violations of one kind in report order.
func (r Report) ViolationsOf(kind layering.Kind) []layering.Violation {
	out := make([]layering.Violation, 0)
	for _, v := range r.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}
