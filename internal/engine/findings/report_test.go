package findings

import (
	"layercheck/internal/engine/cycles"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/layering"
	"layercheck/internal/engine/tier"
	"testing"
)

func TestAggregate_Counts(t *testing.T) {
	t.Parallel()

	violations := []layering.Violation{
		{From: "b", To: "a", FromTier: 2, ToTier: 1, Kind: layering.UpwardDependency},
		{From: "p", To: "i", Kind: layering.EncapsulationBreach, Boundary: "pkg"},
	}
	pairs := []cycles.Pair{{A: "x", B: "y", Path: []string{"x", "y", "x"}}}

	r := Aggregate(violations, pairs)
	if r.ViolationCount != 2 || r.CycleCount != 1 {
		t.Fatalf("unexpected counts %d/%d", r.ViolationCount, r.CycleCount)
	}
	if r.Summary.Upward != 1 || r.Summary.Breaches != 1 {
		t.Fatalf("unexpected per-kind counts %+v", r.Summary)
	}
	if r.IsClean() {
		t.Fatal("expected report with findings not to be clean")
	}
	if len(r.ViolationsOf(layering.EncapsulationBreach)) != 1 {
		t.Fatal("expected one breach")
	}
}

func TestAggregate_CopiesInputs(t *testing.T) {
	t.Parallel()

	violations := []layering.Violation{{From: "b", To: "a", Kind: layering.UpwardDependency}}
	pairs := []cycles.Pair{{A: "x", B: "y", Path: []string{"x", "y", "x"}}}
	r := Aggregate(violations, pairs)

	violations[0].From = "mutated"
	pairs[0].A = "mutated"
	pairs[0].Path[0] = "mutated"

	if r.Violations[0].From != "b" || r.Cycles[0].A != "x" || r.Cycles[0].Path[0] != "x" {
		t.Fatalf("report shares memory with inputs: %+v", r)
	}
}

func TestAggregate_Clean(t *testing.T) {
	t.Parallel()

	r := Aggregate(nil, nil)
	if !r.IsClean() {
		t.Fatal("expected empty report to be clean")
	}
	if r.Violations == nil || r.Cycles == nil {
		t.Fatal("expected non-nil slices for stable JSON output")
	}
}

func TestWithGraph(t *testing.T) {
	t.Parallel()

	g, err := graph.Build([]graph.Edge{
		{From: "cmd/a", To: "internal/b"},
		{From: "cmd/a", To: "internal/c"},
		{From: "internal/b", To: "internal/c"},
		{From: "internal/c", To: "lib/d"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c, err := tier.NewClassifier([]tier.Rule{{Name: "CMD", Pattern: "cmd/", Tier: 1}, {Pattern: "internal/", Tier: 2}}, tier.Options{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	base := Aggregate(nil, nil)
	r := base.WithGraph(g, c)

	s := r.Summary
	if s.Modules != 4 || s.Edges != 4 {
		t.Fatalf("unexpected size %+v", s)
	}
	if len(s.Tiers) != 2 || s.Tiers[0].Names[0] != "CMD" || len(s.Tiers[1].Modules) != 2 {
		t.Fatalf("unexpected tiers %+v", s.Tiers)
	}
	if len(s.Unclassified) != 1 || s.Unclassified[0] != "lib/d" {
		t.Fatalf("unexpected unclassified %v", s.Unclassified)
	}
	if s.MaxFanOut != 2 || s.MaxFanIn != 2 || s.MaxDepth != 3 || s.AvgFanOut != 1 {
		t.Fatalf("unexpected metrics %+v", s)
	}
	if !r.IsClean() || base.Summary.Modules != 0 {
		t.Fatal("WithGraph must not change findings or the receiver")
	}
}
