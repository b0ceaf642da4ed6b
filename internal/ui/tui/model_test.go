package tui

import (
	"context"
	"layercheck/internal/data/history"
	"layercheck/internal/engine/analysis"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/layering"
	"layercheck/internal/engine/tier"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleUpdate(t *testing.T) Update {
	t.Helper()
	a, err := analysis.New(analysis.Options{
		Namespace: "app",
		Separator: "/",
		Rules: []tier.Rule{
			{Pattern: "cmd", Tier: 0},
			{Pattern: "internal", Tier: 1},
			{Pattern: "util", Tier: 2},
		},
		Boundaries: []layering.Boundary{{Name: "internal", Public: []string{"cmd"}, Internal: []string{"internal/core"}}},
	})
	if err != nil {
		t.Fatalf("analysis.New: %v", err)
	}
	res, err := a.Run(context.Background(), []graph.Edge{
		{From: "app/cmd", To: "app/internal/core"},
		{From: "app/util", To: "app/cmd"},
		{From: "app/internal/core", To: "app/util"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return Update{Result: res, At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestModel_FilterAndFocusFlow(t *testing.T) {
	u := sampleUpdate(t)
	m := initialModel(nil)

	updated, _ := m.Update(updateMsg(u))
	state, ok := updated.(model)
	if !ok {
		t.Fatalf("expected model type, got %T", updated)
	}
	report := u.Result.Report
	wantFindings := report.ViolationCount + report.CycleCount
	if wantFindings == 0 {
		t.Fatalf("expected sample to produce findings")
	}
	if got := len(state.findingList.Items()); got != wantFindings {
		t.Fatalf("expected %d finding items, got %d", wantFindings, got)
	}
	if got := len(state.moduleList.Items()); got != 3 {
		t.Fatalf("expected 3 module items, got %d", got)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelModules {
		t.Fatalf("expected module panel after tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelFindings {
		t.Fatalf("expected findings panel after second tab, got %v", state.mode)
	}
}

func TestModel_ModuleDrillDownAndTrendToggle(t *testing.T) {
	u := sampleUpdate(t)
	m := initialModel(&history.TrendReport{
		Window:    "24h",
		ScanCount: 2,
		Points: []history.TrendPoint{
			{ViolationCount: 1},
			{ViolationCount: 2, DeltaViolations: 1, AvgViolations: 1.5},
		},
	})
	updated, _ := m.Update(updateMsg(u))
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	if !state.hasDetails {
		t.Fatalf("expected module details after enter")
	}
	if state.details.Name != state.modules[0].Name {
		t.Fatalf("expected details for %q, got %q", state.modules[0].Name, state.details.Name)
	}
	if !strings.Contains(state.View(), "Module Detail: ") {
		t.Fatalf("expected detail view to be rendered")
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.hasDetails {
		t.Fatalf("expected details to close on esc")
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	state = updated.(model)
	if !state.showTrend {
		t.Fatalf("expected trend overlay after t")
	}
	if !strings.Contains(state.View(), "Trend Overlay") {
		t.Fatalf("expected trend overlay in view")
	}
}

func TestModel_CleanReportView(t *testing.T) {
	res, err := analysis.New(analysis.Options{
		Separator: "/",
		Rules:     []tier.Rule{{Pattern: "a", Tier: 0}, {Pattern: "b", Tier: 1}},
	})
	if err != nil {
		t.Fatalf("analysis.New: %v", err)
	}
	out, err := res.Run(context.Background(), []graph.Edge{{From: "a", To: "b"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	updated, _ := initialModel(nil).Update(updateMsg{Result: out})
	state := updated.(model)
	if len(state.findingList.Items()) != 0 {
		t.Fatalf("expected no findings, got %d", len(state.findingList.Items()))
	}
	if !strings.Contains(state.View(), "Architecture Clean") {
		t.Fatalf("expected clean banner")
	}
	if state.lastUpdate.IsZero() {
		t.Fatalf("expected last update time to be set")
	}
}

func TestRenderTrendOverlay_Unavailable(t *testing.T) {
	if got := renderTrendOverlay(nil); !strings.Contains(got, "unavailable") {
		t.Fatalf("expected unavailable message, got %q", got)
	}
}
