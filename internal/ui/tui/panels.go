package tui

import (
	"fmt"
	"layercheck/internal/data/history"
	"strings"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter details | esc back | t trend overlay | q quit"
	if m.mode == panelFindings {
		keys = "Keys: tab panel | / filter | t trend overlay | q quit"
	}
	return statusStyle.Render(keys)
}

func renderModulePanel(m model) string {
	summary := m.moduleList.View()
	details := renderModuleSummary(m)
	if m.hasDetails {
		details = renderModuleDetails(m)
	}
	return summary + "\n\n" + details
}

func renderModuleSummary(m model) string {
	if len(m.modules) == 0 {
		return statusStyle.Render("No modules available.")
	}
	idx := m.moduleList.Index()
	if idx < 0 || idx >= len(m.modules) {
		idx = 0
	}
	selected := m.modules[idx]
	tierLabel := "unclassified"
	if selected.Classified {
		tierLabel = fmt.Sprintf("%d", selected.Tier)
	}
	return strings.Join([]string{
		"Selected Module",
		fmt.Sprintf("  Name: %s", selected.Name),
		fmt.Sprintf("  Tier: %s", tierLabel),
		fmt.Sprintf("  Dependencies: %d", selected.Metrics.FanOut),
		fmt.Sprintf("  Imported by: %d", selected.Metrics.FanIn),
		fmt.Sprintf("  Depth: %d", selected.Metrics.Depth),
		"  Press enter for dependency drill-down.",
	}, "\n")
}

func renderModuleDetails(m model) string {
	d := m.details
	lines := []string{
		fmt.Sprintf("Module Detail: %s", d.Name),
		fmt.Sprintf("  Dependencies (%d):", len(d.Dependencies)),
	}
	lines = append(lines, indentList(d.Dependencies)...)
	lines = append(lines, fmt.Sprintf("  Imported by (%d):", len(d.Dependents)))
	lines = append(lines, indentList(d.Dependents)...)
	lines = append(lines, "  Press esc to exit details.")
	return strings.Join(lines, "\n")
}

func indentList(names []string) []string {
	if len(names) == 0 {
		return []string{"    none"}
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, "    "+name)
	}
	return out
}

func renderTrendOverlay(report *history.TrendReport) string {
	if report == nil || len(report.Points) == 0 {
		return statusStyle.Render("Trend overlay unavailable (enable --history to capture snapshots).")
	}
	last := report.Points[len(report.Points)-1]
	return strings.Join([]string{
		"Trend Overlay",
		fmt.Sprintf("  Window: %s | Scans: %d", report.Window, report.ScanCount),
		fmt.Sprintf("  Module growth: %+d (%.2f%%)", last.DeltaModules, last.ModuleGrowthPct),
		fmt.Sprintf("  Violations: %d (%+d, avg %.2f)", last.ViolationCount, last.DeltaViolations, last.AvgViolations),
		fmt.Sprintf("  Cycles: %d (%+d, avg %.2f)", last.CycleCount, last.DeltaCycles, last.AvgCycles),
		fmt.Sprintf("  Avg fan-out: %.2f (%+.2f)", last.AvgFanOut, last.DeltaAvgFanOut),
	}, "\n")
}
