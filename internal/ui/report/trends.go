package report

import (
	"encoding/json"
	"layercheck/internal/data/history"
	"strconv"
	"strings"
	"time"
)

type trendColumn struct {
	name  string
	value func(history.TrendPoint) string
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

var trendColumns = []trendColumn{
	{"Timestamp", func(p history.TrendPoint) string { return p.Timestamp.Format(time.RFC3339) }},
	{"Run", func(p history.TrendPoint) string { return p.RunID }},
	{"Commit", func(p history.TrendPoint) string { return p.CommitHash }},
	{"Modules", func(p history.TrendPoint) string { return itoa(p.ModuleCount) }},
	{"Edges", func(p history.TrendPoint) string { return itoa(p.EdgeCount) }},
	{"Violations", func(p history.TrendPoint) string { return itoa(p.ViolationCount) }},
	{"Cycles", func(p history.TrendPoint) string { return itoa(p.CycleCount) }},
	{"AvgFanOut", func(p history.TrendPoint) string { return ftoa(p.AvgFanOut) }},
	{"MaxDepth", func(p history.TrendPoint) string { return itoa(p.MaxDepth) }},
	{"DeltaModules", func(p history.TrendPoint) string { return itoa(p.DeltaModules) }},
	{"DeltaEdges", func(p history.TrendPoint) string { return itoa(p.DeltaEdges) }},
	{"DeltaViolations", func(p history.TrendPoint) string { return itoa(p.DeltaViolations) }},
	{"DeltaCycles", func(p history.TrendPoint) string { return itoa(p.DeltaCycles) }},
	{"DeltaAvgFanOut", func(p history.TrendPoint) string { return ftoa(p.DeltaAvgFanOut) }},
	{"ModuleGrowthPct", func(p history.TrendPoint) string { return ftoa(p.ModuleGrowthPct) }},
	{"AvgViolations", func(p history.TrendPoint) string { return ftoa(p.AvgViolations) }},
	{"AvgCycles", func(p history.TrendPoint) string { return ftoa(p.AvgCycles) }},
	{"WindowHours", func(p history.TrendPoint) string { return ftoa(p.WindowHours) }},
}

// RenderTrendTSV writes one tab-separated row per trend point under a
// header row.
func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var b strings.Builder
	row := make([]string, len(trendColumns))
	for i, col := range trendColumns {
		row[i] = col.name
	}
	b.WriteString(strings.Join(row, "\t") + "\n")
	for _, point := range report.Points {
		for i, col := range trendColumns {
			row[i] = col.value(point)
		}
		b.WriteString(strings.Join(row, "\t") + "\n")
	}
	return []byte(b.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
