package formats

import (
	"fmt"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/layering"
	"strings"
	"time"
)

type MarkdownReportOptions struct {
	ProjectName         string
	Version             string
	GeneratedAt         time.Time
	TableOfContents     bool
	CollapsibleSections bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(r findings.Report, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Architecture Conformance Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Architecture Report\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		b.WriteString("- [Architectural Tiers](#architectural-tiers)\n")
		b.WriteString("- [Upward Dependencies](#upward-dependencies)\n")
		b.WriteString("- [Encapsulation Breaches](#encapsulation-breaches)\n")
		b.WriteString("- [Circular Dependencies](#circular-dependencies)\n")
		b.WriteString("\n")
	}

	status := "✅ Clean"
	if !r.IsClean() {
		status = "❌ Violations found"
	}
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Status | %s |\n", status))
	b.WriteString(fmt.Sprintf("| Modules | %d |\n", r.Summary.Modules))
	b.WriteString(fmt.Sprintf("| Edges | %d |\n", r.Summary.Edges))
	b.WriteString(fmt.Sprintf("| Upward Dependencies | %d |\n", r.Summary.Upward))
	b.WriteString(fmt.Sprintf("| Encapsulation Breaches | %d |\n", r.Summary.Breaches))
	b.WriteString(fmt.Sprintf("| Circular Dependencies | %d |\n", r.CycleCount))
	b.WriteString(fmt.Sprintf("| Unclassified Modules | %d |\n\n", len(r.Summary.Unclassified)))

	m.writeTiers(&b, r.Summary, opts.CollapsibleSections)
	m.writeUpward(&b, r.ViolationsOf(layering.UpwardDependency), opts.CollapsibleSections)
	m.writeBreaches(&b, r.ViolationsOf(layering.EncapsulationBreach), opts.CollapsibleSections)
	m.writeCycles(&b, r, opts.CollapsibleSections)

	return b.String(), nil
}

func (m *MarkdownGenerator) writeTiers(b *strings.Builder, s findings.Summary, collapsible bool) {
	b.WriteString("## Architectural Tiers\n")
	if len(s.Tiers) == 0 && len(s.Unclassified) == 0 {
		b.WriteString("No modules analyzed.\n\n")
		return
	}
	rows := make([]string, 0, len(s.Tiers)+1)
	for _, grp := range s.Tiers {
		rows = append(rows, fmt.Sprintf("| %d | %s | %d | %s |\n",
			grp.Tier, strings.Join(grp.Names, ", "), len(grp.Modules), codeList(grp.Modules)))
	}
	if len(s.Unclassified) > 0 {
		rows = append(rows, fmt.Sprintf("| - | unclassified | %d | %s |\n", len(s.Unclassified), codeList(s.Unclassified)))
	}
	m.writeTableWithCollapse(
		b,
		"Tier distribution",
		collapsible,
		s.Modules > 20,
		[]string{"| Tier | Rules | Modules | Members |\n", "| --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeUpward(b *strings.Builder, rows []layering.Violation, collapsible bool) {
	b.WriteString("## Upward Dependencies\n")
	if len(rows) == 0 {
		b.WriteString("No upward dependencies detected.\n\n")
		return
	}
	rendered := make([]string, 0, len(rows))
	for _, v := range rows {
		rendered = append(rendered, fmt.Sprintf(
			"| `%s` | %d | `%s` | `%s` | %d | `%s` |\n",
			v.From, v.FromTier, v.FromPattern, v.To, v.ToTier, v.ToPattern,
		))
	}
	m.writeTableWithCollapse(
		b,
		"Upward dependency details",
		collapsible,
		len(rendered) > 10,
		[]string{"| From | From Tier | From Pattern | To | To Tier | To Pattern |\n", "| --- | --- | --- | --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeBreaches(b *strings.Builder, rows []layering.Violation, collapsible bool) {
	b.WriteString("## Encapsulation Breaches\n")
	if len(rows) == 0 {
		b.WriteString("No encapsulation breaches detected.\n\n")
		return
	}
	rendered := make([]string, 0, len(rows))
	for _, v := range rows {
		rendered = append(rendered, fmt.Sprintf("| `%s` | `%s` | `%s` |\n", v.Boundary, v.From, v.To))
	}
	m.writeTableWithCollapse(
		b,
		"Breach details",
		collapsible,
		len(rendered) > 10,
		[]string{"| Boundary | Public Module | Internal Module |\n", "| --- | --- | --- |\n"},
		rendered,
	)
}

func (m *MarkdownGenerator) writeCycles(b *strings.Builder, r findings.Report, collapsible bool) {
	b.WriteString("## Circular Dependencies\n")
	if len(r.Cycles) == 0 {
		b.WriteString("No circular dependencies detected.\n\n")
		return
	}
	rows := make([]string, 0, len(r.Cycles))
	for i, c := range r.Cycles {
		path := "-"
		if len(c.Path) > 0 {
			path = "`" + strings.Join(c.Path, " -> ") + "`"
		}
		rows = append(rows, fmt.Sprintf("| %d | `%s` | `%s` | %s |\n", i+1, c.A, c.B, path))
	}
	m.writeTableWithCollapse(
		b,
		"Cycle details",
		collapsible,
		len(rows) > 10,
		[]string{"| # | Module A | Module B | Witness |\n", "| --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeTableWithCollapse(
	b *strings.Builder,
	summary string,
	collapsible bool,
	collapse bool,
	header []string,
	rows []string,
) {
	if collapsible && collapse {
		b.WriteString("<details>\n")
		b.WriteString("<summary>")
		b.WriteString(summary)
		b.WriteString("</summary>\n\n")
	}
	for _, line := range header {
		b.WriteString(line)
	}
	for _, line := range rows {
		b.WriteString(line)
	}
	b.WriteString("\n")
	if collapsible && collapse {
		b.WriteString("</details>\n\n")
	}
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, "<br>")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
