package formats

import (
	"fmt"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/layering"
	"strings"
)

const (
	colorUpward = "orange"
	colorBreach = "purple"
	colorCycle  = "red"
)

// DOTGenerator renders the import graph with modules clustered by tier and
// offending edges coloured by finding kind.
type DOTGenerator struct {
	graph  *graph.ImportGraph
	report findings.Report
}

func NewDOTGenerator(g *graph.ImportGraph, r findings.Report) *DOTGenerator {
	return &DOTGenerator{graph: g, report: r}
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	if d.graph == nil {
		buf.WriteString("}\n")
		return buf.String(), nil
	}

	modules := d.graph.Modules()
	ids := nodeIDs(modules)

	cycleEdges := make(map[graph.Edge]bool, len(d.report.Cycles))
	inCycle := make(map[string]bool)
	for _, c := range d.report.Cycles {
		cycleEdges[graph.Edge{From: c.A, To: c.B}] = true
		cycleEdges[graph.Edge{From: c.B, To: c.A}] = true
		inCycle[c.A] = true
		inCycle[c.B] = true
	}
	edgeKinds := make(map[graph.Edge]layering.Kind)
	for _, v := range d.report.Violations {
		e := graph.Edge{From: v.From, To: v.To}
		// Upward wins over breach when an edge carries both.
		if _, seen := edgeKinds[e]; !seen || v.Kind == layering.UpwardDependency {
			edgeKinds[e] = v.Kind
		}
	}

	placed := make(map[string]bool, len(modules))
	for _, grp := range d.report.Summary.Tiers {
		label := fmt.Sprintf("Tier %d", grp.Tier)
		if len(grp.Names) > 0 {
			label += " (" + strings.Join(grp.Names, ", ") + ")"
		}
		buf.WriteString(fmt.Sprintf("  subgraph cluster_tier_%d {\n", grp.Tier))
		buf.WriteString(fmt.Sprintf("    label=%s;\n", quoteDOT(label)))
		buf.WriteString("    style=filled;\n")
		buf.WriteString("    color=\"whitesmoke\";\n")
		buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")
		for _, m := range grp.Modules {
			if _, ok := ids[m]; !ok {
				continue
			}
			writeNode(&buf, "    ", ids[m], m, inCycle[m])
			placed[m] = true
		}
		buf.WriteString("  }\n\n")
	}
	for _, m := range modules {
		if !placed[m] {
			writeNode(&buf, "  ", ids[m], m, inCycle[m])
		}
	}
	buf.WriteString("\n")

	for _, e := range d.graph.Edges() {
		attrs := ""
		switch {
		case cycleEdges[e]:
			attrs = fmt.Sprintf(" [color=%s, penwidth=2.0]", colorCycle)
		case edgeKinds[e] == layering.UpwardDependency:
			attrs = fmt.Sprintf(" [color=%s, penwidth=2.0, label=\"upward\"]", colorUpward)
		case edgeKinds[e] == layering.EncapsulationBreach:
			attrs = fmt.Sprintf(" [color=%s, penwidth=2.0, style=dashed, label=\"breach\"]", colorBreach)
		}
		buf.WriteString(fmt.Sprintf("  %s -> %s%s;\n", ids[e.From], ids[e.To], attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeNode(buf *strings.Builder, indent, id, module string, cyclic bool) {
	if cyclic {
		buf.WriteString(fmt.Sprintf("%s%s [label=%s, color=%s, penwidth=2.0];\n", indent, id, quoteDOT(module), colorCycle))
		return
	}
	buf.WriteString(fmt.Sprintf("%s%s [label=%s];\n", indent, id, quoteDOT(module)))
}
