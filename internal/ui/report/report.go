// Package report renders findings and history trends for people and tools.
package report

import (
	"fmt"
	"io"
	"layercheck/internal/core/errors"
	"layercheck/internal/data/extract"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/graph"
	"layercheck/internal/shared/version"
	"layercheck/internal/ui/report/formats"
	"strings"
	"time"
)

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
	FormatTSV      = "tsv"
	FormatDOT      = "dot"
)

// Formats lists the formats Render accepts.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown, FormatSARIF, FormatTSV, FormatDOT}

type Options struct {
	Color       bool
	ShowTiers   bool
	ProjectName string
	GeneratedAt time.Time
	// Graph is required for the dot format.
	Graph *graph.ImportGraph
}

func Render(w io.Writer, format string, r findings.Report, opts Options) error {
	var (
		out string
		err error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		out, err = formats.TextGenerator{Color: opts.Color, ShowTiers: opts.ShowTiers}.Generate(r)
	case FormatJSON:
		var data []byte
		data, err = formats.GenerateJSON(r)
		out = string(data) + "\n"
	case FormatMarkdown:
		out, err = formats.NewMarkdownGenerator().Generate(r, formats.MarkdownReportOptions{
			ProjectName:         opts.ProjectName,
			Version:             version.Version,
			GeneratedAt:         opts.GeneratedAt,
			TableOfContents:     true,
			CollapsibleSections: true,
		})
	case FormatSARIF:
		var data []byte
		data, err = formats.GenerateSARIF(r)
		out = string(data) + "\n"
	case FormatTSV:
		out, err = formats.GenerateFindingsTSV(r)
	case FormatDOT:
		if opts.Graph == nil {
			return errors.New(errors.CodeValidationError, "dot output requires the import graph")
		}
		out, err = formats.NewDOTGenerator(opts.Graph, r).Generate()
	default:
		return errors.Newf(errors.CodeValidationError, "unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return fmt.Errorf("render %s report: %w", format, err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// RenderEdges writes the graph's edges in the edge-file format.
func RenderEdges(w io.Writer, g *graph.ImportGraph) error {
	return extract.WriteEdgesTSV(w, g.Edges())
}
