package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"layercheck/internal/core/errors"
	"layercheck/internal/engine/graph"
	"os"
	"path/filepath"
	"strings"
)

// EdgeFile reads a pre-computed edge list. Files ending in .json hold either
// an array of {"from","to"} objects or a map from module to its imports;
// anything else is read as tab-separated "from<TAB>to" lines.
type EdgeFile struct {
	Path string
}

func (f EdgeFile) Extract(ctx context.Context) ([]graph.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeExtractionFailure, "read edge file"), errors.CtxPath, f.Path)
	}

	var edges []graph.Edge
	if strings.EqualFold(filepath.Ext(f.Path), ".json") {
		edges, err = ParseEdgesJSON(data)
	} else {
		edges, err = ParseEdgesTSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, f.Path)
	}
	return edges, nil
}

// ParseEdgesTSV reads "from<TAB>to" lines. Blank lines, '#' comments and a
// "From<TAB>To" header are skipped; extra columns are ignored. Only the line
// ending is stripped.
func ParseEdgesTSV(r io.Reader) ([]graph.Edge, error) {
	var edges []graph.Edge
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return nil, errors.AddContext(
				errors.New(errors.CodeExtractionFailure, fmt.Sprintf("line %d: expected from<TAB>to", lineNo)),
				errors.CtxOperation, "parse_tsv",
			)
		}
		// Columns are taken verbatim so stray whitespace reaches path validation.
		from, to := cols[0], cols[1]
		if lineNo == 1 && strings.EqualFold(from, "from") && strings.EqualFold(to, "to") {
			continue
		}
		edges = append(edges, graph.Edge{From: from, To: to})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeExtractionFailure, "read edge list")
	}
	return edges, nil
}

// ParseEdgesJSON accepts [{"from":"a","to":"b"}] or {"a": ["b", "c"]}.
func ParseEdgesJSON(data []byte) ([]graph.Edge, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var adjacency map[string][]string
		if err := json.Unmarshal(trimmed, &adjacency); err != nil {
			return nil, errors.Wrap(err, errors.CodeExtractionFailure, "decode edge map")
		}
		edges := make(edgeSet)
		for from, targets := range adjacency {
			for _, to := range targets {
				edges[graph.Edge{From: from, To: to}] = struct{}{}
			}
		}
		return edges.sorted(), nil
	}

	var edges []graph.Edge
	if err := json.Unmarshal(trimmed, &edges); err != nil {
		return nil, errors.Wrap(err, errors.CodeExtractionFailure, "decode edge array")
	}
	return edges, nil
}

// WriteEdgesTSV writes edges in the format ParseEdgesTSV reads.
func WriteEdgesTSV(w io.Writer, edges []graph.Edge) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("From\tTo\n"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", e.From, e.To); err != nil {
			return err
		}
	}
	return bw.Flush()
}
