// Package extract produces dependency edges for the analysis pipeline from
// Go packages, parsed source files or a pre-computed edge list.
package extract

import (
	"layercheck/internal/engine/graph"
	"sort"
)

// edgeSet collects unique edges in insertion-independent order.
type edgeSet map[graph.Edge]struct{}

func (s edgeSet) add(from, to string) {
	if from == "" || to == "" {
		return
	}
	s[graph.Edge{From: from, To: to}] = struct{}{}
}

func (s edgeSet) sorted() []graph.Edge {
	out := make([]graph.Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
