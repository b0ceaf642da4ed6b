package cycles

import (
	"layercheck/internal/core/errors"
	"layercheck/internal/engine/graph"
	"sort"
	"strings"
)

type Strategy string

const (
	StrategyAuto     Strategy = "auto"
	StrategyPairwise Strategy = "pairwise"
	StrategySCC      Strategy = "scc"
)

// DefaultSCCThreshold is the module count above which auto switches from
// pairwise reachability to Tarjan.
const DefaultSCCThreshold = 2000

func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyPairwise:
		return StrategyPairwise, nil
	case StrategySCC:
		return StrategySCC, nil
	default:
		return "", errors.Newf(errors.CodeValidationError, "unknown cycle strategy %q", raw)
	}
}

type Options struct {
	Strategy     Strategy
	SCCThreshold int
	// NoWitness leaves Pair.Path empty. Witness search is a BFS per pair.
	NoWitness bool
}

// Pair is two modules that reach each other and share a direct edge. A <= B.
// Path is a closed witness chain starting and ending at the same module.
type Pair struct {
	A    string   `json:"a"`
	B    string   `json:"b"`
	Path []string `json:"path,omitempty"`
}

// Key identifies the pair independent of its witness path.
func (p Pair) Key() [2]string {
	return [2]string{p.A, p.B}
}

type Detector struct {
	opts Options
}

func NewDetector(opts Options) *Detector {
	if opts.Strategy == "" {
		opts.Strategy = StrategyAuto
	}
	if opts.SCCThreshold <= 0 {
		opts.SCCThreshold = DefaultSCCThreshold
	}
	return &Detector{opts: opts}
}

// StrategyFor returns the concrete strategy used for a graph of n modules.
func (d *Detector) StrategyFor(n int) Strategy {
	switch d.opts.Strategy {
	case StrategyPairwise, StrategySCC:
		return d.opts.Strategy
	default:
		if n > d.opts.SCCThreshold {
			return StrategySCC
		}
		return StrategyPairwise
	}
}

// Detect returns every cycle pair of g sorted by (A, B).
func (d *Detector) Detect(g *graph.ImportGraph) []Pair {
	dense := g.Dense()

	var keys [][2]int
	switch d.StrategyFor(len(dense.Names)) {
	case StrategySCC:
		keys = sccPairs(dense)
	default:
		keys = pairwisePairs(dense)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		a, b := dense.Names[k[0]], dense.Names[k[1]]
		pair := Pair{A: a, B: b}
		if !d.opts.NoWitness {
			pair.Path = witness(g, a, b)
		}
		out = append(out, pair)
	}
	return out
}

// Module ids follow sorted names, so ordering by id is ordering by name.
func normalise(p, q int) [2]int {
	if q < p {
		return [2]int{q, p}
	}
	return [2]int{p, q}
}

func pairwisePairs(d graph.Dense) [][2]int {
	arena := newVisitArena(len(d.Names))
	seen := make(map[[2]int]bool)
	keys := make([][2]int, 0)

	for p, succ := range d.Adj {
		for _, q := range succ {
			key := normalise(p, q)
			if seen[key] {
				continue
			}
			if arena.reaches(d.Adj, q, p) {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func sccPairs(d graph.Dense) [][2]int {
	componentOf, _ := graph.StronglyConnectedComponents(d)
	seen := make(map[[2]int]bool)
	keys := make([][2]int, 0)

	for p, succ := range d.Adj {
		for _, q := range succ {
			if componentOf[p] != componentOf[q] {
				continue
			}
			key := normalise(p, q)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

func witness(g *graph.ImportGraph, a, b string) []string {
	start, other := a, b
	if !g.HasEdge(a, b) {
		start, other = b, a
	}
	back, ok := g.FindChain(other, start)
	if !ok {
		return nil
	}
	return append([]string{start}, back...)
}
