package graph

import (
	"layercheck/internal/core/errors"
	"layercheck/internal/shared/util"
	"sort"
	"strings"
	"unicode"
)

const DefaultSeparator = "/"

// Edge is a direct dependency From -> To between two modules.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ImportGraph is an immutable adjacency structure. Module identifiers are
// dense indexes into a sorted name table so traversals can use slices.
type ImportGraph struct {
	namespace string
	separator string

	names []string
	index map[string]int
	succ  [][]int
	pred  [][]int
	edges int
}

type buildConfig struct {
	namespace string
	separator string
}

type Option func(*buildConfig)

// WithNamespace drops every edge whose target lies outside ns.
func WithNamespace(ns string) Option {
	return func(c *buildConfig) {
		c.namespace = ns
	}
}

// WithSeparator sets the path segment separator. Defaults to "/".
func WithSeparator(sep string) Option {
	return func(c *buildConfig) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// Build validates edges and constructs the graph. Any malformed path fails
// the whole build.
func Build(edges []Edge, opts ...Option) (*ImportGraph, error) {
	cfg := buildConfig{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&cfg)
	}

	for i, e := range edges {
		if err := validatePath(e.From, cfg.separator); err != nil {
			return nil, errors.AddContext(errors.AddContext(err, errors.CtxEdge, i), errors.CtxModule, e.From)
		}
		if err := validatePath(e.To, cfg.separator); err != nil {
			return nil, errors.AddContext(errors.AddContext(err, errors.CtxEdge, i), errors.CtxModule, e.To)
		}
	}

	targets := make(map[string]map[string]bool)
	nameSet := make(map[string]bool)
	for _, e := range edges {
		if cfg.namespace != "" && !util.HasPathPrefix(e.To, cfg.namespace, cfg.separator) {
			continue
		}
		if targets[e.From] == nil {
			targets[e.From] = make(map[string]bool)
		}
		targets[e.From][e.To] = true
		nameSet[e.From] = true
		nameSet[e.To] = true
	}

	g := &ImportGraph{
		namespace: cfg.namespace,
		separator: cfg.separator,
		names:     util.SortedStringKeys(nameSet),
	}
	g.index = make(map[string]int, len(g.names))
	for i, name := range g.names {
		g.index[name] = i
	}
	g.succ = make([][]int, len(g.names))
	g.pred = make([][]int, len(g.names))

	for from, id := range g.index {
		tos := util.SortedStringKeys(targets[from])
		list := make([]int, 0, len(tos))
		for _, to := range tos {
			list = append(list, g.index[to])
		}
		sort.Ints(list)
		g.succ[id] = list
		g.edges += len(list)
	}
	for from := range g.succ {
		for _, to := range g.succ[from] {
			g.pred[to] = append(g.pred[to], from)
		}
	}

	return g, nil
}

func validatePath(p, sep string) error {
	if p == "" {
		return errors.New(errors.CodeMalformedInput, "module path must not be empty")
	}
	for _, r := range p {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return errors.AddContext(
				errors.Newf(errors.CodeMalformedInput, "module path contains invalid character %q", r),
				errors.CtxPath, p,
			)
		}
	}
	for _, segment := range strings.Split(p, sep) {
		if segment == "" {
			return errors.AddContext(
				errors.New(errors.CodeMalformedInput, "module path contains an empty segment"),
				errors.CtxPath, p,
			)
		}
	}
	return nil
}

func (g *ImportGraph) Namespace() string {
	return g.namespace
}

func (g *ImportGraph) Separator() string {
	return g.separator
}

// Modules returns every endpoint of a retained edge, sorted.
func (g *ImportGraph) Modules() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// HasModule reports whether name is an endpoint of some retained edge.
func (g *ImportGraph) HasModule(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Edges returns every distinct edge sorted by (From, To).
func (g *ImportGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from, list := range g.succ {
		for _, to := range list {
			out = append(out, Edge{From: g.names[from], To: g.names[to]})
		}
	}
	return out
}

// Successors returns the sorted direct dependencies of name.
func (g *ImportGraph) Successors(name string) []string {
	id, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.succ[id]))
	for _, to := range g.succ[id] {
		out = append(out, g.names[to])
	}
	return out
}

// Predecessors returns the sorted modules that depend on name directly.
func (g *ImportGraph) Predecessors(name string) []string {
	id, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.pred[id]))
	for _, from := range g.pred[id] {
		out = append(out, g.names[from])
	}
	return out
}

func (g *ImportGraph) HasOutgoing(name string) bool {
	id, ok := g.index[name]
	return ok && len(g.succ[id]) > 0
}

// HasEdge reports whether from -> to is a direct edge.
func (g *ImportGraph) HasEdge(from, to string) bool {
	fromID, ok := g.index[from]
	if !ok {
		return false
	}
	toID, ok := g.index[to]
	if !ok {
		return false
	}
	list := g.succ[fromID]
	i := sort.SearchInts(list, toID)
	return i < len(list) && list[i] == toID
}

func (g *ImportGraph) ModuleCount() int {
	return len(g.names)
}

func (g *ImportGraph) EdgeCount() int {
	return g.edges
}

// Dense is an index-based view of the graph for traversal-heavy callers.
// Names[i] is the module with id i; Adj[i] lists sorted successor ids.
// Callers must treat both slices as read-only.
type Dense struct {
	Names []string
	Adj   [][]int
}

func (g *ImportGraph) Dense() Dense {
	return Dense{Names: g.names, Adj: g.succ}
}
