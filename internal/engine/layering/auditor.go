package layering

import (
	"fmt"
	"layercheck/internal/core/errors"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/tier"
	"sort"
	"strings"
)

type Kind string

const (
	UpwardDependency    Kind = "UpwardDependency"
	EncapsulationBreach Kind = "EncapsulationBreach"
)

func (k Kind) rank() int {
	switch k {
	case UpwardDependency:
		return 0
	case EncapsulationBreach:
		return 1
	default:
		return 2
	}
}

// Boundary forbids modules matching Public from reaching modules matching
// Internal directly.
type Boundary struct {
	Name     string
	Public   []string
	Internal []string
	Match    tier.MatchKind
}

type Violation struct {
	From        string `json:"from"`
	To          string `json:"to"`
	FromTier    int    `json:"from_tier"`
	ToTier      int    `json:"to_tier"`
	FromPattern string `json:"from_pattern,omitempty"`
	ToPattern   string `json:"to_pattern,omitempty"`
	Kind        Kind   `json:"kind"`
	Boundary    string `json:"boundary,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case EncapsulationBreach:
		return fmt.Sprintf("%s -> %s breaches %s", v.From, v.To, v.Boundary)
	default:
		return fmt.Sprintf("%s (tier %d) -> %s (tier %d)", v.From, v.FromTier, v.To, v.ToTier)
	}
}

type compiledBoundary struct {
	name     string
	public   tier.MatcherSet
	internal tier.MatcherSet
}

type Auditor struct {
	classifier *tier.Classifier
	boundaries []compiledBoundary
}

// NewAuditor compiles boundaries with the classifier's path options.
func NewAuditor(classifier *tier.Classifier, boundaries []Boundary) (*Auditor, error) {
	if classifier == nil {
		return nil, errors.New(errors.CodeValidationError, "auditor requires a classifier")
	}
	opts := classifier.Options()

	a := &Auditor{classifier: classifier}
	for i, b := range boundaries {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			name = fmt.Sprintf("boundary[%d]", i)
		}
		if len(b.Public) == 0 || len(b.Internal) == 0 {
			return nil, errors.AddContext(
				errors.New(errors.CodeValidationError, "boundary needs at least one public and one internal pattern"),
				"boundary", name,
			)
		}
		public, err := tier.CompilePatterns(b.Public, b.Match, opts)
		if err != nil {
			return nil, errors.AddContext(err, "boundary", name)
		}
		internal, err := tier.CompilePatterns(b.Internal, b.Match, opts)
		if err != nil {
			return nil, errors.AddContext(err, "boundary", name)
		}
		a.boundaries = append(a.boundaries, compiledBoundary{name: name, public: public, internal: internal})
	}
	return a, nil
}

// Audit checks every edge of g and returns the sorted violations.
func (a *Auditor) Audit(g *graph.ImportGraph) []Violation {
	cache := make(map[string]tier.Assignment, g.ModuleCount())
	classify := func(mod string) tier.Assignment {
		if got, ok := cache[mod]; ok {
			return got
		}
		got := a.classifier.Classify(mod)
		cache[mod] = got
		return got
	}

	violations := make([]Violation, 0)
	for _, e := range g.Edges() {
		violations = a.appendEdge(violations, e, classify(e.From), classify(e.To))
	}
	SortViolations(violations)
	return violations
}

// AuditEdge reports the violations a single edge would produce.
func (a *Auditor) AuditEdge(e graph.Edge) []Violation {
	out := a.appendEdge(nil, e, a.classifier.Classify(e.From), a.classifier.Classify(e.To))
	SortViolations(out)
	return out
}

func (a *Auditor) appendEdge(dst []Violation, e graph.Edge, from, to tier.Assignment) []Violation {
	base := Violation{
		From:        e.From,
		To:          e.To,
		FromTier:    from.Tier,
		ToTier:      to.Tier,
		FromPattern: from.Pattern,
		ToPattern:   to.Pattern,
	}

	if from.Classified && to.Classified && from.Tier > to.Tier {
		v := base
		v.Kind = UpwardDependency
		dst = append(dst, v)
	}

	for _, b := range a.boundaries {
		if _, ok := b.public.Match(e.From); !ok {
			continue
		}
		if _, ok := b.internal.Match(e.To); !ok {
			continue
		}
		v := base
		v.Kind = EncapsulationBreach
		v.Boundary = b.name
		dst = append(dst, v)
	}
	return dst
}

// SortViolations orders by (FromTier, ToTier, From, To, Kind, Boundary).
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.FromTier != b.FromTier {
			return a.FromTier < b.FromTier
		}
		if a.ToTier != b.ToTier {
			return a.ToTier < b.ToTier
		}
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		if a.Kind != b.Kind {
			return a.Kind.rank() < b.Kind.rank()
		}
		return a.Boundary < b.Boundary
	})
}
