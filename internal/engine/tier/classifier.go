package tier

import (
	"layercheck/internal/core/errors"
	"sort"
)

// Rule maps modules matching Pattern onto Tier. Lower tiers sit higher in
// the architecture; a module may only depend on modules with an equal or
// higher tier number.
type Rule struct {
	Name    string
	Pattern string
	Tier    int
	Match   MatchKind
}

// Assignment is the outcome of classifying one module.
type Assignment struct {
	Tier       int
	Pattern    string
	Name       string
	Classified bool
}

// Classifier holds an ordered, compiled rule list.
type Classifier struct {
	rules    []Rule
	matchers []Matcher
	opts     Options
}

// NewClassifier compiles rules in caller order. The first matching rule
// determines a module's tier, so callers list specific patterns before broad
// ones.
func NewClassifier(rules []Rule, opts Options) (*Classifier, error) {
	c := &Classifier{
		rules:    make([]Rule, 0, len(rules)),
		matchers: make([]Matcher, 0, len(rules)),
		opts:     opts,
	}
	for i, rule := range rules {
		m, err := CompilePattern(rule.Pattern, rule.Match, opts)
		if err != nil {
			return nil, errors.AddContext(err, "rule", i)
		}
		if rule.Match == "" {
			rule.Match = MatchSubstring
		}
		c.rules = append(c.rules, rule)
		c.matchers = append(c.matchers, m)
	}
	return c, nil
}

// Classify returns the assignment of the first matching rule, or an
// unclassified assignment when none matches.
func (c *Classifier) Classify(path string) Assignment {
	if c == nil {
		return Assignment{}
	}
	for i, m := range c.matchers {
		if m.Match(path) {
			rule := c.rules[i]
			return Assignment{
				Tier:       rule.Tier,
				Pattern:    rule.Pattern,
				Name:       rule.Name,
				Classified: true,
			}
		}
	}
	return Assignment{}
}

// Rules returns a copy of the rule list.
func (c *Classifier) Rules() []Rule {
	if c == nil {
		return nil
	}
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Classifier) Options() Options {
	if c == nil {
		return Options{}
	}
	return c.opts
}

// Classify is a one-shot helper over default options. Rules whose pattern
// does not compile never match.
func Classify(path string, rules []Rule) Assignment {
	for _, rule := range rules {
		m, err := CompilePattern(rule.Pattern, rule.Match, Options{})
		if err != nil {
			continue
		}
		if m.Match(path) {
			return Assignment{Tier: rule.Tier, Pattern: rule.Pattern, Name: rule.Name, Classified: true}
		}
	}
	return Assignment{}
}

// Group lists the modules assigned to one tier.
type Group struct {
	Tier    int
	Names   []string
	Modules []string
}

// Distribution groups modules by tier in ascending tier order. Unclassified
// modules are returned separately. Module lists are sorted.
func (c *Classifier) Distribution(modules []string) ([]Group, []string) {
	byTier := make(map[int]*Group)
	names := make(map[int]map[string]bool)
	unclassified := make([]string, 0)

	for _, mod := range modules {
		a := c.Classify(mod)
		if !a.Classified {
			unclassified = append(unclassified, mod)
			continue
		}
		g, ok := byTier[a.Tier]
		if !ok {
			g = &Group{Tier: a.Tier}
			byTier[a.Tier] = g
			names[a.Tier] = make(map[string]bool)
		}
		g.Modules = append(g.Modules, mod)
		if a.Name != "" && !names[a.Tier][a.Name] {
			names[a.Tier][a.Name] = true
			g.Names = append(g.Names, a.Name)
		}
	}

	groups := make([]Group, 0, len(byTier))
	for _, g := range byTier {
		sort.Strings(g.Modules)
		sort.Strings(g.Names)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Tier < groups[j].Tier })
	sort.Strings(unclassified)
	return groups, unclassified
}
