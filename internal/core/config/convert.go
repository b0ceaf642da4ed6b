package config

import (
	"layercheck/internal/engine/analysis"
	"layercheck/internal/engine/cycles"
	"layercheck/internal/engine/layering"
	"layercheck/internal/engine/tier"
)

// AnalysisOptions converts the rule sections into engine options. namespace
// overrides project.namespace when non-empty, which lets callers pass a
// namespace detected from go.mod.
func (c *Config) AnalysisOptions(namespace string) (analysis.Options, error) {
	if namespace == "" {
		namespace = c.Project.Namespace
	}
	opts := analysis.Options{
		Namespace: namespace,
		Separator: c.Project.Separator,
		Rules:     make([]tier.Rule, 0, len(c.Tiers)),
	}

	for _, t := range c.Tiers {
		kind, err := tier.ParseMatchKind(t.Match)
		if err != nil {
			return analysis.Options{}, err
		}
		opts.Rules = append(opts.Rules, tier.Rule{Name: t.Name, Pattern: t.Pattern, Tier: t.Tier, Match: kind})
	}

	opts.Boundaries = make([]layering.Boundary, 0, len(c.Boundaries))
	for _, b := range c.Boundaries {
		kind, err := tier.ParseMatchKind(b.Match)
		if err != nil {
			return analysis.Options{}, err
		}
		opts.Boundaries = append(opts.Boundaries, layering.Boundary{
			Name:     b.Name,
			Public:   append([]string(nil), b.Public...),
			Internal: append([]string(nil), b.Internal...),
			Match:    kind,
		})
	}

	strategy, err := cycles.ParseStrategy(c.Cycles.Strategy)
	if err != nil {
		return analysis.Options{}, err
	}
	opts.Cycles = cycles.Options{
		Strategy:     strategy,
		SCCThreshold: c.Cycles.SCCThreshold,
		NoWitness:    !c.Cycles.WitnessEnabled(),
	}
	return opts, nil
}
