package config

import (
	"fmt"
	"layercheck/internal/engine/cycles"
	"layercheck/internal/engine/parser"
	"layercheck/internal/engine/tier"
	"slices"
	"strings"
	"unicode"
)

var validFormats = map[string]bool{
	"text":     true,
	"json":     true,
	"markdown": true,
	"sarif":    true,
	"tsv":      true,
	"dot":      true,
}

func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateProject(cfg); err != nil {
		return err
	}
	if err := validateTiers(cfg); err != nil {
		return err
	}
	if err := validateBoundaries(cfg); err != nil {
		return err
	}
	if err := validateCycles(cfg); err != nil {
		return err
	}
	if err := validateDatabase(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	return validateOutput(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateProject(cfg *Config) error {
	sep := cfg.Project.Separator
	if strings.IndexFunc(sep, unicode.IsSpace) >= 0 {
		return fmt.Errorf("project.separator must not contain whitespace, got %q", sep)
	}
	if strings.IndexFunc(cfg.Project.Namespace, unicode.IsSpace) >= 0 {
		return fmt.Errorf("project.namespace must not contain whitespace, got %q", cfg.Project.Namespace)
	}
	switch cfg.Project.Extractor {
	case ExtractorPackages:
		if cfg.Project.Language != "go" {
			return fmt.Errorf("project.extractor %q only supports language \"go\", got %q", ExtractorPackages, cfg.Project.Language)
		}
	case ExtractorSource:
		if !slices.Contains(parser.SupportedLanguages(), cfg.Project.Language) {
			return fmt.Errorf("project.language must be one of %s, got %q",
				strings.Join(parser.SupportedLanguages(), ", "), cfg.Project.Language)
		}
	default:
		return fmt.Errorf("project.extractor must be %q or %q, got %q", ExtractorPackages, ExtractorSource, cfg.Project.Extractor)
	}
	if len(cfg.Project.Patterns) == 0 && cfg.Project.EdgesFile == "" {
		return fmt.Errorf("project.patterns must not be empty")
	}
	return nil
}

func pathOptions(cfg *Config) tier.Options {
	return tier.Options{Namespace: cfg.Project.Namespace, Separator: cfg.Project.Separator}
}

func validateTiers(cfg *Config) error {
	if len(cfg.Tiers) == 0 {
		return fmt.Errorf("at least one [[tiers]] rule is required")
	}
	opts := pathOptions(cfg)
	for i, t := range cfg.Tiers {
		ref := fmt.Sprintf("tiers[%d]", i)
		if strings.TrimSpace(t.Pattern) == "" {
			return fmt.Errorf("%s.pattern must not be empty", ref)
		}
		kind, err := tier.ParseMatchKind(t.Match)
		if err != nil {
			return fmt.Errorf("%s.match: %w", ref, err)
		}
		if _, err := tier.CompilePattern(t.Pattern, kind, opts); err != nil {
			return fmt.Errorf("%s.pattern: %w", ref, err)
		}
	}
	return nil
}

func validateBoundaries(cfg *Config) error {
	if len(cfg.Boundaries) == 0 {
		return fmt.Errorf("at least one [[boundaries]] entry is required")
	}
	opts := pathOptions(cfg)
	seen := make(map[string]bool, len(cfg.Boundaries))
	for i, b := range cfg.Boundaries {
		ref := fmt.Sprintf("boundaries[%d]", i)
		if b.Name != "" {
			if seen[b.Name] {
				return fmt.Errorf("duplicate boundary name %q", b.Name)
			}
			seen[b.Name] = true
		}
		if len(b.Public) == 0 {
			return fmt.Errorf("%s.public must list at least one pattern", ref)
		}
		if len(b.Internal) == 0 {
			return fmt.Errorf("%s.internal must list at least one pattern", ref)
		}
		kind, err := tier.ParseMatchKind(b.Match)
		if err != nil {
			return fmt.Errorf("%s.match: %w", ref, err)
		}
		for j, p := range b.Public {
			if _, err := tier.CompilePattern(p, kind, opts); err != nil {
				return fmt.Errorf("%s.public[%d]: %w", ref, j, err)
			}
		}
		for j, p := range b.Internal {
			if _, err := tier.CompilePattern(p, kind, opts); err != nil {
				return fmt.Errorf("%s.internal[%d]: %w", ref, j, err)
			}
		}
	}
	return nil
}

func validateCycles(cfg *Config) error {
	if _, err := cycles.ParseStrategy(cfg.Cycles.Strategy); err != nil {
		return fmt.Errorf("cycles.strategy: %w", err)
	}
	if cfg.Cycles.SCCThreshold < 0 {
		return fmt.Errorf("cycles.scc_threshold must be >= 0, got %d", cfg.Cycles.SCCThreshold)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty when db.enabled is true")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRechecksPerMinute < 0 {
		return fmt.Errorf("watch.max_rechecks_per_minute must be >= 0, got %d", cfg.Watch.MaxRechecksPerMinute)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: text, json, markdown, sarif, tsv, dot; got %q", cfg.Output.Format)
	}
	return nil
}

// ShadowedTiers lists substring rules that can never match because an
// earlier substring rule's pattern occurs inside theirs.
func ShadowedTiers(cfg *Config) []string {
	warnings := make([]string, 0)
	for i, later := range cfg.Tiers {
		if later.Match != "" && later.Match != string(tier.MatchSubstring) {
			continue
		}
		for j := 0; j < i; j++ {
			earlier := cfg.Tiers[j]
			if earlier.Match != "" && earlier.Match != string(tier.MatchSubstring) {
				continue
			}
			if strings.Contains(later.Pattern, earlier.Pattern) {
				warnings = append(warnings, fmt.Sprintf(
					"tiers[%d] pattern %q is shadowed by tiers[%d] pattern %q", i, later.Pattern, j, earlier.Pattern,
				))
				break
			}
		}
	}
	return warnings
}
