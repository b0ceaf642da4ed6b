package config

import (
	"layercheck/internal/core/errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes TOML content, applies defaults and environment overrides,
// and validates the result.
func Parse(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalizeProject(&cfg)
	normalizeRules(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid config")
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Project.Root) == "" {
		cfg.Project.Root = "."
	}
	if strings.TrimSpace(cfg.Project.Extractor) == "" {
		cfg.Project.Extractor = ExtractorPackages
	}
	if strings.TrimSpace(cfg.Project.Language) == "" {
		cfg.Project.Language = "go"
	}
	if len(cfg.Project.Patterns) == 0 {
		cfg.Project.Patterns = []string{"./..."}
	}

	if strings.TrimSpace(cfg.Cycles.Strategy) == "" {
		cfg.Cycles.Strategy = "auto"
	}
	if cfg.Cycles.SCCThreshold == 0 {
		cfg.Cycles.SCCThreshold = 2000
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "data/database/layercheck.db"
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.ExcludeDirs == nil {
		cfg.Watch.ExcludeDirs = []string{".git", "vendor", "node_modules", "testdata"}
	}
	if cfg.Watch.MaxRechecksPerMinute == 0 {
		cfg.Watch.MaxRechecksPerMinute = 30
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "layercheck"
	}
}

// Python and Java module names are dotted.
func defaultSeparator(p Project) string {
	if strings.EqualFold(strings.TrimSpace(p.Extractor), ExtractorSource) {
		switch strings.ToLower(strings.TrimSpace(p.Language)) {
		case "python", "java":
			return "."
		}
	}
	return "/"
}

func normalizeProject(cfg *Config) {
	cfg.Project.Extractor = strings.ToLower(strings.TrimSpace(cfg.Project.Extractor))
	cfg.Project.Language = strings.ToLower(strings.TrimSpace(cfg.Project.Language))
	if cfg.Project.Separator == "" {
		cfg.Project.Separator = defaultSeparator(cfg.Project)
	}
	cfg.Project.Namespace = strings.TrimSuffix(strings.TrimSpace(cfg.Project.Namespace), cfg.Project.Separator)
	cfg.Project.Root = strings.TrimSpace(cfg.Project.Root)
	cfg.Project.EdgesFile = strings.TrimSpace(cfg.Project.EdgesFile)
	patterns := make([]string, 0, len(cfg.Project.Patterns))
	for _, p := range cfg.Project.Patterns {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	cfg.Project.Patterns = patterns
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Cycles.Strategy = strings.ToLower(strings.TrimSpace(cfg.Cycles.Strategy))
}

// Tier and boundary patterns are kept verbatim: a trailing separator is
// significant for substring matching.
func normalizeRules(cfg *Config) {
	for i := range cfg.Tiers {
		cfg.Tiers[i].Name = strings.TrimSpace(cfg.Tiers[i].Name)
		cfg.Tiers[i].Match = strings.ToLower(strings.TrimSpace(cfg.Tiers[i].Match))
	}
	for i := range cfg.Boundaries {
		cfg.Boundaries[i].Name = strings.TrimSpace(cfg.Boundaries[i].Name)
		cfg.Boundaries[i].Match = strings.ToLower(strings.TrimSpace(cfg.Boundaries[i].Match))
	}
}
