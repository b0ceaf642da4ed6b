package config

import (
	"strings"
	"time"
)

const DefaultFileName = "layercheck.toml"

const (
	ExtractorPackages = "packages"
	ExtractorSource   = "source"
)

type Config struct {
	Version       int           `toml:"version"`
	Project       Project       `toml:"project"`
	Tiers         []Tier        `toml:"tiers"`
	Boundaries    []Boundary    `toml:"boundaries"`
	Cycles        Cycles        `toml:"cycles"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Project struct {
	// Namespace is the module path prefix of internal packages. Detected
	// from go.mod when empty.
	Namespace    string   `toml:"namespace"`
	Root         string   `toml:"root"`
	Separator    string   `toml:"separator"`
	Patterns     []string `toml:"patterns"`
	IncludeTests bool     `toml:"include_tests"`
	EdgesFile    string   `toml:"edges_file"`
	// Extractor selects how the import graph is obtained: "packages" loads
	// Go packages, "source" parses files of Language with tree-sitter.
	Extractor string `toml:"extractor"`
	Language  string `toml:"language"`
}

// Tier is one ordered classification rule. Order in the file is evaluation
// order.
type Tier struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
	Tier    int    `toml:"tier"`
	Match   string `toml:"match"`
}

type Boundary struct {
	Name     string   `toml:"name"`
	Public   []string `toml:"public"`
	Internal []string `toml:"internal"`
	Match    string   `toml:"match"`
}

type Cycles struct {
	Strategy     string `toml:"strategy"`
	SCCThreshold int    `toml:"scc_threshold"`
	Witness      *bool  `toml:"witness"`
}

type Database struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Watch struct {
	Debounce             time.Duration `toml:"debounce"`
	ExcludeDirs          []string      `toml:"exclude_dirs"`
	ExcludeFiles         []string      `toml:"exclude_files"`
	MaxRechecksPerMinute int           `toml:"max_rechecks_per_minute"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"`
	Dot    string `toml:"dot"`
	Color  *bool  `toml:"color"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	OTLPInsecure  bool   `toml:"otlp_insecure"`
	ServiceName   string `toml:"service_name"`
}

func (c Cycles) WitnessEnabled() bool {
	return c.Witness == nil || *c.Witness
}

func (o Output) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// ProjectKeyOr returns the configured history key or fallback when unset.
func (d Database) ProjectKeyOr(fallback string) string {
	if key := strings.TrimSpace(d.ProjectKey); key != "" {
		return key
	}
	return fallback
}
