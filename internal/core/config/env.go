package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: LAYERCHECK_[SECTION]_[KEY] (e.g., LAYERCHECK_DB_PATH).
func ApplyEnvOverrides(cfg *Config) {
	// Project
	setEnvString(&cfg.Project.Namespace, "LAYERCHECK_PROJECT_NAMESPACE")
	setEnvString(&cfg.Project.Root, "LAYERCHECK_PROJECT_ROOT")
	setEnvString(&cfg.Project.Separator, "LAYERCHECK_PROJECT_SEPARATOR")
	setEnvString(&cfg.Project.EdgesFile, "LAYERCHECK_PROJECT_EDGES_FILE")
	setEnvBool(&cfg.Project.IncludeTests, "LAYERCHECK_PROJECT_INCLUDE_TESTS")
	setEnvString(&cfg.Project.Extractor, "LAYERCHECK_PROJECT_EXTRACTOR")
	setEnvString(&cfg.Project.Language, "LAYERCHECK_PROJECT_LANGUAGE")

	// Cycles
	setEnvString(&cfg.Cycles.Strategy, "LAYERCHECK_CYCLES_STRATEGY")
	setEnvInt(&cfg.Cycles.SCCThreshold, "LAYERCHECK_CYCLES_SCC_THRESHOLD")

	// Database
	setEnvBool(&cfg.DB.Enabled, "LAYERCHECK_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "LAYERCHECK_DB_PATH")
	setEnvString(&cfg.DB.ProjectKey, "LAYERCHECK_DB_PROJECT_KEY")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "LAYERCHECK_WATCH_DEBOUNCE")
	setEnvInt(&cfg.Watch.MaxRechecksPerMinute, "LAYERCHECK_WATCH_MAX_RECHECKS_PER_MINUTE")

	// Output
	setEnvString(&cfg.Output.Format, "LAYERCHECK_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "LAYERCHECK_OUTPUT_PATH")
	setEnvString(&cfg.Output.Dot, "LAYERCHECK_OUTPUT_DOT")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "LAYERCHECK_OBSERVABILITY_METRICS_ADDR")
	setEnvBool(&cfg.Observability.EnableTracing, "LAYERCHECK_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "LAYERCHECK_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.OTLPInsecure, "LAYERCHECK_OBSERVABILITY_OTLP_INSECURE")
	setEnvString(&cfg.Observability.ServiceName, "LAYERCHECK_OBSERVABILITY_SERVICE_NAME")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		} else {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		} else {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		} else {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
		}
	}
}
