// Package app wires configuration, extraction, analysis and history into the
// check service used by the CLI.
package app

import (
	"layercheck/internal/core/config"
	"layercheck/internal/core/errors"
	"layercheck/internal/core/ports"
	"layercheck/internal/data/extract"
	"layercheck/internal/data/history"
	"layercheck/internal/engine/analysis"
	"layercheck/internal/engine/parser"
	"layercheck/internal/engine/tier"
	"log/slog"
	"sync"
)

type App struct {
	Config    *config.Config
	Paths     config.ResolvedPaths
	Namespace string

	extractor ports.GraphExtractor
	analyzer  *analysis.Analyzer
	history   ports.HistoryStore
	store     *history.Store

	// mu serialises checks so watch-mode re-checks never overlap.
	mu   sync.Mutex
	last *ports.CheckResult
}

type Option func(*App)

// WithExtractor replaces the extractor derived from the config.
func WithExtractor(e ports.GraphExtractor) Option {
	return func(a *App) { a.extractor = e }
}

// WithHistoryStore replaces the SQLite store opened from [db].
func WithHistoryStore(s ports.HistoryStore) Option {
	return func(a *App) { a.history = s }
}

// New compiles the rules of cfg. The history store is opened only when
// [db] is enabled and no store was injected.
func New(cfg *config.Config, paths config.ResolvedPaths, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	a := &App{Config: cfg, Paths: paths}
	for _, opt := range opts {
		opt(a)
	}

	a.Namespace = resolveNamespace(cfg, paths)

	analysisOpts, err := cfg.AnalysisOptions(a.Namespace)
	if err != nil {
		return nil, err
	}
	a.analyzer, err = analysis.New(analysisOpts)
	if err != nil {
		return nil, err
	}

	if a.extractor == nil {
		a.extractor = newExtractor(cfg, paths, a.Namespace)
	}

	if a.history == nil && cfg.DB.Enabled {
		store, err := history.Open(paths.DBPath)
		if err != nil {
			msg := "open history store"
			if history.IsCorruptError(err) {
				msg = "history database is corrupt; remove it to start a new history"
			}
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeInternal, msg),
				errors.CtxPath, paths.DBPath,
			)
		}
		slog.Debug("history store opened", "path", store.Path())
		a.store = store
		a.history = history.NewAdapter(store)
	}
	return a, nil
}

// resolveNamespace returns the configured namespace, or the go.mod module
// path for Go projects. Other languages and edge files keep an empty
// namespace unless one is configured.
func resolveNamespace(cfg *config.Config, paths config.ResolvedPaths) string {
	if cfg.Project.Namespace != "" {
		return cfg.Project.Namespace
	}
	if paths.EdgesFile != "" || !isGoProject(cfg) {
		return ""
	}
	ns, err := extract.DetectNamespace(paths.ProjectRoot)
	if err != nil {
		slog.Debug("namespace detection failed", "root", paths.ProjectRoot, "error", err)
		return ""
	}
	return ns
}

func isGoProject(cfg *config.Config) bool {
	return cfg.Project.Extractor == config.ExtractorPackages || cfg.Project.Language == parser.LangGo
}

func newExtractor(cfg *config.Config, paths config.ResolvedPaths, namespace string) ports.GraphExtractor {
	if paths.EdgesFile != "" {
		return extract.EdgeFile{Path: paths.EdgesFile}
	}
	if cfg.Project.Extractor == config.ExtractorSource {
		return extract.Source{
			Root:         paths.ProjectRoot,
			Language:     cfg.Project.Language,
			Namespace:    namespace,
			IncludeTests: cfg.Project.IncludeTests,
			ExcludeDirs:  cfg.Watch.ExcludeDirs,
			ExcludeFiles: cfg.Watch.ExcludeFiles,
		}
	}
	return extract.GoPackages{
		Root:      paths.ProjectRoot,
		Patterns:  cfg.Project.Patterns,
		Namespace: namespace,
		Tests:     cfg.Project.IncludeTests,
	}
}

func (a *App) Extractor() ports.GraphExtractor {
	return a.extractor
}

// HistoryStore returns nil when history is disabled.
func (a *App) HistoryStore() ports.HistoryStore {
	return a.history
}

// Classify reports the tier assignment of a module path.
func (a *App) Classify(path string) tier.Assignment {
	return a.analyzer.Classifier().Classify(path)
}

// LastResult returns the most recent check, if any.
func (a *App) LastResult() (ports.CheckResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return ports.CheckResult{}, false
	}
	return *a.last, true
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
