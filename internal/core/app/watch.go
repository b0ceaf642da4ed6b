package app

import (
	"context"
	"layercheck/internal/core/config"
	"layercheck/internal/core/ports"
	"layercheck/internal/core/watcher"
	"layercheck/internal/engine/parser"
	"layercheck/internal/shared/observability"
	"layercheck/internal/shared/util"
	"log/slog"
	"path/filepath"
)

// Watch re-checks the project after every debounced batch of changes until
// ctx is done. Re-checks beyond watch.max_rechecks_per_minute wait for the
// limiter; changes arriving meanwhile are folded into the next batch.
func (a *App) Watch(ctx context.Context, req ports.CheckRequest, onResult func(Outcome, error)) error {
	limiter := util.NewPerMinuteLimiter(a.Config.Watch.MaxRechecksPerMinute)

	w, err := watcher.New(a.Config.Watch.Debounce, a.Config.Watch.ExcludeDirs, a.Config.Watch.ExcludeFiles, func(paths []string) {
		err := limiter.Acquire(ctx, func() {
			observability.WatcherThrottledTotal.Inc()
			slog.Debug("re-check throttled", "files", len(paths))
		})
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		slog.Info("changes detected", "files", len(paths))
		out, err := a.Run(ctx, req)
		onResult(out, err)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	targets, filters := a.watchTargets()
	w.SetFilters(filters)
	if err := w.Watch(targets); err != nil {
		return err
	}
	slog.Info("watching for changes", "paths", targets)

	<-ctx.Done()
	return nil
}

func (a *App) watchTargets() ([]string, watcher.Filters) {
	if a.Paths.EdgesFile != "" {
		return []string{a.Paths.EdgesFile}, watcher.Filters{Filenames: []string{filepath.Base(a.Paths.EdgesFile)}}
	}
	lang := a.Config.Project.Language
	if a.Config.Project.Extractor == config.ExtractorPackages {
		lang = parser.LangGo
	}
	return []string{a.Paths.ProjectRoot}, watcher.FiltersFor(lang, a.Config.Project.IncludeTests)
}
