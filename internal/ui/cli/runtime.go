package cli

import (
	"context"
	"fmt"
	"io"
	coreapp "layercheck/internal/core/app"
	"layercheck/internal/core/config"
	"layercheck/internal/core/errors"
	"layercheck/internal/shared/observability"
	"layercheck/internal/shared/util"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type runtimeOptions struct {
	uiMode bool
	// history forces the history store open regardless of db.enabled.
	history bool
}

type runtime struct {
	cfg     *config.Config
	cfgPath string
	paths   config.ResolvedPaths
	app     *coreapp.App
	closers []func()
}

func setupRuntime(cmd *cobra.Command, opts *globalOptions, ro runtimeOptions) (*runtime, error) {
	rt := &runtime{}
	rt.closers = append(rt.closers, configureLogging(cmd.ErrOrStderr(), ro.uiMode, opts.verbose))

	cwd, err := os.Getwd()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	cfg, cfgPath, err := loadConfig(opts, cwd)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if err := applyGlobalOverrides(cfg, opts); err != nil {
		rt.Close()
		return nil, err
	}
	if ro.history {
		cfg.DB.Enabled = true
	}
	rt.cfg, rt.cfgPath = cfg, cfgPath

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.paths = paths

	shutdown, err := observability.SetupTracing(cmd.Context(), observability.TracingConfig{
		Enabled:      cfg.Observability.EnableTracing,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		Insecure:     cfg.Observability.OTLPInsecure,
		ServiceName:  cfg.Observability.ServiceName,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		rt.closers = append(rt.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		})
	}

	for _, shadowed := range config.ShadowedTiers(cfg) {
		slog.Warn("tier rule can never match", "rule", shadowed)
	}

	a, err := coreapp.New(cfg, paths)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.app = a
	rt.closers = append(rt.closers, func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	})
	slog.Debug("runtime ready", "config", cfgPath, "root", paths.ProjectRoot, "namespace", a.Namespace)
	return rt, nil
}

// Close runs cleanups in reverse order.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func loadConfig(opts *globalOptions, cwd string) (*config.Config, string, error) {
	if path := strings.TrimSpace(opts.configPath); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, path, nil
	}

	dirs := []string{cwd}
	if opts.root != "" {
		dirs = append([]string{opts.root}, dirs...)
	}
	for _, dir := range dirs {
		if candidate := config.DiscoverDefault(dir); candidate != "" {
			cfg, err := config.Load(candidate)
			if err != nil {
				return nil, "", fmt.Errorf("load config %s: %w", candidate, err)
			}
			return cfg, candidate, nil
		}
	}
	return nil, "", errors.Newf(errors.CodeNotFound,
		"no %s found in %s; pass --config", config.DefaultFileName, strings.Join(dirs, " or "))
}

// applyGlobalOverrides applies --root and --edges. Flag paths are taken
// relative to the working directory.
func applyGlobalOverrides(cfg *config.Config, opts *globalOptions) error {
	if opts.root != "" {
		abs, err := filepath.Abs(opts.root)
		if err != nil {
			return fmt.Errorf("resolve --root: %w", err)
		}
		cfg.Project.Root = abs
	}
	if opts.edges != "" {
		abs, err := filepath.Abs(opts.edges)
		if err != nil {
			return fmt.Errorf("resolve --edges: %w", err)
		}
		cfg.Project.EdgesFile = abs
	}
	return nil
}

// configureLogging logs to w, or to a state file in UI mode so log lines do
// not corrupt the terminal.
func configureLogging(w io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := w
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(w, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(w, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(w, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "layercheck", "layercheck.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "layercheck", "layercheck.log")
	}

	return "layercheck.log"
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func parseWindow(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("--window must be a Go duration (example: 24h), got %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--window must be > 0, got %q", value)
	}
	return d, nil
}

// writeOutput writes to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("wrote output", "path", path)
	return nil
}
