package cli

import (
	"context"
	"fmt"
	coreapp "layercheck/internal/core/app"
	"layercheck/internal/core/ports"
	"layercheck/internal/ui/tui"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// watchState tracks the latest re-check for /health.
type watchState struct {
	mu      sync.Mutex
	at      time.Time
	outcome *coreapp.Outcome
	err     error
}

func (s *watchState) record(out coreapp.Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.at = time.Now().UTC()
	s.err = err
	if err == nil {
		s.outcome = &out
	}
}

func (s *watchState) health() HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := HealthStatus{Status: "up", LastCheck: s.at}
	if s.err != nil {
		status.Status = "degraded"
		status.Error = s.err.Error()
	}
	if s.outcome != nil {
		r := s.outcome.Result.Report
		status.Clean = r.IsClean()
		status.Violations = r.ViolationCount
		status.Cycles = r.CycleCount
	}
	return status
}

func newWatchCommand(opts *globalOptions) *cobra.Command {
	o := &checkOptions{}
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check the project whenever its sources change",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setupRuntime(cmd, opts, runtimeOptions{uiMode: o.ui, history: o.history})
			if err != nil {
				return err
			}
			defer rt.Close()
			return runWatch(cmd, rt, o, metricsAddr)
		},
	}
	addCheckFlags(cmd, o)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address (default observability.metrics_addr)")
	return cmd
}

func runWatch(cmd *cobra.Command, rt *runtime, o *checkOptions, metricsAddr string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	state := &watchState{}
	if metricsAddr == "" {
		metricsAddr = rt.cfg.Observability.MetricsAddr
	}
	if metricsAddr != "" {
		srv := NewObservabilityServer(metricsAddr, state.health)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("start observability server: %w", err)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	req := ports.CheckRequest{RecordHistory: rt.cfg.DB.Enabled}
	first, err := rt.app.Run(ctx, req)
	state.record(first, err)
	if err != nil {
		return err
	}

	if o.ui {
		return watchWithUI(ctx, cancel, rt, req, state, first)
	}

	if err := writeReports(cmd, rt, first, o); err != nil {
		return err
	}
	return rt.app.Watch(ctx, req, func(out coreapp.Outcome, err error) {
		state.record(out, err)
		if err != nil {
			slog.Error("re-check failed", "error", err)
			return
		}
		if err := writeReports(cmd, rt, out, o); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	})
}

func watchWithUI(ctx context.Context, cancel context.CancelFunc, rt *runtime, req ports.CheckRequest, state *watchState, first coreapp.Outcome) error {
	updates := make(chan tui.Update, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- rt.app.Watch(ctx, req, func(out coreapp.Outcome, err error) {
			state.record(out, err)
			if err != nil {
				slog.Error("re-check failed", "error", err)
				return
			}
			select {
			case updates <- tui.Update{Result: out.Analysis, At: time.Now()}:
			case <-ctx.Done():
			}
		})
	}()

	trend := loadTrend(rt, time.Time{}, 24*time.Hour)
	uiErr := tui.Run(ctx, tui.Update{Result: first.Analysis, At: time.Now()}, trend, updates)
	cancel()
	if err := <-watchErr; err != nil {
		return err
	}
	return uiErr
}
