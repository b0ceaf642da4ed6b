package app

import (
	"context"
	"layercheck/internal/core/errors"
	"layercheck/internal/core/ports"
	"layercheck/internal/data/history"
	"layercheck/internal/engine/analysis"
	"layercheck/internal/shared/observability"
	"layercheck/internal/shared/util"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.CheckService = (*App)(nil)

func (a *App) CheckService() ports.CheckService {
	return a
}

// Check extracts the graph, runs the analysis and optionally records a
// history snapshot. A failed snapshot write is logged, not returned.
func (a *App) Check(ctx context.Context, req ports.CheckRequest) (ports.CheckResult, error) {
	out, err := a.Run(ctx, req)
	if err != nil {
		return ports.CheckResult{}, err
	}
	return out.Result, nil
}

// Outcome pairs the port-level result with the full analysis, which carries
// the classifier for interactive views.
type Outcome struct {
	Result   ports.CheckResult
	Analysis analysis.Result
}

// Run is Check returning the full analysis.
func (a *App) Run(ctx context.Context, req ports.CheckRequest) (Outcome, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Check", trace.WithAttributes(
		attribute.Bool("history.record", req.RecordHistory),
	))
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	edges, err := a.extractor.Extract(ctx)
	observability.AnalysisDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ChecksTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		if !errors.IsCode(err, errors.CodeExtractionFailure) {
			err = errors.Wrap(err, errors.CodeExtractionFailure, "extract import graph")
		}
		return Outcome{}, errors.AddContext(err, errors.CtxOperation, "extract")
	}

	res, err := a.analyzer.Run(ctx, edges)
	if err != nil {
		observability.ChecksTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		return Outcome{}, errors.AddContext(err, errors.CtxOperation, "analyze")
	}

	out := Outcome{
		Analysis: res,
		Result: ports.CheckResult{
			Report:   res.Report,
			Graph:    res.Graph,
			Strategy: string(res.Strategy),
			Duration: time.Since(start),
		},
	}
	if res.Report.IsClean() {
		observability.ChecksTotal.WithLabelValues("clean").Inc()
	} else {
		observability.ChecksTotal.WithLabelValues("findings").Inc()
	}

	if req.RecordHistory && a.history != nil {
		snapshot := a.snapshot(ctx, res)
		if err := a.history.SaveSnapshot(snapshot.ProjectKey, snapshot); err != nil {
			slog.Warn("failed to record history snapshot", "error", err)
		} else {
			out.Result.Snapshot = &snapshot
		}
	}

	last := out.Result
	a.last = &last

	slog.Info("check complete",
		"edges", len(edges),
		"violations", res.Report.ViolationCount,
		"cycles", res.Report.CycleCount,
		"duration", out.Result.Duration,
	)
	return out, nil
}

func (a *App) snapshot(ctx context.Context, res analysis.Result) history.Snapshot {
	s := history.NewSnapshot(res.Report)
	s.ProjectKey = a.ProjectKey()
	s.Timestamp = time.Now().UTC()
	s.CommitHash, s.CommitTimestamp = history.ResolveGitMetadata(ctx, a.Paths.ProjectRoot)
	return s
}

// ProjectKey is the history key of this project.
func (a *App) ProjectKey() string {
	return a.Config.DB.ProjectKeyOr(a.Namespace)
}

// Trend summarises the recorded history of this project since the given
// time. It is VALIDATION_ERROR without a history store and NOT_FOUND when no
// snapshot matches.
func (a *App) Trend(since time.Time, window time.Duration) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, errors.New(errors.CodeValidationError, "history store unavailable")
	}
	key := a.ProjectKey()
	snapshots, err := a.history.LoadSnapshots(key, since)
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.BuildTrendReport(key, snapshots, window)
}

// TraceChain returns the shortest import chain from one module to another.
// It reuses the last checked graph and runs a check when there is none.
// Names may omit the namespace.
func (a *App) TraceChain(ctx context.Context, from, to string) ([]string, error) {
	result, ok := a.LastResult()
	if !ok {
		var err error
		result, err = a.Check(ctx, ports.CheckRequest{})
		if err != nil {
			return nil, err
		}
	}
	g := result.Graph

	qualify := func(name string) (string, error) {
		if g.HasModule(name) {
			return name, nil
		}
		if full := util.JoinNamespace(g.Namespace(), name, g.Separator()); g.HasModule(full) {
			return full, nil
		}
		return "", errors.AddContext(
			errors.New(errors.CodeNotFound, "module not in import graph"),
			errors.CtxModule, name,
		)
	}

	fromName, err := qualify(from)
	if err != nil {
		return nil, err
	}
	toName, err := qualify(to)
	if err != nil {
		return nil, err
	}

	chain, found := g.FindChain(fromName, toName)
	if !found {
		err := errors.Newf(errors.CodeNotFound, "no import chain from %s to %s", fromName, toName)
		return nil, errors.AddContext(err, errors.CtxOperation, "trace")
	}
	return chain, nil
}
