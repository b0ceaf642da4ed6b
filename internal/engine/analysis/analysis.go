package analysis

import (
	"context"
	"layercheck/internal/engine/cycles"
	"layercheck/internal/engine/findings"
	"layercheck/internal/engine/graph"
	"layercheck/internal/engine/layering"
	"layercheck/internal/engine/tier"
	"layercheck/internal/shared/observability"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Namespace  string
	Separator  string
	Rules      []tier.Rule
	Boundaries []layering.Boundary
	Cycles     cycles.Options
}

// Result carries the report together with the graph it was computed from.
type Result struct {
	Report     findings.Report
	Graph      *graph.ImportGraph
	Classifier *tier.Classifier
	Auditor    *layering.Auditor
	Strategy   cycles.Strategy
}

// Analyzer holds compiled rules so repeated runs skip validation.
type Analyzer struct {
	opts       Options
	classifier *tier.Classifier
	auditor    *layering.Auditor
	detector   *cycles.Detector
}

func New(opts Options) (*Analyzer, error) {
	classifier, err := tier.NewClassifier(opts.Rules, tier.Options{
		Namespace: opts.Namespace,
		Separator: opts.Separator,
	})
	if err != nil {
		return nil, err
	}
	auditor, err := layering.NewAuditor(classifier, opts.Boundaries)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		opts:       opts,
		classifier: classifier,
		auditor:    auditor,
		detector:   cycles.NewDetector(opts.Cycles),
	}, nil
}

func (a *Analyzer) Classifier() *tier.Classifier {
	return a.classifier
}

func (a *Analyzer) Auditor() *layering.Auditor {
	return a.auditor
}

// Build constructs the graph with the analyzer's namespace and separator.
func (a *Analyzer) Build(edges []graph.Edge) (*graph.ImportGraph, error) {
	return graph.Build(edges, graph.WithNamespace(a.opts.Namespace), graph.WithSeparator(a.opts.Separator))
}

// Run builds the graph and runs the auditor and the cycle detector
// concurrently over it. ctx is only consulted before the work starts.
func (a *Analyzer) Run(ctx context.Context, edges []graph.Edge) (Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.Run", trace.WithAttributes(
		attribute.Int("edges.input", len(edges)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	g, err := a.Build(edges)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "graph build failed")
		return Result{}, err
	}
	observability.AnalysisDuration.WithLabelValues("build").Observe(time.Since(start).Seconds())
	observability.GraphNodes.Set(float64(g.ModuleCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	strategy := a.detector.StrategyFor(g.ModuleCount())
	var (
		violations []layering.Violation
		pairs      []cycles.Pair
	)

	var eg errgroup.Group
	eg.Go(func() error {
		stageStart := time.Now()
		violations = a.auditor.Audit(g)
		observability.AnalysisDuration.WithLabelValues("audit").Observe(time.Since(stageStart).Seconds())
		return nil
	})
	eg.Go(func() error {
		stageStart := time.Now()
		pairs = a.detector.Detect(g)
		observability.AnalysisDuration.WithLabelValues("cycles").Observe(time.Since(stageStart).Seconds())
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	report := findings.Aggregate(violations, pairs).WithGraph(g, a.classifier)
	observability.AnalysisDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	observability.Violations.WithLabelValues(string(layering.UpwardDependency)).Set(float64(report.Summary.Upward))
	observability.Violations.WithLabelValues(string(layering.EncapsulationBreach)).Set(float64(report.Summary.Breaches))
	observability.CyclePairs.Set(float64(report.CycleCount))

	span.SetAttributes(
		attribute.Int("graph.modules", g.ModuleCount()),
		attribute.Int("graph.edges", g.EdgeCount()),
		attribute.Int("findings.violations", report.ViolationCount),
		attribute.Int("findings.cycles", report.CycleCount),
		attribute.String("cycles.strategy", string(strategy)),
	)
	slog.Debug("analysis complete",
		"modules", g.ModuleCount(),
		"edges", g.EdgeCount(),
		"violations", report.ViolationCount,
		"cycles", report.CycleCount,
		"strategy", strategy,
		"duration", time.Since(start),
	)

	return Result{
		Report:     report,
		Graph:      g,
		Classifier: a.classifier,
		Auditor:    a.auditor,
		Strategy:   strategy,
	}, nil
}

// Run is the one-shot form of New followed by Analyzer.Run.
func Run(ctx context.Context, edges []graph.Edge, opts Options) (findings.Report, error) {
	a, err := New(opts)
	if err != nil {
		return findings.Report{}, err
	}
	res, err := a.Run(ctx, edges)
	if err != nil {
		return findings.Report{}, err
	}
	return res.Report, nil
}
