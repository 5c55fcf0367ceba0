package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/anitej-c-501/hdf-position-tracker/internal/infrastructure"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

const (
	passSchema = "schema"
	passRows   = "rows"
)

// Pipeline runs the two passes of a batch: schema discovery over every
// file, then row building against the finished schema.
type Pipeline struct {
	agg     *Aggregator
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWorkers sets how many files a pass aggregates at once. Values below
// one mean sequential processing.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithTracer sets the tracer for pass spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics records per-file outcomes on m
func WithMetrics(m *infrastructure.RunMetrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a sequential pipeline around agg
func NewPipeline(agg *Aggregator, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		agg:     agg,
		workers: 1,
		logger:  logger.With("component", "pipeline"),
		tracer:  noop.NewTracerProvider().Tracer("posagg"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run discovers the schema over paths, then builds one row per file that
// succeeds in the second pass. Rows follow the order of paths.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*domain.Report, domain.ReportStats, error) {
	schema, _, err := p.DiscoverSchema(ctx, paths)
	if err != nil {
		return nil, domain.ReportStats{}, err
	}

	rows, stats, err := p.BuildRows(ctx, schema, paths)
	if err != nil {
		return nil, stats, err
	}

	return &domain.Report{Schema: schema, Rows: rows}, stats, nil
}

// fileResult is the outcome of aggregating one file
type fileResult struct {
	summary *domain.FileSummary
	err     error
}

// aggregateAll aggregates every path and returns results by input index.
// Per-file failures are carried in the results; only context cancellation
// fails the call.
func (p *Pipeline) aggregateAll(ctx context.Context, pass string, paths []string) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	aggregate := func(ctx context.Context, i int) {
		start := time.Now()
		summary, err := p.agg.AggregateFile(ctx, paths[i])
		results[i] = fileResult{summary: summary, err: err}
		p.metrics.RecordFile(ctx, pass, err == nil, time.Since(start))
	}

	if p.workers <= 1 {
		for i := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			aggregate(ctx, i)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			aggregate(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
