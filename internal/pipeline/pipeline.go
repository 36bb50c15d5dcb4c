package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/charts"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
	"github.com/couchcryptid/weather-report-etl/internal/observability"
	"github.com/couchcryptid/weather-report-etl/internal/report"
)

const (
	headRows       = 5
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Extractor produces the dataset a run starts from.
type Extractor interface {
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Transformer cleans an extracted dataset.
type Transformer interface {
	Transform(ctx context.Context, ds domain.Dataset) (domain.CleanResult, error)
}

// Loader delivers a run's cleaned rows to an optional sink.
type Loader interface {
	Name() string
	Load(ctx context.Context, run domain.Run, rows []domain.CleanedRow) error
}

// Options sets where a run writes its outputs.
type Options struct {
	// RawCSVPath receives the extracted data before cleaning. Empty skips it.
	RawCSVPath     string
	CleanedCSVPath string
	PlotsDir       string
	ReportPath     string
	// MetricsTextfile receives the run metrics. Empty skips it.
	MetricsTextfile string

	SinkTimeout     time.Duration
	SinkMaxAttempts int

	Source domain.Source
	Input  string
	Seed   uint64

	// Out receives the human-readable progress tables. Nil discards them.
	Out io.Writer
}

// Result summarizes a finished run.
type Result struct {
	Run        domain.Run
	Clean      domain.CleanResult
	Summary    analysis.Summary
	Charts     []charts.Rendered
	Files      []string
	SinkErrors int
}

// Pipeline runs one extract-clean-analyze-render-export pass.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	opts        Options
	out         io.Writer
}

// New creates a Pipeline with the given stages and observability. Loaders
// are optional.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	if opts.SinkMaxAttempts < 1 {
		opts.SinkMaxAttempts = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		opts:        opts,
		out:         out,
	}
}

// Run executes every stage in order. Local output failures stop the run;
// sink failures are logged and counted but do not.
func (p *Pipeline) Run(ctx context.Context) (res Result, err error) {
	res.Run = domain.Run{
		ID:        uuid.NewString(),
		StartedAt: domain.Now(),
		Source:    p.opts.Source,
		Input:     p.opts.Input,
		Seed:      p.opts.Seed,
	}
	logger := p.logger.With("run_id", res.Run.ID)
	logger.Info("pipeline started", "source", res.Run.Source)

	p.metrics.PipelineRunning.Set(1)
	defer func() {
		p.metrics.PipelineRunning.Set(0)
		p.finishMetrics(logger, err == nil)
	}()

	var ds domain.Dataset
	if err := p.stage("extract", func() (stageErr error) {
		ds, stageErr = p.extractor.Extract(ctx)
		return stageErr
	}); err != nil {
		return res, fmt.Errorf("extract: %w", err)
	}
	res.Run.Indexed = ds.Indexed
	p.metrics.RowsExtracted.Add(float64(ds.Len()))

	if p.opts.RawCSVPath != "" {
		n, err := csvfile.WriteRaw(p.opts.RawCSVPath, ds.Rows)
		if err != nil {
			return res, err
		}
		p.recordFile(&res, "csv", p.opts.RawCSVPath, n)
		logger.Info("mock data saved", "path", p.opts.RawCSVPath, "rows", ds.Len(), "size", humanize.Bytes(uint64(n)))
		fmt.Fprintln(p.out, "Mock data saved. Use your real CSV later!")
	}

	fmt.Fprintln(p.out, "\n--- Task 1: Data Check (First few rows) ---")
	fmt.Fprintln(p.out, report.HeadTable(ds.Head(headRows), ds.Indexed))

	if err := p.stage("clean", func() (stageErr error) {
		res.Clean, stageErr = p.transformer.Transform(ctx, ds)
		return stageErr
	}); err != nil {
		return res, fmt.Errorf("clean: %w", err)
	}
	p.recordCleaning(res.Clean)
	fmt.Fprintf(p.out, "\nMissing values before cleaning:\n%s\n", report.MissingTable(res.Clean.MissingBefore))
	fmt.Fprintf(p.out, "Missing values after cleaning:\n%s\n", report.MissingTable(res.Clean.MissingAfter))

	if res.Clean.Data.Empty() {
		logger.Error("cleaned data is empty, cannot continue", "rows_in", ds.Len(), "dropped", res.Clean.Dropped)
		fmt.Fprintln(p.out, "\nCleaned data is empty. Cannot continue.")
		return res, domain.ErrNoCleanData
	}

	rows := domain.WithSeasons(res.Clean.Data)
	if err := p.stage("analyze", func() (stageErr error) {
		res.Summary, stageErr = analysis.Summarize(rows, res.Clean.Data.Indexed)
		return stageErr
	}); err != nil {
		return res, fmt.Errorf("analyze: %w", err)
	}
	p.printSummary(res.Summary)

	if err := p.stage("charts", func() (stageErr error) {
		renderer := charts.NewRenderer(p.opts.PlotsDir, logger)
		res.Charts, stageErr = renderer.RenderAll(rows, res.Clean.Data.Indexed, res.Summary.Monthly)
		return stageErr
	}); err != nil {
		return res, fmt.Errorf("charts: %w", err)
	}
	for _, c := range res.Charts {
		p.recordFile(&res, "chart", c.Path, c.Bytes)
		fmt.Fprintf(p.out, "Saved '%s'\n", c.Name)
	}

	if err := p.stage("export", func() error {
		n, err := csvfile.WriteCleaned(p.opts.CleanedCSVPath, rows, res.Clean.Data.Indexed)
		if err != nil {
			return err
		}
		p.recordFile(&res, "csv", p.opts.CleanedCSVPath, n)
		logger.Info("cleaned data exported", "path", p.opts.CleanedCSVPath, "rows", len(rows), "size", humanize.Bytes(uint64(n)))
		return nil
	}); err != nil {
		return res, fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(p.out, "\nCleaned data exported to '%s'.\n", p.opts.CleanedCSVPath)

	if err := p.stage("report", func() error {
		n, err := report.Write(p.opts.ReportPath, res.Summary, report.Meta{RunID: res.Run.ID, GeneratedAt: domain.Now()})
		if err != nil {
			return err
		}
		p.recordFile(&res, "report", p.opts.ReportPath, n)
		logger.Info("summary report saved", "path", p.opts.ReportPath, "size", humanize.Bytes(uint64(n)))
		return nil
	}); err != nil {
		return res, fmt.Errorf("report: %w", err)
	}
	fmt.Fprintf(p.out, "Summary report saved to '%s'.\n", p.opts.ReportPath)

	for _, l := range p.loaders {
		if err := p.loadWithRetry(ctx, logger, l, res.Run, rows); err != nil {
			res.SinkErrors++
			if ctx.Err() != nil {
				return res, err
			}
			logger.Error("sink gave up", "sink", l.Name(), "error", err)
		}
	}

	fmt.Fprintln(p.out, "\n--- ALL TASKS COMPLETE ---")
	logger.Info("pipeline finished",
		"rows", len(rows),
		"files", len(res.Files),
		"sink_errors", res.SinkErrors,
		"elapsed", domain.Now().Sub(res.Run.StartedAt),
	)
	return res, nil
}

func (p *Pipeline) printSummary(s analysis.Summary) {
	fmt.Fprintln(p.out, "\n--- Task 3: Daily Statistics ---")
	fmt.Fprintf(p.out, "Highest Temperature Ever: %.1f°C\n", s.MaxTemp)
	fmt.Fprintf(p.out, "Lowest Temperature Ever: %.1f°C\n", s.MinTemp)
	if len(s.Monthly) > 0 {
		fmt.Fprintf(p.out, "\n--- Monthly Summary Table ---\n%s\n", report.MonthlyTable(s.Monthly))
	}
	if len(s.Seasonal) > 0 {
		fmt.Fprintf(p.out, "\n--- Seasonal Summary Table ---\n%s\n", report.SeasonalTable(s.Seasonal))
	}
}

// stage times fn under the given stage label.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return err
}

func (p *Pipeline) recordCleaning(c domain.CleanResult) {
	p.metrics.RowsDropped.Add(float64(c.Dropped))
	p.metrics.TemperaturesFilled.Add(float64(c.Filled))
	for col, n := range c.MissingBefore.ByColumn() {
		p.metrics.MissingValues.WithLabelValues(col, "raw").Set(float64(n))
	}
	for col, n := range c.MissingAfter.ByColumn() {
		p.metrics.MissingValues.WithLabelValues(col, "cleaned").Set(float64(n))
	}
}

func (p *Pipeline) recordFile(res *Result, kind, path string, n int64) {
	res.Files = append(res.Files, path)
	p.metrics.FilesWritten.WithLabelValues(kind).Inc()
	p.metrics.BytesWritten.Add(float64(n))
}

func (p *Pipeline) finishMetrics(logger *slog.Logger, ok bool) {
	if ok {
		p.metrics.LastRunSuccess.Set(1)
	} else {
		p.metrics.LastRunSuccess.Set(0)
	}
	p.metrics.LastRunTimestamp.Set(float64(domain.Now().Unix()))

	if p.opts.MetricsTextfile == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.opts.MetricsTextfile); err != nil {
		logger.Warn("metrics textfile not written", "error", err)
		return
	}
	logger.Debug("metrics textfile written", "path", p.opts.MetricsTextfile)
}

// loadWithRetry calls the loader until it succeeds, the attempts run out or
// the context ends. Each attempt gets its own timeout.
func (p *Pipeline) loadWithRetry(ctx context.Context, logger *slog.Logger, l Loader, run domain.Run, rows []domain.CleanedRow) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= p.opts.SinkMaxAttempts; attempt++ {
		if err = p.loadOnce(ctx, l, run, rows); err == nil {
			p.metrics.SinkRows.WithLabelValues(l.Name()).Add(float64(len(rows)))
			logger.Info("sink loaded", "sink", l.Name(), "rows", len(rows), "attempt", attempt)
			return nil
		}
		p.metrics.SinkErrors.WithLabelValues(l.Name()).Inc()
		logger.Warn("sink load failed", "sink", l.Name(), "attempt", attempt, "error", err)

		if attempt == p.opts.SinkMaxAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return errors.Join(err, ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("sink %s failed after %d attempts: %w", l.Name(), p.opts.SinkMaxAttempts, err)
}

func (p *Pipeline) loadOnce(ctx context.Context, l Loader, run domain.Run, rows []domain.CleanedRow) error {
	if p.opts.SinkTimeout <= 0 {
		return l.Load(ctx, run, rows)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.opts.SinkTimeout)
	defer cancel()
	return l.Load(attemptCtx, run, rows)
}
