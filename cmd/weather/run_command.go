package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-report-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-report-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-report-etl/internal/config"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
	"github.com/couchcryptid/weather-report-etl/internal/generate"
	"github.com/couchcryptid/weather-report-etl/internal/observability"
	"github.com/couchcryptid/weather-report-etl/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Generate (or read WEATHER_INPUT_CSV) and run every stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Run every stage on an existing CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			withInput := *cfg
			withInput.InputCSV = args[0]
			return runPipeline(cmd.Context(), ctx, &withInput, cmd.OutOrStdout())
		},
	}
}

func runPipeline(parent context.Context, c *commandContext, cfg *config.Config, out io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	runCtx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := c.logger
	opts := pipeline.Options{
		CleanedCSVPath:  cfg.CleanedCSVPath,
		PlotsDir:        cfg.PlotsDir,
		ReportPath:      cfg.ReportPath,
		MetricsTextfile: cfg.MetricsTextfile,
		SinkTimeout:     cfg.SinkTimeout,
		SinkMaxAttempts: cfg.SinkMaxAttempts,
		Out:             out,
	}

	var extractor pipeline.Extractor
	if cfg.Generating() {
		gen := generate.New(generate.Options{Days: cfg.Days, Start: cfg.StartDate, Seed: cfg.Seed}, logger)
		fmt.Fprintf(out, "Making up data for %d days...\n", cfg.Days)
		extractor = gen
		opts.Source = domain.SourceGenerated
		opts.Seed = gen.Seed()
		opts.RawCSVPath = cfg.RawCSVPath
	} else {
		extractor = csvfile.NewReader(cfg.InputCSV, logger)
		opts.Source = domain.SourceCSV
		opts.Input = cfg.InputCSV
	}

	var loaders []pipeline.Loader
	if cfg.KafkaEnabled() {
		w := kafka.NewWriter(cfg, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, w)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.ArchiveEnabled() {
		archive, err := sqlite.Open(runCtx, cfg.ArchiveDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Error("archive close error", "error", err)
			}
		}()
		loaders = append(loaders, archive)
		logger.Info("sqlite archive enabled", "path", cfg.ArchiveDBPath)
	}

	p := pipeline.New(
		extractor,
		pipeline.NewTransformer(cfg.RollingWindow, logger),
		loaders,
		logger,
		observability.NewMetrics(),
		opts,
	)
	_, err := p.Run(runCtx)
	return err
}
