package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-report-etl/internal/generate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic raw CSV and stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.RawCSVPath
			if out != "" {
				path = out
			}

			gen := generate.New(generate.Options{Days: cfg.Days, Start: cfg.StartDate, Seed: cfg.Seed}, ctx.logger)
			ds, err := gen.Extract(cmd.Context())
			if err != nil {
				return err
			}
			n, err := csvfile.WriteRaw(path, ds.Rows)
			if err != nil {
				return err
			}
			ctx.logger.Info("mock data saved", "path", path, "rows", ds.Len(), "seed", gen.Seed(), "size", humanize.Bytes(uint64(n)))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d days to %s (seed %d)\n", ds.Len(), path, gen.Seed())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to RAW_CSV_PATH)")
	return cmd
}
