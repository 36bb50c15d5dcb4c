package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-report-etl/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, or one run's monthly totals with --run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.ArchiveEnabled() {
				return errors.New("ARCHIVE_DB_PATH is not set")
			}

			archive, err := sqlite.Open(cmd.Context(), cfg.ArchiveDBPath)
			if err != nil {
				return err
			}
			defer archive.Close()

			var out string
			if runID != "" {
				months, err := archive.MonthlyTotals(cmd.Context(), runID)
				if err != nil {
					return err
				}
				out = monthTotalsTable(months)
			} else {
				runs, err := archive.Runs(cmd.Context())
				if err != nil {
					return err
				}
				out = runsTable(runs)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show monthly totals for this run ID")
	return cmd
}

func runsTable(runs []sqlite.RunRecord) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		seed := "-"
		if r.Seed != 0 {
			seed = strconv.FormatUint(r.Seed, 10)
		}
		rows = append(rows, []string{r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), string(r.Source), seed, strconv.Itoa(r.Rows)})
	}
	return report.Table([]report.Column{
		{Title: "RUN"},
		{Title: "STARTED"},
		{Title: "SOURCE"},
		{Title: "SEED", Numeric: true},
		{Title: "ROWS", Numeric: true},
	}, rows)
}

func monthTotalsTable(months []sqlite.MonthTotal) string {
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{m.Month, fmt.Sprintf("%.1f", m.MeanTemp), fmt.Sprintf("%.1f", m.TotalRain), strconv.Itoa(m.Days)})
	}
	return report.Table([]report.Column{
		{Title: "MONTH"},
		{Title: "MEAN TEMP (°C)", Numeric: true},
		{Title: "RAINFALL (mm)", Numeric: true},
		{Title: "DAYS", Numeric: true},
	}, rows)
}
