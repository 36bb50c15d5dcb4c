package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Cleaner implements Transformer with domain.Clean.
type Cleaner struct {
	window int
	logger *slog.Logger
}

// NewTransformer creates a Cleaner using a centered rolling window of the
// given width to fill missing temperatures.
func NewTransformer(window int, logger *slog.Logger) *Cleaner {
	return &Cleaner{window: window, logger: logger}
}

func (c *Cleaner) Transform(ctx context.Context, ds domain.Dataset) (domain.CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CleanResult{}, err
	}
	res := domain.Clean(ds, c.window)
	c.logger.Info("data cleaned",
		"rows_in", ds.Len(),
		"rows_out", res.Data.Len(),
		"filled", res.Filled,
		"dropped", res.Dropped,
		"missing_before", res.MissingBefore.Total(),
	)
	return res, nil
}
