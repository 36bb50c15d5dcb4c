// Package charts renders the four PNG charts produced by a run.
package charts

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Output file names, numbered in the order they are rendered.
const (
	DailyTemperatureFile = "1_daily_temperature.png"
	MonthlyRainfallFile  = "2_monthly_rainfall.png"
	TempHumidityFile     = "3_temp_vs_humidity.png"
	CombinedFile         = "4_combined_chart.png"
)

// renderable is satisfied by chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Renderer writes charts into a directory.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

// NewRenderer creates a Renderer writing into dir.
func NewRenderer(dir string, logger *slog.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger}
}

// Rendered describes one chart file written to disk.
type Rendered struct {
	Name  string
	Path  string
	Bytes int64
}

// RenderAll draws every chart the data supports. Date-based charts are
// skipped for an unindexed dataset, and the rainfall chart is skipped when
// there is no monthly summary.
func (r *Renderer) RenderAll(rows []domain.CleanedRow, indexed bool, monthly []analysis.MonthlyRow) ([]Rendered, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNoCleanData
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plots dir: %w", err)
	}

	type job struct {
		name  string
		build func() renderable
		needs bool
	}
	jobs := []job{
		{DailyTemperatureFile, func() renderable { return DailyTemperature(rows) }, indexed},
		{MonthlyRainfallFile, func() renderable { return MonthlyRainfall(monthly) }, len(monthly) > 0},
		{TempHumidityFile, func() renderable { return TempVsHumidity(rows) }, true},
		{CombinedFile, func() renderable { return Combined(rows) }, indexed},
	}

	var out []Rendered
	for _, j := range jobs {
		if !j.needs {
			r.logger.Warn("chart skipped, data has no date index", "chart", j.name)
			continue
		}
		path := filepath.Join(r.dir, j.name)
		n, err := save(path, j.build())
		if err != nil {
			return out, fmt.Errorf("render %s: %w", j.name, err)
		}
		r.logger.Info("chart saved", "chart", j.name, "path", path)
		out = append(out, Rendered{Name: j.name, Path: path, Bytes: n})
	}
	return out, nil
}

func save(path string, c renderable) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: f}
	renderErr := c.Render(chart.PNG, cw)
	closeErr := f.Close()
	if err := errors.Join(renderErr, closeErr); err != nil {
		return 0, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
