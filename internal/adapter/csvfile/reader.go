// Package csvfile reads and writes observation CSV files.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Reader loads a raw observation file. It implements the pipeline's
// extractor for runs driven by a real CSV instead of generated data.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads and parses the file.
func (r *Reader) Extract(_ context.Context) (domain.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open input csv: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Info("input csv loaded", "path", r.path, "rows", ds.Len(), "date_index", ds.Indexed)
	return ds, nil
}

// Decode parses CSV data with a header row. TEMPERATURE_C, RAINFALL_MM and
// HUMIDITY_PER are required; DATE is optional and other columns are ignored.
func Decode(src io.Reader) (domain.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{}, errors.New("empty file")
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read header: %w", err)
	}

	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range domain.MeasurementCols {
		if _, ok := colIdx[col]; !ok {
			return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrMissingColumn, col)
		}
	}
	_, indexed := colIdx[domain.DateCol]

	ds := domain.Dataset{Indexed: indexed}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		obs, err := decodeRow(row, colIdx, indexed)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, obs)
	}

	return ds, nil
}

func decodeRow(row []string, colIdx map[string]int, indexed bool) (domain.Observation, error) {
	var obs domain.Observation
	var err error

	if indexed {
		if obs.Date, err = domain.ParseDate(get(row, colIdx, domain.DateCol)); err != nil {
			return obs, fmt.Errorf("column %s: %w", domain.DateCol, err)
		}
	}
	if obs.TemperatureC, err = domain.ParseReading(get(row, colIdx, domain.TempCol)); err != nil {
		return obs, fmt.Errorf("column %s: %w", domain.TempCol, err)
	}
	if obs.RainfallMM, err = domain.ParseReading(get(row, colIdx, domain.RainCol)); err != nil {
		return obs, fmt.Errorf("column %s: %w", domain.RainCol, err)
	}
	humidity, ok, err := domain.ParseHumidity(get(row, colIdx, domain.HumidityCol))
	if err != nil {
		return obs, fmt.Errorf("column %s: %w", domain.HumidityCol, err)
	}
	obs.HumidityPct = humidity
	obs.HumidityMissing = !ok
	return obs, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	return !slices.ContainsFunc(row, func(cell string) bool {
		return strings.TrimSpace(cell) != ""
	})
}
