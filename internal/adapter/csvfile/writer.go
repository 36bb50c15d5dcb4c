package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// WriteRaw writes observations as DATE,TEMPERATURE_C,RAINFALL_MM,HUMIDITY_PER
// with missing readings as empty cells. It returns the number of bytes written.
func WriteRaw(path string, rows []domain.Observation) (int64, error) {
	return writeFile(path, func(w io.Writer) error { return EncodeRaw(w, rows) })
}

// WriteCleaned writes the cleaned, date-indexed table with its SEASON column.
// A dataset without a date index is written without the DATE column.
func WriteCleaned(path string, rows []domain.CleanedRow, indexed bool) (int64, error) {
	return writeFile(path, func(w io.Writer) error { return EncodeCleaned(w, rows, indexed) })
}

// EncodeRaw writes the raw layout to w.
func EncodeRaw(w io.Writer, rows []domain.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{domain.DateCol, domain.TempCol, domain.RainCol, domain.HumidityCol}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format(domain.DateLayout),
			domain.FormatReading(r.TemperatureC),
			domain.FormatReading(r.RainfallMM),
			humidityCell(r),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCleaned writes the cleaned layout to w.
func EncodeCleaned(w io.Writer, rows []domain.CleanedRow, indexed bool) error {
	cw := csv.NewWriter(w)
	header := []string{domain.TempCol, domain.RainCol, domain.HumidityCol, domain.SeasonCol}
	if indexed {
		header = append([]string{domain.DateCol}, header...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			domain.FormatReading(r.TemperatureC),
			domain.FormatReading(r.RainfallMM),
			humidityCell(r.Observation),
			string(r.Season),
		}
		if indexed {
			rec = append([]string{r.Date.Format(domain.DateLayout)}, rec...)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func humidityCell(o domain.Observation) string {
	if o.HumidityMissing {
		return ""
	}
	return strconv.Itoa(o.HumidityPct)
}

func writeFile(path string, encode func(io.Writer) error) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	info, statErr := f.Stat()
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	if statErr != nil {
		return 0, nil
	}
	return info.Size(), nil
}
