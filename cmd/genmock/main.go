// Command genmock writes a deterministic set of weather fixtures: the raw
// synthetic CSV, the cleaned CSV the pipeline derives from it, and the
// summary statistics as JSON. It runs the real generate, clean and analysis
// packages so the fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/fixtures -days 365 -seed 42
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
	"github.com/couchcryptid/weather-report-etl/internal/generate"
)

const (
	rawFile     = "mock_raw_data.csv"
	cleanedFile = "cleaned_weather.csv"
	summaryFile = "summary.json"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	outDir := fs.String("out", "", "directory for the fixture files")
	days := fs.Int("days", 365, "number of days to generate")
	seed := fs.Uint64("seed", 42, "random seed (must be non-zero for reproducible fixtures)")
	start := fs.String("start", "2024-01-01", "first date, YYYY-MM-DD")
	window := fs.Int("window", domain.DefaultRollingWindow, "rolling window for temperature fill")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *outDir == "" || *seed == 0 {
		fs.Usage()
		return errors.New("missing required flags: -out and a non-zero -seed")
	}
	startDate, err := time.Parse(domain.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	// Fixed clock so nothing time-derived leaks into the fixtures.
	domain.SetClock(clockwork.NewFakeClockAt(startDate))
	defer domain.SetClock(nil)

	rows, err := generate.Generate(generate.Options{Days: *days, Start: startDate, Seed: *seed})
	if err != nil {
		return err
	}
	raw := domain.Dataset{Rows: rows, Indexed: true}

	cleaned := domain.Clean(raw, *window)
	if cleaned.Data.Empty() {
		return domain.ErrNoCleanData
	}
	withSeasons := domain.WithSeasons(cleaned.Data)

	summary, err := analysis.Summarize(withSeasons, true)
	if err != nil {
		return err
	}
	// Encode before touching the directory so a failure leaves no partial set.
	summaryJSON, err := json.MarshalIndent(newSummaryView(summary), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	rawPath := filepath.Join(*outDir, rawFile)
	if _, err := csvfile.WriteRaw(rawPath, rows); err != nil {
		return fmt.Errorf("write %s: %w", rawPath, err)
	}
	log.Printf("raw: %d rows, %d missing values", len(rows), cleaned.MissingBefore.Total())

	cleanedPath := filepath.Join(*outDir, cleanedFile)
	if _, err := csvfile.WriteCleaned(cleanedPath, withSeasons, true); err != nil {
		return fmt.Errorf("write %s: %w", cleanedPath, err)
	}
	log.Printf("cleaned: %d rows (%d filled, %d dropped)", cleaned.Data.Len(), cleaned.Filled, cleaned.Dropped)

	summaryPath := filepath.Join(*outDir, summaryFile)
	if err := os.WriteFile(summaryPath, append(summaryJSON, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", summaryPath, err)
	}
	log.Printf("summary: %d months, %d seasons", len(summary.Monthly), len(summary.Seasonal))
	return nil
}

// summaryView is the JSON shape of analysis.Summary. Values that are NaN
// (empty seasons, correlation over constant series) encode as null.
type summaryView struct {
	Rows             int          `json:"rows"`
	MeanTemp         *float64     `json:"temperature_mean"`
	TotalRain        *float64     `json:"rainfall_total"`
	MaxTemp          *float64     `json:"max_temperature_c"`
	MinTemp          *float64     `json:"min_temperature_c"`
	Monthly          []monthView  `json:"monthly"`
	Seasonal         []seasonView `json:"seasonal"`
	TempHumidityCorr *float64     `json:"temperature_humidity_correlation"`
}

type monthView struct {
	Month     string   `json:"month"`
	MeanTemp  *float64 `json:"temperature_mean"`
	MaxTemp   *float64 `json:"temperature_max"`
	TotalRain *float64 `json:"rainfall_sum"`
}

type seasonView struct {
	Season    domain.Season `json:"season"`
	MeanTemp  *float64      `json:"temperature_mean"`
	TotalRain *float64      `json:"rainfall_sum"`
	Days      int           `json:"days"`
}

func newSummaryView(s analysis.Summary) summaryView {
	v := summaryView{
		Rows:             s.Rows,
		MeanTemp:         finite(s.MeanTemp),
		TotalRain:        finite(s.TotalRain),
		MaxTemp:          finite(s.MaxTemp),
		MinTemp:          finite(s.MinTemp),
		Monthly:          make([]monthView, len(s.Monthly)),
		Seasonal:         make([]seasonView, len(s.Seasonal)),
		TempHumidityCorr: finite(s.TempHumidityCorr),
	}
	for i, m := range s.Monthly {
		v.Monthly[i] = monthView{Month: m.Month, MeanTemp: finite(m.MeanTemp), MaxTemp: finite(m.MaxTemp), TotalRain: finite(m.TotalRain)}
	}
	for i, r := range s.Seasonal {
		v.Seasonal[i] = seasonView{Season: r.Season, MeanTemp: finite(r.MeanTemp), TotalRain: finite(r.TotalRain), Days: r.Days}
	}
	return v
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
