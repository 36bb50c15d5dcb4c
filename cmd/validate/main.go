// Command validate checks a raw weather CSV against the cleaned CSV a run
// produced from it. It re-runs cleaning on the raw file and verifies row
// accounting, completeness, ordering, season assignment and value equality.
//
// Usage:
//
//	go run ./cmd/validate -raw mock_raw_data.csv -cleaned cleaned_weather.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// tolerance covers float formatting round trips through CSV.
const tolerance = 1e-9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawPath := flag.String("raw", "", "path to the raw CSV")
	cleanedPath := flag.String("cleaned", "", "path to the cleaned CSV")
	window := flag.Int("window", domain.DefaultRollingWindow, "rolling window the run used")
	flag.Parse()

	if *rawPath == "" || *cleanedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*rawPath, *cleanedPath, *window))
}

func run(rawPath, cleanedPath string, window int) int {
	fmt.Println("=== Weather Data Integrity Validation ===")
	fmt.Println()

	raw, err := loadDataset(rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw CSV: %v\n", err)
		return 1
	}
	cleaned, err := loadDataset(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned CSV: %v\n", err)
		return 1
	}
	seasons, err := loadSeasons(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned seasons: %v\n", err)
		return 1
	}

	expected := domain.Clean(raw, window)

	phases := []*phase{
		validateRowAccounting(raw, cleaned, expected),
		validateCompleteness(cleaned),
		validateOrdering(cleaned),
		validateSeasons(cleaned, seasons),
		validateValues(cleaned, expected.Data),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d cleaned (%d filled, %d dropped on re-clean)\n",
		raw.Len(), cleaned.Len(), expected.Filled, expected.Dropped)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadDataset(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer f.Close()
	return csvfile.Decode(f)
}

// loadSeasons reads the SEASON column of the cleaned file, one entry per row.
func loadSeasons(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	col := -1
	for i, h := range all[0] {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == domain.SeasonCol {
			col = i
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, domain.SeasonCol)
	}

	out := make([]string, 0, len(all)-1)
	for _, row := range all[1:] {
		if col < len(row) {
			out = append(out, strings.TrimSpace(row[col]))
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

// ── Validation phases ──

func validateRowAccounting(raw, cleaned domain.Dataset, expected domain.CleanResult) *phase {
	p := &phase{name: "Row accounting (raw - dropped = cleaned)"}
	if raw.Indexed != cleaned.Indexed {
		p.errorf("raw indexed=%t but cleaned indexed=%t", raw.Indexed, cleaned.Indexed)
	}
	if want := raw.Len() - expected.Dropped; cleaned.Len() != want {
		p.errorf("cleaned has %d rows, expected %d (%d raw, %d dropped)", cleaned.Len(), want, raw.Len(), expected.Dropped)
	}
	return p
}

func validateCompleteness(cleaned domain.Dataset) *phase {
	p := &phase{name: "No missing values after cleaning"}
	if m := domain.CountMissing(cleaned.Rows); m.Total() > 0 {
		p.errorf("missing values remain: %v", m.ByColumn())
	}
	return p
}

func validateOrdering(cleaned domain.Dataset) *phase {
	p := &phase{name: "Dates sorted ascending"}
	if !cleaned.Indexed {
		return p
	}
	for i := 1; i < cleaned.Len(); i++ {
		if cleaned.Rows[i].Date.Before(cleaned.Rows[i-1].Date) {
			p.errorf("row %d (%s) is before row %d (%s)", i+1, cleaned.Rows[i].Date.Format(domain.DateLayout),
				i, cleaned.Rows[i-1].Date.Format(domain.DateLayout))
		}
	}
	return p
}

func validateSeasons(cleaned domain.Dataset, seasons []string) *phase {
	p := &phase{name: "Season matches month"}
	if len(seasons) != cleaned.Len() {
		p.errorf("%d season cells for %d rows", len(seasons), cleaned.Len())
		return p
	}
	for i, row := range cleaned.Rows {
		want := ""
		if cleaned.Indexed {
			want = string(domain.SeasonOf(row.Date.Month()))
		}
		if seasons[i] != want {
			p.errorf("row %d: season %q, expected %q", i+1, seasons[i], want)
		}
	}
	return p
}

func validateValues(cleaned, expected domain.Dataset) *phase {
	p := &phase{name: "Values match a fresh clean of the raw file"}
	n := min(cleaned.Len(), expected.Len())
	for i := range n {
		got, want := cleaned.Rows[i], expected.Rows[i]
		if !got.Date.Equal(want.Date) {
			p.errorf("row %d: date %s, expected %s", i+1, got.Date.Format(domain.DateLayout), want.Date.Format(domain.DateLayout))
		}
		if math.Abs(got.TemperatureC-want.TemperatureC) > tolerance {
			p.errorf("row %d: temperature %v, expected %v", i+1, got.TemperatureC, want.TemperatureC)
		}
		if math.Abs(got.RainfallMM-want.RainfallMM) > tolerance {
			p.errorf("row %d: rainfall %v, expected %v", i+1, got.RainfallMM, want.RainfallMM)
		}
		if got.HumidityPct != want.HumidityPct {
			p.errorf("row %d: humidity %d, expected %d", i+1, got.HumidityPct, want.HumidityPct)
		}
	}
	return p
}
