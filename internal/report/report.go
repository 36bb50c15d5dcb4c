// Package report writes the plain-text run summary and renders the tables
// shared with console output.
package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Title heads the report file.
const Title = "Weather Data Analysis Report Summary"

// weakCorrelation is the |r| under which temperature and humidity are
// described as unrelated.
const weakCorrelation = 0.1

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`# {{ .Title }}

## Key Numbers
- The average temperature for the whole period was: {{ f1 .Summary.MeanTemp }}°C
- The total rainfall recorded was: {{ f1 .Summary.TotalRain }} mm

## Seasonal Overview
{{ .SeasonTable }}

**What I found:**
{{ .Findings }}

This data would be helpful for the campus to plan where to collect rainwater!

---
Run {{ .RunID }} generated {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}
`))

// Meta identifies the run a report belongs to.
type Meta struct {
	RunID       string
	GeneratedAt time.Time
}

type view struct {
	Title       string
	Summary     analysis.Summary
	SeasonTable string
	Findings    string
	Meta
}

// Render returns the report text.
func Render(s analysis.Summary, meta Meta) (string, error) {
	seasonTable := "(no date index, seasons unavailable)"
	if len(s.Seasonal) > 0 {
		seasonTable = SeasonalTable(s.Seasonal)
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = domain.Now()
	}

	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, view{
		Title:       Title,
		Summary:     s,
		SeasonTable: seasonTable,
		Findings:    Findings(s),
		Meta:        meta,
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// Write renders the report to path and returns the bytes written.
func Write(path string, s analysis.Summary, meta Meta) (int64, error) {
	text, err := Render(s, meta)
	if err != nil {
		return 0, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	return int64(len(text)), nil
}

// Findings phrases the hottest season, the wettest month and the
// temperature/humidity relationship.
func Findings(s analysis.Summary) string {
	var parts []string

	hottest, okSeason := s.HottestSeason()
	wettest, okMonth := s.WettestMonth()
	switch {
	case okSeason && okMonth:
		parts = append(parts, fmt.Sprintf(
			"%s is the hottest season at %.1f°C on average, and the most rain fell in %s with %.1f mm.",
			hottest.Season, hottest.MeanTemp, wettest.Month, wettest.TotalRain))
	case okSeason:
		parts = append(parts, fmt.Sprintf("%s is the hottest season at %.1f°C on average.", hottest.Season, hottest.MeanTemp))
	default:
		parts = append(parts, "The data has no dates, so seasons and months could not be compared.")
	}

	r := s.TempHumidityCorr
	switch {
	case math.IsNaN(r) || math.Abs(r) < weakCorrelation:
		parts = append(parts, "The scatter plot shows no clear link between temperature and humidity.")
	case r < 0:
		parts = append(parts, fmt.Sprintf(
			"The scatter plot shows that when it's hot, the humidity is usually lower (correlation %.2f).", r))
	default:
		parts = append(parts, fmt.Sprintf(
			"The scatter plot shows that when it's hot, the humidity is usually higher (correlation %.2f).", r))
	}

	return strings.Join(parts, " ")
}
