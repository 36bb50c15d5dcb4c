// Package analysis computes the summary statistics reported for a cleaned
// dataset: temperature extremes, monthly and seasonal aggregates, and the
// headline numbers used by the written report.
package analysis

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// MonthLayout formats the monthly period key.
const MonthLayout = "2006-01"

// Extremes holds the highest and lowest temperature on record.
type Extremes struct {
	MaxTemp float64 `json:"max_temperature_c"`
	MinTemp float64 `json:"min_temperature_c"`
}

// MonthlyRow summarizes one calendar month.
type MonthlyRow struct {
	Month     string  `json:"month"`
	MeanTemp  float64 `json:"temperature_mean"`
	MaxTemp   float64 `json:"temperature_max"`
	TotalRain float64 `json:"rainfall_sum"`
}

// SeasonRow summarizes one season. Days is zero and the values are NaN when
// the data holds no day in that season.
type SeasonRow struct {
	Season    domain.Season `json:"season"`
	MeanTemp  float64       `json:"temperature_mean"`
	TotalRain float64       `json:"rainfall_sum"`
	Days      int           `json:"days"`
}

// Present reports whether the season had any rows.
func (s SeasonRow) Present() bool { return s.Days > 0 }

// Summary is the full set of statistics for a run.
type Summary struct {
	Rows      int     `json:"rows"`
	MeanTemp  float64 `json:"temperature_mean"`
	TotalRain float64 `json:"rainfall_total"`
	Extremes

	Monthly  []MonthlyRow `json:"monthly"`
	Seasonal []SeasonRow  `json:"seasonal"`

	// TempHumidityCorr is the Pearson correlation between daily temperature
	// and humidity. NaN when either series is constant.
	TempHumidityCorr float64 `json:"temperature_humidity_correlation"`
}

// Summarize computes the statistics for cleaned rows. Monthly and seasonal
// tables are only produced for date-indexed data.
func Summarize(rows []domain.CleanedRow, indexed bool) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, domain.ErrNoCleanData
	}

	ds := domain.Dataset{Rows: make([]domain.Observation, len(rows)), Indexed: indexed}
	for i, r := range rows {
		ds.Rows[i] = r.Observation
	}
	temps := ds.Temperatures()
	rain := ds.Rainfall()

	s := Summary{
		Rows:      len(rows),
		MeanTemp:  stat.Mean(temps, nil),
		TotalRain: floats.Sum(rain),
		Extremes: Extremes{
			MaxTemp: floats.Max(temps),
			MinTemp: floats.Min(temps),
		},
		TempHumidityCorr: stat.Correlation(temps, ds.Humidity(), nil),
	}

	if !indexed {
		return s, nil
	}

	var err error
	if s.Monthly, err = MonthlySummary(rows); err != nil {
		return Summary{}, err
	}
	if s.Seasonal, err = SeasonalSummary(rows); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// WettestMonth returns the month with the largest rainfall total. Ties go to
// the earlier month.
func (s Summary) WettestMonth() (MonthlyRow, bool) {
	if len(s.Monthly) == 0 {
		return MonthlyRow{}, false
	}
	best := s.Monthly[0]
	for _, m := range s.Monthly[1:] {
		if m.TotalRain > best.TotalRain {
			best = m
		}
	}
	return best, true
}

// HottestSeason returns the present season with the highest mean temperature.
func (s Summary) HottestSeason() (SeasonRow, bool) {
	present := slices.DeleteFunc(slices.Clone(s.Seasonal), func(r SeasonRow) bool { return !r.Present() })
	if len(present) == 0 {
		return SeasonRow{}, false
	}
	return slices.MaxFunc(present, func(a, b SeasonRow) int {
		return cmp.Compare(a.MeanTemp, b.MeanTemp)
	}), true
}

// Season returns the row for season, if listed.
func (s Summary) Season(season domain.Season) (SeasonRow, bool) {
	i := slices.IndexFunc(s.Seasonal, func(r SeasonRow) bool { return r.Season == season })
	if i < 0 {
		return SeasonRow{}, false
	}
	return s.Seasonal[i], true
}

// errNoIndex is returned by the grouped summaries when a row has no date.
var errNoIndex = errors.New("grouped summaries need dated rows")

func hasDates(rows []domain.CleanedRow) bool {
	return !slices.ContainsFunc(rows, func(r domain.CleanedRow) bool { return r.Date.IsZero() })
}

func nanIfEmpty(v float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return v
}
