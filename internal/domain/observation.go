package domain

import (
	"math"
	"time"
)

// Column names shared by every CSV this service reads or writes.
const (
	DateCol     = "DATE"
	TempCol     = "TEMPERATURE_C"
	RainCol     = "RAINFALL_MM"
	HumidityCol = "HUMIDITY_PER"
	SeasonCol   = "SEASON"
)

// DateLayout is the on-disk format of the DATE column.
const DateLayout = "2006-01-02"

// MeasurementCols lists the columns kept after cleaning, in output order.
var MeasurementCols = []string{TempCol, RainCol, HumidityCol}

// Observation is one day of readings. A NaN float field means the reading is
// missing; HumidityMissing marks a blank humidity cell from an input file.
type Observation struct {
	Date            time.Time `json:"date"`
	TemperatureC    float64   `json:"temperature_c"`
	RainfallMM      float64   `json:"rainfall_mm"`
	HumidityPct     int       `json:"humidity_pct"`
	HumidityMissing bool      `json:"-"`
}

// Complete reports whether every reading is present.
func (o Observation) Complete() bool {
	return !math.IsNaN(o.TemperatureC) && !math.IsNaN(o.RainfallMM) && !o.HumidityMissing
}

// Dataset is an ordered set of observations. Indexed is false when the
// source had no DATE column; Date fields are then zero and date-based
// operations are unavailable.
type Dataset struct {
	Rows    []Observation
	Indexed bool
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// Empty reports whether the dataset has no rows.
func (d Dataset) Empty() bool { return len(d.Rows) == 0 }

// Head returns up to n leading rows.
func (d Dataset) Head(n int) []Observation {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}

// Temperatures returns the temperature column.
func (d Dataset) Temperatures() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.TemperatureC
	}
	return out
}

// Rainfall returns the rainfall column.
func (d Dataset) Rainfall() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.RainfallMM
	}
	return out
}

// Humidity returns the humidity column as floats.
func (d Dataset) Humidity() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = float64(r.HumidityPct)
	}
	return out
}

// Dates returns the date index.
func (d Dataset) Dates() []time.Time {
	out := make([]time.Time, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Date
	}
	return out
}

// CleanedRow is an exported row: a complete observation plus its season.
type CleanedRow struct {
	Observation
	Season Season `json:"season"`
}
