package domain

import (
	"errors"
	"math"
)

var (
	// ErrNoCleanData is returned when cleaning leaves no complete rows.
	ErrNoCleanData = errors.New("cleaned data is empty")

	// ErrMissingColumn is returned when an input file lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoDateIndex is returned by operations that need a DATE column.
	ErrNoDateIndex = errors.New("dataset has no date index")
)

// MissingCounts holds the number of missing readings per measurement column.
type MissingCounts struct {
	Temperature int `json:"temperature_c"`
	Rainfall    int `json:"rainfall_mm"`
	Humidity    int `json:"humidity_per"`
}

// Total returns the sum across columns.
func (m MissingCounts) Total() int {
	return m.Temperature + m.Rainfall + m.Humidity
}

// ByColumn returns the counts keyed by CSV column name.
func (m MissingCounts) ByColumn() map[string]int {
	return map[string]int{
		TempCol:     m.Temperature,
		RainCol:     m.Rainfall,
		HumidityCol: m.Humidity,
	}
}

// CountMissing tallies missing readings in rows.
func CountMissing(rows []Observation) MissingCounts {
	var m MissingCounts
	for _, r := range rows {
		if math.IsNaN(r.TemperatureC) {
			m.Temperature++
		}
		if math.IsNaN(r.RainfallMM) {
			m.Rainfall++
		}
		if r.HumidityMissing {
			m.Humidity++
		}
	}
	return m
}
