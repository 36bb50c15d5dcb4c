package domain

import "time"

// Source names where a run's observations came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceCSV       Source = "csv"
)

// Run identifies one pipeline execution. Sinks stamp it on everything they
// deliver so rows from different runs can be told apart.
type Run struct {
	ID        string
	StartedAt time.Time
	Source    Source
	// Input is the CSV path for SourceCSV runs.
	Input string
	// Seed is set for SourceGenerated runs.
	Seed    uint64
	Indexed bool
}
