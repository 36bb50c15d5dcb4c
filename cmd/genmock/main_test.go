package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PartialYear(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run([]string{"-out", dir, "-days", "30", "-seed", "42"}))

	for _, name := range []string{rawFile, cleanedFile, summaryFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, summaryFile))
	require.NoError(t, err)

	var got summaryView
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 30, got.Rows)
	require.NotNil(t, got.MeanTemp)
	require.Len(t, got.Monthly, 1)
	assert.Equal(t, "2024-01", got.Monthly[0].Month)

	require.Len(t, got.Seasonal, 4)
	for _, s := range got.Seasonal {
		if s.Season == "Winter" {
			assert.Equal(t, 30, s.Days)
			assert.NotNil(t, s.MeanTemp)
			continue
		}
		assert.Zero(t, s.Days, s.Season)
		assert.Nil(t, s.MeanTemp, s.Season)
		assert.Nil(t, s.TotalRain, s.Season)
	}
	assert.Contains(t, string(data), `"temperature_mean": null`)
}

func TestRun_FullYear(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run([]string{"-out", dir, "-days", "365", "-seed", "42"}))

	data, err := os.ReadFile(filepath.Join(dir, summaryFile))
	require.NoError(t, err)

	var got summaryView
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got.Monthly, 12)
	for _, s := range got.Seasonal {
		assert.Positive(t, s.Days, s.Season)
		assert.NotNil(t, s.MeanTemp, s.Season)
	}
	assert.NotNil(t, got.TempHumidityCorr)
}

func TestRun_InvalidFlagsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"-start", "01/01/2024", "-seed", "1"}},
		{"zero seed", []string{"-seed", "0"}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"-out", dir}, tt.args...)

			require.Error(t, run(args))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestFinite(t *testing.T) {
	assert.Nil(t, finite(math.NaN()))
	assert.Nil(t, finite(math.Inf(1)))
	require.NotNil(t, finite(2.5))
	assert.InDelta(t, 2.5, *finite(2.5), 1e-12)
}
