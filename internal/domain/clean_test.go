package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func obs(day int, temp, rain float64, humidity int) Observation {
	return Observation{
		Date:         time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		TemperatureC: temp,
		RainfallMM:   rain,
		HumidityPct:  humidity,
	}
}

func TestCenteredRollingMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected []float64
	}{
		{
			name:     "interior and edges",
			values:   []float64{1, 2, 3, 4, 5},
			window:   3,
			expected: []float64{1.5, 2, 3, 4, 4.5},
		},
		{
			name:     "skips NaN",
			values:   []float64{1, nan, 3},
			window:   3,
			expected: []float64{1, 2, 3},
		},
		{
			name:     "all NaN window stays NaN",
			values:   []float64{nan, nan, nan, nan, 8},
			window:   3,
			expected: []float64{nan, nan, nan, 8, 8},
		},
		{
			name:     "even window leans left",
			values:   []float64{2, 4, 6, 8},
			window:   2,
			expected: []float64{2, 3, 5, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CenteredRollingMean(tt.values, tt.window, 1)
			if diff := cmp.Diff(tt.expected, got, cmp.Comparer(floatEq)); diff != "" {
				t.Fatalf("rolling mean mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClean_FillsTemperatureGap(t *testing.T) {
	// Five consecutive missing readings inside a 7-row window: the middle one
	// still sees one real value on each side.
	rows := []Observation{
		obs(1, 10, 0, 60),
		obs(2, 12, 0, 60),
		obs(3, nan, 0, 60),
		obs(4, nan, 0, 60),
		obs(5, nan, 0, 60),
		obs(6, nan, 0, 60),
		obs(7, nan, 0, 60),
		obs(8, 20, 0, 60),
		obs(9, 22, 0, 60),
	}

	res := Clean(Dataset{Rows: rows, Indexed: true}, 7)

	assert.Equal(t, 5, res.MissingBefore.Temperature)
	assert.Equal(t, 5, res.Filled)
	assert.Zero(t, res.Dropped)
	assert.Zero(t, res.MissingAfter.Total())
	require.Equal(t, 9, res.Data.Len())

	// Day 5 (index 4) window covers indices 1..7 -> values 12 and 20.
	assert.InDelta(t, 16.0, res.Data.Rows[4].TemperatureC, 1e-9)
	// Day 3 (index 2) window covers 0..5 -> 10 and 12.
	assert.InDelta(t, 11.0, res.Data.Rows[2].TemperatureC, 1e-9)
}

func TestClean_DropsRowsStillMissing(t *testing.T) {
	rows := []Observation{
		obs(1, 20, 0, 60),
		obs(2, 21, nan, 60),
		obs(3, 22, 0, 60),
	}
	rows[2].HumidityMissing = true

	res := Clean(Dataset{Rows: rows, Indexed: true}, 7)

	assert.Equal(t, MissingCounts{Rainfall: 1, Humidity: 1}, res.MissingBefore)
	assert.Equal(t, 2, res.Dropped)
	require.Equal(t, 1, res.Data.Len())
	assert.Equal(t, 1, res.Data.Rows[0].Date.Day())
}

func TestClean_UnfillableTemperatureIsDropped(t *testing.T) {
	rows := []Observation{obs(1, nan, 0, 60), obs(2, nan, 0, 60)}

	res := Clean(Dataset{Rows: rows, Indexed: true}, 3)

	assert.Zero(t, res.Filled)
	assert.Equal(t, 2, res.Dropped)
	assert.True(t, res.Data.Empty())
}

func TestClean_SortsByDate(t *testing.T) {
	rows := []Observation{obs(3, 3, 0, 60), obs(1, 1, 0, 60), obs(2, nan, 0, 60)}

	res := Clean(Dataset{Rows: rows, Indexed: true}, 3)

	require.Equal(t, 3, res.Data.Len())
	for i, r := range res.Data.Rows {
		assert.Equal(t, i+1, r.Date.Day())
	}
	// The fill runs after sorting, so the gap sits between 1 and 3.
	assert.InDelta(t, 2.0, res.Data.Rows[1].TemperatureC, 1e-9)
}

func TestClean_UnindexedKeepsFileOrder(t *testing.T) {
	rows := []Observation{
		{TemperatureC: 5, HumidityPct: 50},
		{TemperatureC: nan, HumidityPct: 50},
		{TemperatureC: 1, HumidityPct: 50},
	}

	res := Clean(Dataset{Rows: rows}, 3)

	require.Equal(t, 3, res.Data.Len())
	assert.InDelta(t, 5.0, res.Data.Rows[0].TemperatureC, 1e-9)
	assert.InDelta(t, 3.0, res.Data.Rows[1].TemperatureC, 1e-9)
	assert.False(t, res.Data.Indexed)
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	rows := []Observation{obs(2, 1, 0, 60), obs(1, nan, 0, 60)}
	_ = Clean(Dataset{Rows: rows, Indexed: true}, 3)

	assert.Equal(t, 2, rows[0].Date.Day())
	assert.True(t, math.IsNaN(rows[1].TemperatureC))
}

func TestWithSeasons(t *testing.T) {
	ds := Dataset{Rows: []Observation{
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}, Indexed: true}

	rows := WithSeasons(ds)
	assert.Equal(t, Spring, rows[0].Season)
	assert.Equal(t, Winter, rows[1].Season)

	ds.Indexed = false
	assert.Empty(t, WithSeasons(ds)[0].Season)
}

func floatEq(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}
