package domain

import (
	"math"
	"slices"
)

// DefaultRollingWindow is the width, in rows, of the centered window used to
// fill missing temperatures.
const DefaultRollingWindow = 7

// CleanResult is the outcome of Clean.
type CleanResult struct {
	Data          Dataset
	MissingBefore MissingCounts
	MissingAfter  MissingCounts
	Filled        int
	Dropped       int
}

// Clean prepares a dataset for analysis. Rows are sorted by date when the
// dataset is indexed (ties keep file order). Missing temperatures are filled
// with the centered rolling mean of the surrounding window computed on the
// unfilled series, and any row still incomplete afterwards is dropped.
// The input is not modified.
func Clean(ds Dataset, window int) CleanResult {
	if window < 1 {
		window = DefaultRollingWindow
	}

	rows := slices.Clone(ds.Rows)
	if ds.Indexed {
		slices.SortStableFunc(rows, func(a, b Observation) int {
			return a.Date.Compare(b.Date)
		})
	}

	res := CleanResult{MissingBefore: CountMissing(rows)}

	temps := make([]float64, len(rows))
	for i := range rows {
		temps[i] = rows[i].TemperatureC
	}
	fill := CenteredRollingMean(temps, window, 1)
	for i := range rows {
		if math.IsNaN(rows[i].TemperatureC) && !math.IsNaN(fill[i]) {
			rows[i].TemperatureC = fill[i]
			res.Filled++
		}
	}

	kept := rows[:0]
	for _, r := range rows {
		if r.Complete() {
			kept = append(kept, r)
		}
	}
	res.Dropped = len(rows) - len(kept)
	res.Data = Dataset{Rows: kept, Indexed: ds.Indexed}
	res.MissingAfter = CountMissing(kept)
	return res
}

// CenteredRollingMean returns, for each position, the mean of the non-NaN
// values in the window centered on it. Windows are clipped at the edges and
// an even width extends one further to the left. Positions whose window has
// fewer than minPeriods values are NaN.
func CenteredRollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	left := window / 2
	right := window - left - 1
	for i := range values {
		lo := max(0, i-left)
		hi := min(len(values)-1, i+right)

		var sum float64
		var n int
		for _, v := range values[lo : hi+1] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 || n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// WithSeasons attaches a season to every row. Rows of an unindexed dataset
// have no date and get an empty season.
func WithSeasons(ds Dataset) []CleanedRow {
	out := make([]CleanedRow, len(ds.Rows))
	for i, r := range ds.Rows {
		out[i] = CleanedRow{Observation: r}
		if ds.Indexed {
			out[i].Season = SeasonOf(r.Date.Month())
		}
	}
	return out
}
