package charts

import (
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

var (
	temperatureColor = drawing.ColorFromHex("d62728")
	rainfallColor    = drawing.ColorFromHex("1f77b4")
	scatterColor     = drawing.ColorFromHex("2ca02c")

	gridStyle = chart.Style{
		StrokeColor:     drawing.ColorFromHex("cccccc"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{5, 5},
	}
	padding = chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}}
)

// DailyTemperature is a red line of temperature over the date index.
func DailyTemperature(rows []domain.CleanedRow) chart.Chart {
	dates, temps := dateSeries(rows, func(r domain.CleanedRow) float64 { return r.TemperatureC })
	return chart.Chart{
		Title:      "Daily Temperature Over the Year",
		Width:      1200,
		Height:     600,
		Background: padding,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
			GridMajorStyle: gridStyle,
			Range:          timeRange(dates),
		},
		YAxis: chart.YAxis{
			Name:           "Temperature (°C)",
			GridMajorStyle: gridStyle,
			Range:          valueRange(temps),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    domain.TempCol,
				XValues: dates,
				YValues: temps,
				Style:   chart.Style{StrokeColor: temperatureColor, StrokeWidth: 1.5},
			},
		},
	}
}

// MonthlyRainfall is a blue bar per month of total rainfall.
func MonthlyRainfall(monthly []analysis.MonthlyRow) chart.BarChart {
	bars := make([]chart.Value, len(monthly))
	var top float64
	for i, m := range monthly {
		bars[i] = chart.Value{
			Label: m.Month,
			Value: m.TotalRain,
			Style: chart.Style{FillColor: rainfallColor, StrokeColor: rainfallColor},
		}
		top = max(top, m.TotalRain)
	}
	if top == 0 {
		top = 1
	}

	return chart.BarChart{
		Title:      "Monthly Total Rainfall",
		Width:      1000,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 60}},
		BarWidth:   barWidth(1000, len(bars)),
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "Rainfall (mm)",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
}

// TempVsHumidity is a green scatter of humidity against temperature.
func TempVsHumidity(rows []domain.CleanedRow) chart.Chart {
	temps := make([]float64, len(rows))
	hums := make([]float64, len(rows))
	for i, r := range rows {
		temps[i] = r.TemperatureC
		hums[i] = float64(r.HumidityPct)
	}
	return chart.Chart{
		Title:      "How Temperature Affects Humidity",
		Width:      800,
		Height:     600,
		Background: padding,
		XAxis: chart.XAxis{
			Name:           "Temperature (°C)",
			GridMajorStyle: gridStyle,
			Range:          valueRange(temps),
		},
		YAxis: chart.YAxis{
			Name:           "Humidity (%)",
			GridMajorStyle: gridStyle,
			Range:          valueRange(hums),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    domain.HumidityCol,
				XValues: temps,
				YValues: hums,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    scatterColor.WithAlpha(153),
				},
			},
		},
	}
}

// Combined overlays temperature on the left axis with daily rainfall on a
// secondary right axis.
func Combined(rows []domain.CleanedRow) chart.Chart {
	dates, temps := dateSeries(rows, func(r domain.CleanedRow) float64 { return r.TemperatureC })
	_, rain := dateSeries(rows, func(r domain.CleanedRow) float64 { return r.RainfallMM })

	var top float64
	for _, v := range rain {
		top = max(top, v)
	}
	if top == 0 {
		top = 1
	}

	c := chart.Chart{
		Title:      "Daily Temperature and Rainfall Together",
		Width:      1200,
		Height:     600,
		Background: padding,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
			Range:          timeRange(dates),
		},
		YAxis: chart.YAxis{
			Name:      "Temperature (°C)",
			NameStyle: chart.Style{FontColor: temperatureColor},
			Style:     chart.Style{FontColor: temperatureColor},
			Range:     valueRange(temps),
		},
		YAxisSecondary: chart.YAxis{
			Name:      "Rainfall (mm)",
			NameStyle: chart.Style{FontColor: rainfallColor},
			Style:     chart.Style{FontColor: rainfallColor},
			Range:     &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    domain.RainCol,
				YAxis:   chart.YAxisSecondary,
				XValues: dates,
				YValues: rain,
				Style: chart.Style{
					StrokeColor: rainfallColor.WithAlpha(77),
					FillColor:   rainfallColor.WithAlpha(77),
					StrokeWidth: 1,
				},
			},
			chart.TimeSeries{
				Name:    domain.TempCol,
				XValues: dates,
				YValues: temps,
				Style:   chart.Style{StrokeColor: temperatureColor, StrokeWidth: 2},
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

func dateSeries(rows []domain.CleanedRow, value func(domain.CleanedRow) float64) ([]time.Time, []float64) {
	xs := make([]time.Time, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Date
		ys[i] = value(r)
	}
	return xs, ys
}

// valueRange returns nil so go-chart autoscales, except when every value is
// equal and the autoscaled range would be empty.
func valueRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi > lo {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// timeRange pads a single-day index by a day either side.
func timeRange(dates []time.Time) chart.Range {
	if len(dates) == 0 {
		return nil
	}
	first, last := dates[0], dates[len(dates)-1]
	if last.After(first) {
		return nil
	}
	return &chart.ContinuousRange{
		Min: chart.TimeToFloat64(first.AddDate(0, 0, -1)),
		Max: chart.TimeToFloat64(last.AddDate(0, 0, 1)),
	}
}

// barWidth fits n bars with equal gaps into a chart width.
func barWidth(width, n int) int {
	if n == 0 {
		return 50
	}
	w := (width - 120) / (2 * n)
	return max(8, min(w, 60))
}
