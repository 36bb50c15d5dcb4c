package report

import (
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Column is one table column. Numeric columns are right aligned.
type Column struct {
	Title   string
	Numeric bool
}

func label(title string) Column { return Column{Title: title} }
func num(title string) Column { return Column{Title: title, Numeric: true} }

// Table renders string cells under cols in the rounded style used for both
// console and report output. Cells missing at the end of a row stay blank.
func Table(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.Title
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if c.Numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(cols))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}

// HeadTable renders the first rows of a dataset, missing cells shown as NaN.
func HeadTable(rows []domain.Observation, indexed bool) string {
	cols := []Column{num(domain.TempCol), num(domain.RainCol), num(domain.HumidityCol)}
	if indexed {
		cols = append([]Column{label(domain.DateCol)}, cols...)
	}

	body := make([][]string, 0, len(rows))
	for _, o := range rows {
		hum := strconv.Itoa(o.HumidityPct)
		if o.HumidityMissing {
			hum = "NaN"
		}
		row := []string{reading(o.TemperatureC), reading(o.RainfallMM), hum}
		if indexed {
			row = append([]string{o.Date.Format(domain.DateLayout)}, row...)
		}
		body = append(body, row)
	}
	return Table(cols, body)
}

// MissingTable renders missing-value counts per measurement column.
func MissingTable(m domain.MissingCounts) string {
	counts := m.ByColumn()
	body := make([][]string, 0, len(domain.MeasurementCols))
	for _, col := range domain.MeasurementCols {
		body = append(body, []string{col, strconv.Itoa(counts[col])})
	}
	return Table([]Column{label("COLUMN"), num("MISSING")}, body)
}

// MonthlyTable renders the per-month summary.
func MonthlyTable(rows []analysis.MonthlyRow) string {
	body := make([][]string, 0, len(rows))
	for _, m := range rows {
		body = append(body, []string{m.Month, oneDecimal(m.MeanTemp), oneDecimal(m.MaxTemp), oneDecimal(m.TotalRain)})
	}
	return Table([]Column{label("MONTH"), num("MEAN TEMP (°C)"), num("MAX TEMP (°C)"), num("RAINFALL (mm)")}, body)
}

// SeasonalTable renders the seasonal summary; seasons without rows show "-".
func SeasonalTable(rows []analysis.SeasonRow) string {
	body := make([][]string, 0, len(rows))
	for _, s := range rows {
		body = append(body, []string{string(s.Season), oneDecimal(s.MeanTemp), oneDecimal(s.TotalRain), strconv.Itoa(s.Days)})
	}
	return Table([]Column{label("SEASON"), num("MEAN TEMP (°C)"), num("RAINFALL (mm)"), num("DAYS")}, body)
}

func oneDecimal(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func reading(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
