package analysis

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

const monthCol = "MONTH"

// frame loads cleaned rows into a dataframe keyed by month and season.
func frame(rows []domain.CleanedRow) dataframe.DataFrame {
	months := make([]string, len(rows))
	seasons := make([]string, len(rows))
	temps := make([]float64, len(rows))
	rain := make([]float64, len(rows))
	for i, r := range rows {
		months[i] = r.Date.Format(MonthLayout)
		seasons[i] = string(r.Season)
		temps[i] = r.TemperatureC
		rain[i] = r.RainfallMM
	}
	return dataframe.New(
		series.New(months, series.String, monthCol),
		series.New(seasons, series.String, domain.SeasonCol),
		series.New(temps, series.Float, domain.TempCol),
		series.New(rain, series.Float, domain.RainCol),
	)
}

// MonthlySummary aggregates mean and max temperature and total rainfall per
// calendar month, ordered by month.
func MonthlySummary(rows []domain.CleanedRow) ([]MonthlyRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if !hasDates(rows) {
		return nil, errNoIndex
	}

	grouped := frame(rows).GroupBy(monthCol).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_MAX, dataframe.Aggregation_SUM},
		[]string{domain.TempCol, domain.TempCol, domain.RainCol},
	)
	if grouped.Err != nil {
		return nil, fmt.Errorf("monthly summary: %w", grouped.Err)
	}

	keys := grouped.Col(monthCol).Records()
	means, err := aggColumn(grouped, domain.TempCol, "MEAN")
	if err != nil {
		return nil, err
	}
	maxes, err := aggColumn(grouped, domain.TempCol, "MAX")
	if err != nil {
		return nil, err
	}
	sums, err := aggColumn(grouped, domain.RainCol, "SUM")
	if err != nil {
		return nil, err
	}

	out := make([]MonthlyRow, len(keys))
	for i, k := range keys {
		out[i] = MonthlyRow{Month: k, MeanTemp: means[i], MaxTemp: maxes[i], TotalRain: sums[i]}
	}
	sortMonthly(out)
	return out, nil
}

// SeasonalSummary aggregates mean temperature and total rainfall per season
// in SeasonOrder. Seasons without data are listed with NaN values.
func SeasonalSummary(rows []domain.CleanedRow) ([]SeasonRow, error) {
	out := make([]SeasonRow, len(domain.SeasonOrder))
	for i, s := range domain.SeasonOrder {
		out[i] = SeasonRow{Season: s, MeanTemp: math.NaN(), TotalRain: math.NaN()}
	}
	if len(rows) == 0 {
		return out, nil
	}
	if !hasDates(rows) {
		return nil, errNoIndex
	}

	grouped := frame(rows).GroupBy(domain.SeasonCol).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_SUM, dataframe.Aggregation_COUNT},
		[]string{domain.TempCol, domain.RainCol, domain.RainCol},
	)
	if grouped.Err != nil {
		return nil, fmt.Errorf("seasonal summary: %w", grouped.Err)
	}

	keys := grouped.Col(domain.SeasonCol).Records()
	means, err := aggColumn(grouped, domain.TempCol, "MEAN")
	if err != nil {
		return nil, err
	}
	sums, err := aggColumn(grouped, domain.RainCol, "SUM")
	if err != nil {
		return nil, err
	}
	counts, err := aggColumn(grouped, domain.RainCol, "COUNT")
	if err != nil {
		return nil, err
	}

	for i, k := range keys {
		for j := range out {
			if string(out[j].Season) != k {
				continue
			}
			days := int(math.Round(counts[i]))
			out[j].Days = days
			out[j].MeanTemp = nanIfEmpty(means[i], days)
			out[j].TotalRain = nanIfEmpty(sums[i], days)
		}
	}
	return out, nil
}

// aggColumn finds the aggregate column gota produced for col and agg, named
// "<col>_<AGG>".
func aggColumn(df dataframe.DataFrame, col, agg string) ([]float64, error) {
	want := col + "_" + agg
	for _, name := range df.Names() {
		if strings.EqualFold(name, want) {
			return df.Col(name).Float(), nil
		}
	}
	return nil, fmt.Errorf("aggregate column %s not found in %v", want, df.Names())
}

func sortMonthly(rows []MonthlyRow) {
	slices.SortFunc(rows, func(a, b MonthlyRow) int {
		return strings.Compare(a.Month, b.Month)
	})
}
