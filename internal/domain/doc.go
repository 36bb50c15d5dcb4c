// Package domain models daily weather observations and the conventions used
// to store them as flat CSV.
//
// # Columns
//
// Raw files carry one row per day:
//
//	DATE,TEMPERATURE_C,RAINFALL_MM,HUMIDITY_PER
//	2024-01-01,20.3,0,66
//
// DATE is an ISO-8601 calendar date (2006-01-02). Cleaned exports add a
// derived SEASON column. Column order in input files is free and unknown
// columns are ignored; DATE itself is optional, and a file without it keeps
// its row order and has no date index.
//
// # Missing values
//
// Temperature and rainfall are float64 and use NaN in memory for a missing
// reading. On disk a missing reading is an empty cell. On input the usual
// spreadsheet sentinels also read as missing: "NaN", "NA", "N/A", "#N/A",
// "NULL", "null", "None" and "<nil>" among them. Humidity is an integer
// percentage and is always present in generated data; a blank humidity cell
// in an input file is still counted as missing and the row is dropped during
// cleaning.
//
// # Seasons
//
// Seasons are meteorological and northern-hemisphere:
//
//	Winter: December, January, February
//	Spring: March, April, May
//	Summer: June, July, August
//	Autumn: September, October, November
//
// Seasonal tables are always listed Spring, Summer, Autumn, Winter. See
// [SeasonOrder].
//
// # Synthetic data
//
// Generated years follow a yearly sine cycle driven by day-of-year d:
//
//	temperature ≈ 20 + 10·sin(2πd/365) + N(0, 3)     rounded to 0.1 °C
//	humidity    ≈ 65 − 10·sin(2πd/365) + N(0, 5)     rounded, clipped to [40, 95]
//
// Rainfall is drawn from a fixed discrete distribution that is dry about 85%
// of the time. Five consecutive temperature readings and one rainfall
// reading are blanked so that cleaning always has work to do.
package domain
