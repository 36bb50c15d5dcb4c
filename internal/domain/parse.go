package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseReading parses a float cell. Blank and NaN sentinel cells yield NaN
// with no error; anything else that is not a number is an error.
func ParseReading(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isMissingCell(s) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse reading %q: %w", s, err)
	}
	return v, nil
}

// ParseHumidity parses an integer percentage cell. Values written as floats
// ("66.0") are accepted and rounded. The second return is false for a blank
// or sentinel cell.
func ParseHumidity(s string) (int, bool, error) {
	v, err := ParseReading(s)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return int(math.RoundToEven(v)), true, nil
}

// ParseDate parses a DATE cell. A trailing time component, as written by
// tools that export timestamps, is tolerated.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatReading renders a float cell, writing missing values as empty cells.
func FormatReading(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// missingCells are the NA sentinels written by spreadsheets and dataframe
// exports.
var missingCells = map[string]struct{}{
	"": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NA": {}, "<NA>": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"NULL": {}, "null": {}, "None": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
	"<nil>": {},
}

func isMissingCell(s string) bool {
	_, ok := missingCells[s]
	return ok
}
