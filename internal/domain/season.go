package domain

import "time"

// Season is a meteorological season.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
)

// SeasonOrder is the presentation order for seasonal tables.
var SeasonOrder = []Season{Spring, Summer, Autumn, Winter}

// SeasonOf maps a calendar month to its season.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}
