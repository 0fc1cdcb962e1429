package solar

import (
	"math"
	"time"
)

const (
	EpochJulianDate = 2440587.5 // unix epoch as a Julian date
	J2000           = 2451545.0 // noon, 1 January 2000
	DaysPerCentury  = 36525.0
	SecondsPerDay   = 86400 // not including leap seconds
	MinutesPerDay   = 1440
)

// JulianDay converts a Gregorian calendar date to the Julian day number
// at 0h UT of that date.
//
// January and February are counted as months 13 and 14 of the previous
// year so that the leap day falls at the end of the counting year.
// The date is not validated; an impossible date such as February 31st
// yields a day number that overlaps with early March.
//
// https://en.wikipedia.org/wiki/Julian_day
func JulianDay(year int, month time.Month, day int) float64 {
	y, m := float64(year), float64(month)
	if month <= time.February {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + float64(day) + b - 1524.5
}

// CenturyFraction returns the number of Julian centuries elapsed
// since the J2000.0 epoch. Dates before 2000 are negative.
func CenturyFraction(julianDay float64) float64 {
	return (julianDay - J2000) / DaysPerCentury
}

// JulianDate returns the continuous Julian date for a particular
// instant in UT.
//
// The time package smears leap seconds, so no leap second
// correction is applied. The solar model is evaluated in UT, which
// is what the returned value approximates.
func JulianDate(t time.Time) float64 {
	seconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return seconds/SecondsPerDay + EpochJulianDate
}
