package solar

import (
	"math"
)

// All functions in this file take t, the fraction of Julian centuries
// since J2000.0 (see CenturyFraction).

// MeanLongitude calculates the geometric mean longitude of the sun
// in degrees, normalized into [0, 360).
func MeanLongitude(t float64) float64 {
	return fullCircle(280.46646 + t*(36000.76983+t*0.0003032))
}

// MeanAnomaly calculates the geometric mean anomaly of the sun in
// degrees, the angle the mean sun has travelled since perihelion.
//
// The value is not range reduced. It is only ever consumed through
// sine and cosine.
func MeanAnomaly(t float64) float64 {
	return 357.52911 + t*(35999.05029-0.0001537*t)
}

// Eccentricity calculates the (unitless) eccentricity of earth's
// orbit, roughly 0.0167.
func Eccentricity(t float64) float64 {
	return 0.016708634 - t*(0.000042037+0.0000001267*t)
}

// EquationOfCenter calculates the angular difference, in degrees,
// between the position of the actual sun (with an elliptical
// orbit) and the mean sun (with a circular orbit).
//
// https://en.wikipedia.org/wiki/Equation_of_the_center
func EquationOfCenter(t float64) float64 {
	m := Radians(MeanAnomaly(t))

	firstOrder := math.Sin(m) * (1.914602 - t*(0.004817+0.000014*t))
	secondOrder := math.Sin(2*m) * (0.019993 - 0.000101*t)
	thirdOrder := math.Sin(3*m) * 0.000289

	return firstOrder + secondOrder + thirdOrder
}
