package solar

import (
	"math"
)

// EquationOfTime calculates the difference in minutes between
// apparent (sundial) solar time and mean (clock) solar time. Positive
// values mean the sundial runs ahead of the clock.
//
// The series is the truncated form used by the NOAA solar calculator.
// Its result is in radians of hour angle, which is converted to degrees
// and then to minutes at 4 minutes per degree.
//
// https://gml.noaa.gov/grad/solcalc/calcdetails.html
func EquationOfTime(t float64) float64 {
	epsilon := ObliquityCorrection(t)
	l0 := Radians(MeanLongitude(t))
	e := Eccentricity(t)
	m := Radians(MeanAnomaly(t))

	y := math.Tan(Radians(epsilon) / 2)
	y *= y

	sin2l0 := math.Sin(2 * l0)
	cos2l0 := math.Cos(2 * l0)
	sin4l0 := math.Sin(4 * l0)
	sinm := math.Sin(m)
	sin2m := math.Sin(2 * m)

	eqTime := y*sin2l0 - 2*e*sinm + 4*e*y*sinm*cos2l0 - 0.5*y*y*sin4l0 - 1.25*e*e*sin2m

	return Degrees(eqTime) * 4
}
