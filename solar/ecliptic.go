package solar

import (
	"math"
)

// ascendingNode is the longitude, in degrees, of the ascending node
// of the moon's orbit. It drives the nutation terms of both the
// obliquity and the apparent longitude.
func ascendingNode(t float64) float64 {
	return 125.04 - 1934.136*t
}

// MeanObliquity calculates the mean obliquity of the ecliptic in
// degrees: the tilt of earth's axis relative to its orbital plane.
func MeanObliquity(t float64) float64 {
	seconds := 21.448 - t*(46.8150+t*(0.00059-t*0.001813))
	return 23 + (26+seconds/60)/60
}

// ObliquityCorrection applies the nutation correction for lunar and
// planetary perturbation to MeanObliquity.
func ObliquityCorrection(t float64) float64 {
	return MeanObliquity(t) + 0.00256*math.Cos(Radians(ascendingNode(t)))
}

// TrueLongitude calculates the sun's true geometric longitude in
// degrees. It is not normalized and may slightly exceed 360.
func TrueLongitude(t float64) float64 {
	return MeanLongitude(t) + EquationOfCenter(t)
}

// ApparentLongitude corrects TrueLongitude for nutation and
// aberration.
func ApparentLongitude(t float64) float64 {
	return TrueLongitude(t) - 0.00569 - 0.00478*math.Sin(Radians(ascendingNode(t)))
}

// Declination calculates the sun's angle north (positive) or south
// (negative) of the celestial equator in degrees.
//
// The asin argument is bounded by sin(obliquity) so it is always in
// range.
func Declination(t float64) float64 {
	epsilon := Radians(ObliquityCorrection(t))
	lambda := Radians(ApparentLongitude(t))
	return Degrees(math.Asin(math.Sin(epsilon) * math.Sin(lambda)))
}
