package solar

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoSolution is returned when the sun never crosses the requested
// zenith on a given day. ErrAlwaysAbove (polar day) and ErrAlwaysBelow
// (polar night) both wrap it.
var (
	ErrNoSolution  = errors.New("sun does not cross zenith")
	ErrAlwaysAbove = fmt.Errorf("sun stays above zenith: %w", ErrNoSolution)
	ErrAlwaysBelow = fmt.Errorf("sun stays below zenith: %w", ErrNoSolution)
)

// Zenith is the angle in degrees between the point directly overhead
// and the sun's center at the moment of an event.
type Zenith float64

const (
	// Geometric places the sun's center exactly on the horizon, with
	// no allowance for refraction or the solar disk.
	Geometric Zenith = 90

	// Official is used for sunrise and sunset. The extra 0.833 degrees
	// accounts for standard atmospheric refraction (34') plus the
	// radius of the solar disk (16').
	Official     Zenith = 90.833
	Civil        Zenith = 96
	Nautical     Zenith = 102
	Astronomical Zenith = 108
)

func (z Zenith) String() string {
	switch z {
	case Geometric:
		return "geometric"
	case Official:
		return "official"
	case Civil:
		return "civil"
	case Nautical:
		return "nautical"
	case Astronomical:
		return "astronomical"
	default:
		return fmt.Sprintf("%.3f°", float64(z))
	}
}

// HourAngle calculates the sunrise hour angle in radians for a
// latitude and solar declination, both in degrees. For sunset, use
// the negated value.
func HourAngle(latitude, declination float64) (float64, error) {
	return HourAngleAt(Official, latitude, declination)
}

// HourAngleAt is HourAngle for an arbitrary zenith, such as one of
// the twilight angles.
func HourAngleAt(zenith Zenith, latitude, declination float64) (float64, error) {
	latRad := Radians(latitude)
	decRad := Radians(declination)

	arg := math.Cos(Radians(float64(zenith)))/(math.Cos(latRad)*math.Cos(decRad)) - math.Tan(latRad)*math.Tan(decRad)
	var err error
	switch {
	case math.IsNaN(arg):
		err = ErrNoSolution
	case arg < -1:
		err = ErrAlwaysAbove
	case arg > 1:
		err = ErrAlwaysBelow
	}
	if err != nil {
		return 0, fmt.Errorf("latitude %.4f, declination %.4f, %s zenith: %w", latitude, declination, zenith, err)
	}

	return math.Acos(arg), nil
}
