package sunevent

import (
	"fmt"
	"math"
	"time"

	"github.com/subtlepseudonym/sunevent/solar"
)

// minutes returns the local minutes past midnight of kind on the given
// date. The value is not normalized and may be negative or exceed a
// day when the location's offset is far from its solar time.
//
// The time is solved twice. The first pass evaluates the sun at 0h UT
// of the date; the second re-evaluates it at the moment found by the
// first, since declination and the equation of time both drift over
// the course of a day.
func (s *SunEvent) minutes(kind Kind, year int, month time.Month, day int) (int, error) {
	jday := solar.JulianDay(year, month, day)

	timeUTC, err := s.minutesUTC(kind, jday)
	if err != nil {
		return 0, s.noEvent(kind, year, month, day, err)
	}

	newJday := jday + timeUTC/solar.MinutesPerDay
	newTimeUTC, err := s.minutesUTC(kind, newJday)
	if err != nil {
		return 0, s.noEvent(kind, year, month, day, err)
	}

	local := int(math.Round(newTimeUTC + float64(s.offsetMinutes)))
	if s.dst {
		local += dstMinutes
	}

	return local, nil
}

// minutesUTC returns minutes past 0h UT of the event, with the sun
// evaluated at jday.
func (s *SunEvent) minutesUTC(kind Kind, jday float64) (float64, error) {
	t := solar.CenturyFraction(jday)
	eqTime := solar.EquationOfTime(t)

	if kind == SolarNoon {
		return 720 - 4*s.location.Longitude - eqTime, nil
	}

	hourAngle, err := solar.HourAngleAt(s.zenith(kind), s.location.Latitude, solar.Declination(t))
	if err != nil {
		return 0, err
	}
	if !kind.rising() {
		hourAngle = -hourAngle
	}

	delta := s.location.Longitude + solar.Degrees(hourAngle)
	return 720 - 4*delta - eqTime, nil
}

func (s *SunEvent) noEvent(kind Kind, year int, month time.Month, day int, err error) error {
	return fmt.Errorf("%s on %04d-%02d-%02d: %w: %w", kind, year, int(month), day, ErrNoSolarEvent, err)
}
