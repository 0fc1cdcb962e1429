// Package sunevent calculates the local clock time of sunrise, sunset
// and related solar events using the NOAA solar calculator's
// closed-form approximation.
//
// https://gml.noaa.gov/grad/solcalc/calcdetails.html
package sunevent

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/subtlepseudonym/sunevent/solar"
)

const dstMinutes = 60

// Location is the place events are calculated for. UTCOffset is in
// hours east of UTC and does not include daylight saving time.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	UTCOffset float64 `json:"utc_offset" yaml:"utc_offset"`
}

// SunEvent calculates solar events for a fixed location. It holds no
// mutable state and is safe for concurrent use.
type SunEvent struct {
	location      Location
	offsetMinutes int
	dst           bool
	twilight      solar.Zenith
}

// Option configures a SunEvent created by New.
type Option func(*SunEvent)

// WithDST sets whether a fixed daylight saving shift of one hour is
// added to every result. DST rules are not resolved here; a caller
// that knows its offset for the date switches this off and passes
// the effective offset to New instead.
func WithDST(dst bool) Option {
	return func(s *SunEvent) {
		s.dst = dst
	}
}

// WithTwilight sets the zenith used by Dawn and Dusk. The default is
// solar.Civil.
func WithTwilight(zenith solar.Zenith) Option {
	return func(s *SunEvent) {
		s.twilight = zenith
	}
}

// New returns a SunEvent for the given latitude and longitude, in
// degrees, and UTC offset, in hours. The offset is kept as whole
// minutes, so half and quarter hour zones are preserved.
//
// DST is applied unless WithDST(false) is passed.
func New(latitude, longitude, utcOffset float64, opts ...Option) *SunEvent {
	s := &SunEvent{
		location: Location{
			Latitude:  latitude,
			Longitude: longitude,
			UTCOffset: utcOffset,
		},
		offsetMinutes: int(math.Round(utcOffset * 60)),
		dst:           true,
		twilight:      solar.Civil,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewFromLocation is New for a Location value.
func NewFromLocation(loc Location, opts ...Option) *SunEvent {
	return New(loc.Latitude, loc.Longitude, loc.UTCOffset, opts...)
}

// Location returns the location events are calculated for.
func (s *SunEvent) Location() Location {
	return s.location
}

// DST reports whether results include the daylight saving shift.
func (s *SunEvent) DST() bool {
	return s.dst
}

// Zone is the fixed zone results are expressed in: the UTC offset,
// plus an hour when DST is applied.
func (s *SunEvent) Zone() *time.Location {
	offset := s.offsetMinutes
	if s.dst {
		offset += dstMinutes
	}

	sign := '+'
	abs := offset
	if offset < 0 {
		sign = '-'
		abs = -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/60, abs%60)

	return time.FixedZone(name, offset*60)
}

// Sunrise returns the moment of sunrise on the calendar date of date.
// Only the year, month and day of date are read. It returns an error
// wrapping ErrNoSolarEvent when the sun does not rise that day.
func (s *SunEvent) Sunrise(date time.Time) (time.Time, error) {
	return s.Event(Sunrise, date)
}

// Sunset is Sunrise for the moment the sun sets.
func (s *SunEvent) Sunset(date time.Time) (time.Time, error) {
	return s.Event(Sunset, date)
}

// Dawn returns the start of morning twilight.
func (s *SunEvent) Dawn(date time.Time) (time.Time, error) {
	return s.Event(Dawn, date)
}

// Dusk returns the end of evening twilight.
func (s *SunEvent) Dusk(date time.Time) (time.Time, error) {
	return s.Event(Dusk, date)
}

// SolarNoon returns the moment the sun crosses the local meridian.
// It exists on every date, including polar days and nights.
func (s *SunEvent) SolarNoon(date time.Time) time.Time {
	// the meridian transit has no failure case
	noon, _ := s.Event(SolarNoon, date)
	return noon
}

// SunriseDate is Sunrise for an explicit calendar date. It returns
// ErrInvalidDate if the date does not exist.
func (s *SunEvent) SunriseDate(year int, month time.Month, day int) (time.Time, error) {
	return s.EventDate(Sunrise, year, month, day)
}

// SunsetDate is Sunset for an explicit calendar date.
func (s *SunEvent) SunsetDate(year int, month time.Month, day int) (time.Time, error) {
	return s.EventDate(Sunset, year, month, day)
}

// Event returns the moment of kind on the calendar date of date.
func (s *SunEvent) Event(kind Kind, date time.Time) (time.Time, error) {
	return s.at(kind, date.Year(), date.Month(), date.Day())
}

// EventDate is Event for an explicit, validated calendar date.
func (s *SunEvent) EventDate(kind Kind, year int, month time.Month, day int) (time.Time, error) {
	err := ValidateDate(year, month, day)
	if err != nil {
		return time.Time{}, err
	}

	return s.at(kind, year, month, day)
}

// DayLength returns the time between sunrise and sunset. On a polar
// day it is 24 hours and on a polar night it is zero.
//
// On the day the midnight sun begins the sun rises but does not set,
// and the length runs from sunrise to the end of the local day. On the
// day it ends the length runs from local midnight to sunset.
func (s *SunEvent) DayLength(date time.Time) (time.Duration, error) {
	y, m, d := date.Date()
	rise, riseErr := s.minutes(Sunrise, y, m, d)
	set, setErr := s.minutes(Sunset, y, m, d)

	switch {
	case riseErr == nil && setErr == nil:
		return time.Duration(set-rise) * time.Minute, nil
	case isPolar(riseErr, setErr, solar.ErrAlwaysAbove):
		return 24 * time.Hour, nil
	case riseErr == nil && errors.Is(setErr, solar.ErrAlwaysAbove):
		return clampDay(solar.MinutesPerDay - rise), nil
	case setErr == nil && errors.Is(riseErr, solar.ErrAlwaysAbove):
		return clampDay(set), nil
	case isPolar(riseErr, setErr, solar.ErrAlwaysBelow):
		return 0, nil
	case riseErr != nil:
		return 0, riseErr
	default:
		return 0, setErr
	}
}

func clampDay(minutes int) time.Duration {
	minutes = max(0, min(solar.MinutesPerDay, minutes))
	return time.Duration(minutes) * time.Minute
}

func (s *SunEvent) at(kind Kind, year int, month time.Month, day int) (time.Time, error) {
	minutes, err := s.minutes(kind, year, month, day)
	if err != nil {
		return time.Time{}, err
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, s.Zone())
	return midnight.Add(time.Duration(minutes*60) * time.Second), nil
}
