package sunevent

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSolarEvent is returned when an event does not occur on the
	// requested date, such as sunrise during polar night. The error
	// also wraps solar.ErrAlwaysAbove or solar.ErrAlwaysBelow.
	ErrNoSolarEvent = errors.New("no solar event")

	// ErrInvalidDate is returned for calendar dates that do not exist.
	ErrInvalidDate = errors.New("invalid date")
)

// ValidateDate checks that month and day form a real Gregorian date
// in year.
func ValidateDate(year int, month time.Month, day int) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %04d-%02d-%02d: month out of range", ErrInvalidDate, year, int(month), day)
	}

	if day < 1 || day > daysIn(year, month) {
		return fmt.Errorf("%w: %04d-%02d-%02d: day out of range", ErrInvalidDate, year, int(month), day)
	}

	return nil
}

// daysIn relies on time.Date normalizing day zero of the following
// month to the last day of month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isPolar(riseErr, setErr, target error) bool {
	return errors.Is(riseErr, target) && errors.Is(setErr, target)
}
