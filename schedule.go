package sunevent

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// SearchHorizon is how many days EventSchedule looks ahead for an
	// event before giving up. A year covers the longest polar night.
	SearchHorizon = 366

	specPrefix = "@"
)

// EventSchedule fires at a solar event plus Offset each day. Days on
// which the event does not occur are skipped.
//
// This implements robfig/cron.Schedule
type EventSchedule struct {
	Events *SunEvent
	Kind   Kind
	Offset time.Duration
}

// Next returns the first event time, offset applied, strictly after
// now. The zero time is returned if no event occurs within
// SearchHorizon days, which cron treats as never.
func (s EventSchedule) Next(now time.Time) time.Time {
	// An offset of up to a day either way can move an event from the
	// neighbouring date past now, so the scan starts a little early.
	start := now.In(s.Events.Zone())
	for i := -2; i <= SearchHorizon; i++ {
		date := start.AddDate(0, 0, i)
		event, err := s.Events.Event(s.Kind, date)
		if errors.Is(err, ErrNoSolarEvent) {
			continue
		}
		if err != nil {
			return time.Time{}
		}

		at := event.Add(s.Offset)
		if at.After(now) {
			return at
		}
	}

	return time.Time{}
}

func (s EventSchedule) String() string {
	if s.Offset == 0 {
		return specPrefix + s.Kind.String()
	}
	return fmt.Sprintf("%s%s %s", specPrefix, s.Kind, s.Offset)
}

// IsEventSpec reports whether spec names a solar event rather than a
// standard cron expression. Cron descriptors such as "@daily" are not
// event specs.
func IsEventSpec(spec string) bool {
	fields := strings.Fields(spec)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], specPrefix) {
		return false
	}

	_, err := ParseKind(strings.TrimPrefix(fields[0], specPrefix))
	return err == nil
}

// ParseEventSpec parses schedules of the form "@sunset" or
// "@sunrise -30m". The optional second field is a time.Duration
// added to the event.
func ParseEventSpec(spec string) (Kind, time.Duration, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 || len(fields) > 2 || !strings.HasPrefix(fields[0], specPrefix) {
		return 0, 0, fmt.Errorf("parse event spec %q: expected \"@event [offset]\"", spec)
	}

	kind, err := ParseKind(strings.TrimPrefix(fields[0], specPrefix))
	if err != nil {
		return 0, 0, fmt.Errorf("parse event spec %q: %w", spec, err)
	}

	var offset time.Duration
	if len(fields) > 1 {
		offset, err = time.ParseDuration(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parse event offset: %w", err)
		}
	}

	return kind, offset, nil
}

// NewEventSchedule parses spec and binds it to events.
func NewEventSchedule(events *SunEvent, spec string) (EventSchedule, error) {
	kind, offset, err := ParseEventSpec(spec)
	if err != nil {
		return EventSchedule{}, err
	}

	return EventSchedule{
		Events: events,
		Kind:   kind,
		Offset: offset,
	}, nil
}
