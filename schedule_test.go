package sunevent_test

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtlepseudonym/sunevent"
)

var _ cron.Schedule = sunevent.EventSchedule{}

func TestEventScheduleNext(t *testing.T) {
	events := sunevent.New(40.0, -105.0, -7, sunevent.WithDST(false))
	zone := events.Zone()

	tests := []struct {
		name   string
		kind   sunevent.Kind
		offset time.Duration
		now    time.Time
		want   time.Time
	}{
		{
			name: "before sunrise",
			kind: sunevent.Sunrise,
			now:  time.Date(2024, time.March, 20, 5, 0, 0, 0, zone),
			want: time.Date(2024, time.March, 20, 6, 2, 0, 0, zone),
		},
		{
			name: "after sunrise",
			kind: sunevent.Sunrise,
			now:  time.Date(2024, time.March, 20, 6, 2, 0, 0, zone),
			want: time.Date(2024, time.March, 21, 6, 1, 0, 0, zone),
		},
		{
			name:   "sunset with negative offset",
			kind:   sunevent.Sunset,
			offset: -30 * time.Minute,
			now:    time.Date(2024, time.March, 20, 17, 50, 0, 0, zone),
			want:   time.Date(2024, time.March, 21, 17, 44, 0, 0, zone),
		},
		{
			name:   "offset into the next day",
			kind:   sunevent.Sunset,
			offset: 8 * time.Hour,
			now:    time.Date(2024, time.March, 21, 0, 30, 0, 0, zone),
			want:   time.Date(2024, time.March, 21, 2, 13, 0, 0, zone),
		},
		{
			name: "now in another zone",
			kind: sunevent.SolarNoon,
			now:  time.Date(2024, time.March, 20, 20, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.March, 21, 12, 7, 0, 0, zone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := sunevent.EventSchedule{
				Events: events,
				Kind:   tt.kind,
				Offset: tt.offset,
			}
			got := schedule.Next(tt.now)
			assert.True(t, got.After(tt.now))
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestEventScheduleSkipsPolarNight(t *testing.T) {
	events := sunevent.New(75, 0, 0, sunevent.WithDST(false))
	schedule := sunevent.EventSchedule{Events: events, Kind: sunevent.Sunrise}

	now := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2025, time.February, 6, 11, 21, 0, 0, time.UTC)
	got := schedule.Next(now)
	assert.True(t, want.Equal(got), "got %s, want %s", got, want)
}

func TestEventScheduleNever(t *testing.T) {
	// the pole has an equinox sunrise but no solution to the hour
	// angle equation on any given day
	events := sunevent.New(90, 0, 0, sunevent.WithDST(false))
	schedule := sunevent.EventSchedule{Events: events, Kind: sunevent.Sunset}

	assert.True(t, schedule.Next(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)).IsZero())
}

func TestParseEventSpec(t *testing.T) {
	tests := []struct {
		spec   string
		kind   sunevent.Kind
		offset time.Duration
	}{
		{"@sunset", sunevent.Sunset, 0},
		{"@sunrise -30m", sunevent.Sunrise, -30 * time.Minute},
		{"  @dusk 1h15m ", sunevent.Dusk, 75 * time.Minute},
		{"@DAWN", sunevent.Dawn, 0},
		{"@noon -2h", sunevent.SolarNoon, -2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			require.True(t, sunevent.IsEventSpec(tt.spec))
			kind, offset, err := sunevent.ParseEventSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.offset, offset)
		})
	}

	for _, spec := range []string{"", "sunset", "@moonrise", "@sunset soon", "@sunset 1h extra"} {
		_, _, err := sunevent.ParseEventSpec(spec)
		assert.Error(t, err, spec)
	}

	for _, spec := range []string{"0 7 * * *", "@daily", "@every 1h", "@moonrise", ""} {
		assert.False(t, sunevent.IsEventSpec(spec), spec)
	}
}

func TestNewEventSchedule(t *testing.T) {
	events := sunevent.New(40.0, -105.0, -7)
	schedule, err := sunevent.NewEventSchedule(events, "@sunset -30m")
	require.NoError(t, err)
	assert.Equal(t, "@sunset -30m0s", schedule.String())
	assert.Same(t, events, schedule.Events)

	_, err = sunevent.NewEventSchedule(events, "@eclipse")
	assert.Error(t, err)
}
