package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
location:
  latitude: 40.0
  longitude: -105.0
  utc_offset: -7
devices:
  porch:
    type: lifx
    host: 192.168.1.20
    mac: d0:73:d5:10:68:15
  lamp:
    type: shelly
    host: 192.168.1.21
    config:
      index: 1
jobs:
  - schedule: "@sunset -30m"
    device: porch
    brightness: 80
    kelvin: 2700
    transition: 15m
  - schedule: "0 23 * * *"
    device: lamp
    brightness: 0
    transition: 1s
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 40.0, cfg.Location.Latitude)
	assert.Equal(t, -105.0, cfg.Location.Longitude)
	assert.Equal(t, -7.0, cfg.Location.UTCOffset)
	assert.Nil(t, cfg.Location.DST)

	require.Len(t, cfg.Jobs, 2)
	assert.Equal(t, "@sunset -30m", cfg.Jobs[0].Schedule)
	assert.Equal(t, 2700, cfg.Jobs[0].Kelvin)
	assert.Equal(t, "shelly", cfg.Devices["lamp"].Type)
	assert.Equal(t, 1, cfg.Devices["lamp"].Config["index"])
}

func TestSunEventDST(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.True(t, cfg.SunEvent().DST())

	off := false
	cfg.Location.DST = &off
	events := cfg.SunEvent()
	assert.False(t, events.DST())

	rise, err := events.Sunrise(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "06:02", rise.Format("15:04"))
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Devices: map[string]Device{"porch": {Type: "lifx"}},
		Jobs: []Job{
			{Schedule: "@sunset", Device: "porch"},
			{Schedule: "@moonrise", Device: "porch"},
			{Schedule: "61 * * * *", Device: "porch"},
			{Schedule: "@sunrise 10m", Device: "garage"},
		},
	}
	cfg.Location.Latitude = 91

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.Contains(msg, "latitude 91 out of range"), msg)
	assert.True(t, strings.Contains(msg, "job 1"), msg)
	assert.True(t, strings.Contains(msg, "job 2: parse schedule"), msg)
	assert.True(t, strings.Contains(msg, `missing device "garage"`), msg)
	assert.False(t, strings.Contains(msg, "job 0"), msg)
}

func TestValidateDevices(t *testing.T) {
	cfg := &Config{
		Devices: map[string]Device{
			"porch":      {Type: TypeLifx},
			"sun":        {Type: TypeShelly},
			"back/porch": {Type: TypeTasmota},
			"hall":       {Type: "hue"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.Contains(msg, `device "sun": invalid label`), msg)
	assert.True(t, strings.Contains(msg, `device "back/porch": invalid label`), msg)
	assert.True(t, strings.Contains(msg, `device "hall": unknown type "hue"`), msg)
	assert.False(t, strings.Contains(msg, `"porch"`), msg)
}

func TestValidateTransition(t *testing.T) {
	cfg := &Config{
		Devices: map[string]Device{"porch": {Type: TypeLifx}},
		Jobs: []Job{
			{Schedule: "@sunset", Device: "porch", Transition: "15m"},
			{Schedule: "@sunset", Device: "porch", Transition: "soon"},
			{Schedule: "@sunset", Device: "porch", Transition: "-1s"},
			{Schedule: "@sunset", Device: "porch"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.Contains(msg, "job 1: parse transition"), msg)
	assert.True(t, strings.Contains(msg, "job 2: negative transition"), msg)
	assert.False(t, strings.Contains(msg, "job 0"), msg)
	assert.False(t, strings.Contains(msg, "job 3"), msg)
}

func TestTransitionDuration(t *testing.T) {
	d, err := Job{Transition: "1m30s"}.TransitionDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = Job{}.TransitionDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = Job{Transition: "later"}.TransitionDuration()
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lamp.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(sample), 0o600))

	cfg, err := Open(filename)
	require.NoError(t, err)
	assert.Len(t, cfg.Devices, 2)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("location: [not, a, map]"))
	assert.Error(t, err)
}
