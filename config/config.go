package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cloudeng.io/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/subtlepseudonym/sunevent"
)

// Device types understood by the device package.
const (
	TypeLifx    = "lifx"
	TypeTasmota = "tasmota"
	TypeS31     = "s31" // Sonoff S31 running tasmota
	TypeShelly  = "shelly"
)

// ReservedLabel is served by the daemon itself and cannot name a device.
const ReservedLabel = "sun"

var deviceTypes = map[string]bool{
	TypeLifx:    true,
	TypeTasmota: true,
	TypeS31:     true,
	TypeShelly:  true,
}

type Device struct {
	Type   string                 `yaml:"type"`
	Host   string                 `yaml:"host"`
	MAC    string                 `yaml:"mac"`
	Config map[string]interface{} `yaml:"config,omitempty"`
}

// Location is where solar events are calculated for. DST defaults to
// true when omitted.
type Location struct {
	sunevent.Location `yaml:",inline"`
	DST               *bool `yaml:"dst,omitempty"`
}

type Config struct {
	Devices  map[string]Device `yaml:"devices"`
	Jobs     []Job             `yaml:"jobs"`
	Location Location          `yaml:"location"`
}

// Job defines when to run, on which device, what the desired final
// state is, and how long to take getting there.
//
// Schedule is either a standard cron expression or a solar event
// such as "@sunset -30m" (see sunevent.ParseEventSpec).
//
// Color state is defined using Hue, Saturation, and Brightness. This
// is referred to as HSB (or HSL) color.
// https://en.wikipedia.org/wiki/HSL_and_HSV
type Job struct {
	Schedule string `yaml:"schedule"`
	Device   string `yaml:"device"`

	Hue        int `yaml:"hue"`        // 0-360
	Saturation int `yaml:"saturation"` // 0-100
	Brightness int `yaml:"brightness"` // 0-100
	Kelvin     int `yaml:"kelvin"`     // 1500-9000

	Transition string `yaml:"transition"`
}

// TransitionDuration parses Transition. An empty transition is
// instant.
func (j Job) TransitionDuration() (time.Duration, error) {
	if j.Transition == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(j.Transition)
	if err != nil {
		return 0, fmt.Errorf("parse transition: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative transition %s", d)
	}
	return d, nil
}

func Open(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(b, &config)
	if err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	return &config, nil
}

// SunEvent builds the solar event calculator for the configured
// location.
func (c *Config) SunEvent() *sunevent.SunEvent {
	dst := true
	if c.Location.DST != nil {
		dst = *c.Location.DST
	}

	return sunevent.NewFromLocation(c.Location.Location, sunevent.WithDST(dst))
}

// Validate reports every problem found in the config rather than
// stopping at the first.
func (c *Config) Validate() error {
	errs := &errors.M{}

	loc := c.Location
	if loc.Latitude < -90 || loc.Latitude > 90 {
		errs.Append(fmt.Errorf("latitude %v out of range", loc.Latitude))
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		errs.Append(fmt.Errorf("longitude %v out of range", loc.Longitude))
	}
	if loc.UTCOffset < -12 || loc.UTCOffset > 14 {
		errs.Append(fmt.Errorf("utc offset %v out of range", loc.UTCOffset))
	}

	for label, dev := range c.Devices {
		if label == "" || label == ReservedLabel || strings.Contains(label, "/") {
			errs.Append(fmt.Errorf("device %q: invalid label", label))
		}
		if !deviceTypes[dev.Type] {
			errs.Append(fmt.Errorf("device %q: unknown type %q", label, dev.Type))
		}
	}

	for i, job := range c.Jobs {
		if _, ok := c.Devices[job.Device]; !ok {
			errs.Append(fmt.Errorf("job %d: schedule references missing device %q", i, job.Device))
		}

		if sunevent.IsEventSpec(job.Schedule) {
			if _, _, err := sunevent.ParseEventSpec(job.Schedule); err != nil {
				errs.Append(fmt.Errorf("job %d: %w", i, err))
			}
		} else if _, err := cron.ParseStandard(job.Schedule); err != nil {
			errs.Append(fmt.Errorf("job %d: parse schedule: %w", i, err))
		}

		if _, err := job.TransitionDuration(); err != nil {
			errs.Append(fmt.Errorf("job %d: %w", i, err))
		}
	}

	return errs.Err()
}
