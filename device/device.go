package device

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/subtlepseudonym/sunevent/config"
)

const (
	defaultLifxPort        = 56700
	defaultPowerTransition = 2 * time.Second
	defaultRetryBackoff    = 250 * time.Millisecond
	defaultRetryLimit      = 5
	defaultRequestTimeout  = 10 * time.Second

	MinKelvin = 1500
	MaxKelvin = 9000
)

type Type string

const (
	TypeLifx    Type = config.TypeLifx
	TypeTasmota Type = config.TypeTasmota
	TypeS31     Type = config.TypeS31
	TypeShelly  Type = config.TypeShelly
)

// Color is an HSBK value in the LIFX LAN protocol's scale
//
// https://lan.developer.lifx.com/docs/representing-color-with-hsbk
type Color struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

// NewColor converts human scale values, hue in degrees and
// saturation and brightness in percent, to a Color. Values out of
// range are clamped.
func NewColor(hue, saturation, brightness float64, kelvin int) *Color {
	return &Color{
		Hue:        uint16(math.Floor(clamp(hue, 0, 360) / 360 * math.MaxUint16)),
		Saturation: uint16(math.Floor(clamp(saturation, 0, 100) / 100 * math.MaxUint16)),
		Brightness: uint16(math.Floor(clamp(brightness, 0, 100) / 100 * math.MaxUint16)),
		Kelvin:     uint16(clamp(float64(kelvin), MinKelvin, MaxKelvin)),
	}
}

func (c *Color) HueDegrees() float64 {
	return float64(c.Hue) * 360 / math.MaxUint16
}

func (c *Color) SaturationPercent() float64 {
	return float64(c.Saturation) / math.MaxUint16 * 100
}

func (c *Color) BrightnessPercent() float64 {
	return float64(c.Brightness) / math.MaxUint16 * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Status is the observed state of a device. Color is nil for devices
// that only switch power.
type Status struct {
	On    bool   `json:"on"`
	Color *Color `json:"-"`
}

type Device interface {
	// Transition moves the device to color over the given duration.
	// Zero brightness turns the device off.
	Transition(ctx context.Context, color *Color, transition time.Duration) error
	Status(ctx context.Context) (*Status, error)
	Label() string
	String() string
}

func Connect(ctx context.Context, label string, device config.Device) (Device, error) {
	switch Type(device.Type) {
	case TypeLifx:
		addr := fmt.Sprintf("%s:%d", device.Host, defaultLifxPort)
		return ConnectLifx(ctx, label, addr, device.MAC)
	case TypeS31, TypeTasmota:
		return ConnectTasmota(ctx, label, device.Host, device.MAC)
	case TypeShelly:
		index, err := shellyIndex(device.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: parse device config: %w", label, err)
		}
		return ConnectShelly(ctx, label, device.Host, device.MAC, index)
	default:
		return nil, fmt.Errorf("unknown device type: %s", device.Type)
	}
}

// shellyIndex reads the switch index from a device's free-form
// config. JSON numbers decode as float64 and YAML ones as int.
func shellyIndex(config map[string]interface{}) (int, error) {
	val, ok := config["index"]
	if !ok {
		return 0, nil
	}

	switch idx := val.(type) {
	case int:
		return idx, nil
	case float64:
		return int(idx), nil
	default:
		return 0, fmt.Errorf("parse index value: %v (%T)", val, val)
	}
}
