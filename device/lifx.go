package device

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.yhsif.com/lifxlan"
	"go.yhsif.com/lifxlan/light"
)

type LifxBulb struct {
	light.Device
	label string // prevent need to contact device for logging
}

// ConnectLifx takes a label (for logging), a host in ip:port
// format and a mac address to locate a device on the network, connect
// to it, and retrieve the label and hardware version
func ConnectLifx(ctx context.Context, label, host, mac string) (Device, error) {
	target, err := lifxlan.ParseTarget(mac)
	if err != nil {
		return nil, fmt.Errorf("%s: parse mac address: %w", label, err)
	}

	dev := lifxlan.NewDevice(host, lifxlan.ServiceUDP, target)
	conn, err := dev.Dial()
	if err != nil {
		return nil, fmt.Errorf("%s: dial device: %w", label, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	// ConnectLifx is called once at startup, so a missing bulb is
	// reported immediately instead of retried.
	err = dev.Echo(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: echo device: %w", label, err)
	}

	bulb, err := light.Wrap(ctx, dev, false)
	if err != nil {
		return nil, fmt.Errorf("%s: device is not a light: %w", label, err)
	}

	device := &LifxBulb{
		Device: bulb,
		label:  label,
	}

	err = device.GetHardwareVersion(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: get hardware version: %w", label, err)
	}

	if device.Device.Label().String() != lifxlan.EmptyLabel {
		device.label = strings.ToLower(device.Device.Label().String())
	}

	return device, nil
}

// echo wraps the underlying method of the same name and adds retry logic
func (d *LifxBulb) echo(ctx context.Context, conn net.Conn) error {
	var err error
	for i := 0; i < defaultRetryLimit; i++ {
		err = d.Device.Echo(ctx, conn)
		if err == nil || !errors.Is(err, context.DeadlineExceeded) {
			break
		}

		time.Sleep(time.Duration(i+1) * defaultRetryBackoff)
	}

	return err
}

func (d *LifxBulb) Transition(ctx context.Context, color *Color, transition time.Duration) error {
	conn, err := d.Dial()
	if err != nil {
		return fmt.Errorf("%s: dial: %w", d.label, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	err = d.echo(ctx, conn)
	if err != nil {
		return fmt.Errorf("%s: echo device: %w", d.label, err)
	}

	if color.Brightness == 0 {
		err = d.SetLightPower(ctx, conn, lifxlan.PowerOff, transition, true)
		if err != nil {
			return fmt.Errorf("%s: set light power: %w", d.label, err)
		}
		return nil
	}

	power, err := d.GetPower(ctx, conn)
	if err != nil {
		return fmt.Errorf("%s: get power: %w", d.label, err)
	}

	desired := d.Device.SanitizeColor(lifxlan.Color{
		Hue:        color.Hue,
		Saturation: color.Saturation,
		Brightness: color.Brightness,
		Kelvin:     color.Kelvin,
	})

	// fade in from zero brightness rather than jumping to the last
	// color the bulb held
	if power == lifxlan.PowerOff {
		dark := desired
		dark.Brightness = 0

		err = d.SetColor(ctx, conn, &dark, time.Millisecond, true)
		if err != nil {
			return fmt.Errorf("%s: reset color: %w", d.label, err)
		}

		err = d.SetPower(ctx, conn, lifxlan.PowerOn, true)
		if err != nil {
			return fmt.Errorf("%s: set power: %w", d.label, err)
		}
	}

	err = d.SetColor(ctx, conn, &desired, transition, true)
	if err != nil {
		return fmt.Errorf("%s: set color: %w", d.label, err)
	}

	return nil
}

func (d *LifxBulb) Status(ctx context.Context) (*Status, error) {
	conn, err := d.Dial()
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", d.label, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	power, err := d.GetPower(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: get power: %w", d.label, err)
	}

	color, err := d.GetColor(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: get color: %w", d.label, err)
	}

	return &Status{
		On: power != lifxlan.PowerOff,
		Color: &Color{
			Hue:        color.Hue,
			Saturation: color.Saturation,
			Brightness: color.Brightness,
			Kelvin:     color.Kelvin,
		},
	}, nil
}

func (d *LifxBulb) Label() string {
	return d.label
}

func (d *LifxBulb) String() string {
	return d.Device.HardwareVersion().String()
}
