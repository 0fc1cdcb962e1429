package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var relayClient = &http.Client{
	Timeout: defaultRequestTimeout,
}

// getJSON issues a GET against a relay's local HTTP API and decodes
// the response into v. A nil v discards the body.
func getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	res, err := relayClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("response: %s", res.Status)
	}

	if v == nil {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// Tasmota is a relay running the tasmota firmware, such as the
// Sonoff S31 smart plug.
//
// https://tasmota.github.io/docs/Commands/#with-web-requests
type Tasmota struct {
	Address  string
	MAC      string
	Firmware string
	Hardware string
	label    string
}

type TasmotaFirmwareStatus struct {
	Status struct {
		Version  string `json:"Version"`
		Hardware string `json:"Hardware"`
	} `json:"StatusFWR"`
}

type TasmotaPowerState struct {
	Power string `json:"POWER"`
}

func ConnectTasmota(ctx context.Context, label, addr, mac string) (Device, error) {
	t := &Tasmota{
		Address: addr,
		MAC:     mac,
		label:   label,
	}

	var status TasmotaFirmwareStatus
	err := getJSON(ctx, t.command("Status 2"), &status)
	if err != nil {
		return nil, fmt.Errorf("%s: query status: %w", t.label, err)
	}

	t.Firmware = status.Status.Version
	t.Hardware = status.Status.Hardware

	return t, nil
}

func (t *Tasmota) command(cmnd string) string {
	query := url.Values{"cmnd": []string{cmnd}}
	return fmt.Sprintf("http://%s/cm?%s", t.Address, query.Encode())
}

// Transition switches the relay; color other than brightness and the
// transition duration are ignored.
func (t *Tasmota) Transition(ctx context.Context, color *Color, _ time.Duration) error {
	power := "Off"
	if color.Brightness > 0 {
		power = "On"
	}

	var state TasmotaPowerState
	err := getJSON(ctx, t.command("Power "+power), &state)
	if err != nil {
		return fmt.Errorf("%s: set power state: %w", t.label, err)
	}

	if state.Power != power {
		return fmt.Errorf("%s: power state is %q after setting %q", t.label, state.Power, power)
	}

	return nil
}

func (t *Tasmota) Status(ctx context.Context) (*Status, error) {
	var state TasmotaPowerState
	err := getJSON(ctx, t.command("State"), &state)
	if err != nil {
		return nil, fmt.Errorf("%s: query state: %w", t.label, err)
	}

	return &Status{On: state.Power == "On"}, nil
}

func (t *Tasmota) Label() string {
	return t.label
}

func (t *Tasmota) String() string {
	return fmt.Sprintf("Tasmota %s %s", t.Hardware, t.Firmware)
}

// Shelly is a gen2 Shelly relay controlled over its RPC API.
//
// https://shelly-api-docs.shelly.cloud/gen2/ComponentsAndServices/Switch
type Shelly struct {
	Address  string
	MAC      string
	Firmware string
	Hardware string
	label    string
	index    int // index of attached port on device
}

type ShellyDeviceInfo struct {
	ID         string `json:"id"`
	MAC        string `json:"mac"`
	Model      string `json:"model"`
	Generation int    `json:"gen"`
	FirmwareID string `json:"fw_id"`
	Version    string `json:"ver"`
	App        string `json:"app"`
}

type ShellySwitchStatus struct {
	Source      string `json:"source"`
	Output      bool   `json:"output"`
	Temperature struct {
		Celsius    float64 `json:"tC"`
		Fahrenheit float64 `json:"tF"`
	} `json:"temperature"`
}

func ConnectShelly(ctx context.Context, label, addr, mac string, index int) (Device, error) {
	s := &Shelly{
		Address: addr,
		MAC:     mac,
		label:   label,
		index:   index,
	}

	var info ShellyDeviceInfo
	err := getJSON(ctx, s.rpc("Shelly.GetDeviceInfo", nil), &info)
	if err != nil {
		return nil, fmt.Errorf("%s: query info: %w", s.label, err)
	}
	s.Firmware = info.FirmwareID
	s.Hardware = info.App

	return s, nil
}

func (s *Shelly) rpc(method string, params url.Values) string {
	u := fmt.Sprintf("http://%s/rpc/%s", s.Address, method)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (s *Shelly) Transition(ctx context.Context, color *Color, _ time.Duration) error {
	params := url.Values{
		"id": []string{strconv.Itoa(s.index)},
		"on": []string{strconv.FormatBool(color.Brightness > 0)},
	}

	err := getJSON(ctx, s.rpc("Switch.Set", params), nil)
	if err != nil {
		return fmt.Errorf("%s: set power state: %w", s.label, err)
	}

	return nil
}

func (s *Shelly) Status(ctx context.Context) (*Status, error) {
	params := url.Values{"id": []string{strconv.Itoa(s.index)}}

	var status ShellySwitchStatus
	err := getJSON(ctx, s.rpc("Switch.GetStatus", params), &status)
	if err != nil {
		return nil, fmt.Errorf("%s: query status: %w", s.label, err)
	}

	return &Status{On: status.Output}, nil
}

func (s *Shelly) Label() string {
	return s.label
}

func (s *Shelly) String() string {
	return fmt.Sprintf("Shelly %s %s", s.Hardware, s.Firmware)
}
