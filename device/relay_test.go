package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtlepseudonym/sunevent/config"
)

// fakeRelay answers the subset of the tasmota and shelly HTTP APIs
// used by the relay drivers.
type fakeRelay struct {
	mu       sync.Mutex
	on       bool
	requests []string
}

func (f *fakeRelay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.URL.RequestURI())

	enc := json.NewEncoder(w)
	switch {
	case r.URL.Path == "/cm":
		cmnd := r.URL.Query().Get("cmnd")
		switch cmnd {
		case "Status 2":
			enc.Encode(map[string]interface{}{
				"StatusFWR": map[string]string{"Version": "12.1.1", "Hardware": "ESP8266EX"},
			})
		case "Power On", "Power Off":
			f.on = cmnd == "Power On"
			enc.Encode(TasmotaPowerState{Power: strings.TrimPrefix(cmnd, "Power ")})
		case "State":
			power := "Off"
			if f.on {
				power = "On"
			}
			enc.Encode(TasmotaPowerState{Power: power})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	case r.URL.Path == "/rpc/Shelly.GetDeviceInfo":
		enc.Encode(ShellyDeviceInfo{FirmwareID: "20230913-114008", App: "Plus1PM"})
	case r.URL.Path == "/rpc/Switch.Set":
		f.on = r.URL.Query().Get("on") == "true"
		enc.Encode(map[string]bool{"was_on": !f.on})
	case r.URL.Path == "/rpc/Switch.GetStatus":
		enc.Encode(ShellySwitchStatus{Output: f.on})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeRelay(t *testing.T) (*fakeRelay, string) {
	relay := &fakeRelay{}
	srv := httptest.NewServer(relay)
	t.Cleanup(srv.Close)
	return relay, strings.TrimPrefix(srv.URL, "http://")
}

func TestTasmota(t *testing.T) {
	relay, host := newFakeRelay(t)
	ctx := context.Background()

	dev, err := Connect(ctx, "plug", config.Device{Type: "s31", Host: host})
	require.NoError(t, err)
	assert.Equal(t, "plug", dev.Label())
	assert.Equal(t, "Tasmota ESP8266EX 12.1.1", dev.String())

	require.NoError(t, dev.Transition(ctx, NewColor(0, 0, 100, 0), 0))
	status, err := dev.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.On)
	assert.Nil(t, status.Color)

	require.NoError(t, dev.Transition(ctx, NewColor(0, 0, 0, 0), 0))
	status, err = dev.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.On)

	assert.Contains(t, relay.requests, "/cm?cmnd=Power+On")
}

func TestShelly(t *testing.T) {
	relay, host := newFakeRelay(t)
	ctx := context.Background()

	dev, err := Connect(ctx, "lamp", config.Device{
		Type:   "shelly",
		Host:   host,
		Config: map[string]interface{}{"index": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shelly Plus1PM 20230913-114008", dev.String())

	require.NoError(t, dev.Transition(ctx, &Color{Brightness: 1}, 0))
	status, err := dev.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.On)

	assert.Contains(t, relay.requests, "/rpc/Switch.Set?id=1&on=true")
	assert.Contains(t, relay.requests, "/rpc/Switch.GetStatus?id=1")
}

func TestRelayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	host := strings.TrimPrefix(srv.URL, "http://")

	_, err := ConnectTasmota(context.Background(), "plug", host, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plug: query status")

	_, err = Connect(context.Background(), "bulb", config.Device{Type: "hue"})
	assert.EqualError(t, err, "unknown device type: hue")

	_, err = Connect(context.Background(), "lamp", config.Device{
		Type:   "shelly",
		Config: map[string]interface{}{"index": "one"},
	})
	assert.Error(t, err)
}
