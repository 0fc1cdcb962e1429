package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/subtlepseudonym/sunevent"
	"github.com/subtlepseudonym/sunevent/config"
	"github.com/subtlepseudonym/sunevent/device"
)

const (
	dateFormat        = "2006-01-02"
	defaultTransition = 2 * time.Second
	requestTimeout    = 10 * time.Second
)

type server struct {
	events  *sunevent.SunEvent
	devices map[string]device.Device
	logger  *zap.SugaredLogger
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/sun", s.sunHandler)

	for label, dev := range s.devices {
		if label == config.ReservedLabel {
			s.logger.Errorf("register device: label %q is reserved", label)
			continue
		}
		mux.HandleFunc(fmt.Sprintf("/%s", label), s.powerHandler(dev))
		mux.HandleFunc(fmt.Sprintf("/%s/status", label), s.statusHandler(dev))
	}

	return mux
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.logger.Errorf("encode response: %s", err)
	}
}

type sunResponse struct {
	Date      string  `json:"date"`
	Dawn      *string `json:"dawn"`
	Sunrise   *string `json:"sunrise"`
	SolarNoon string  `json:"solar_noon"`
	Sunset    *string `json:"sunset"`
	Dusk      *string `json:"dusk"`
	DayLength *string `json:"day_length"`
}

// sunHandler reports the day's solar events, defaulting to today.
// Events that do not occur are null.
func (s *server) sunHandler(w http.ResponseWriter, r *http.Request) {
	date := time.Now().In(s.events.Zone())
	if param := r.FormValue("date"); param != "" {
		parsed, err := time.ParseInLocation(dateFormat, param, s.events.Zone())
		if err != nil {
			s.logger.Debugf("parse date param %q: %s", param, err)
			s.writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	res := sunResponse{
		Date:      date.Format(dateFormat),
		SolarNoon: s.events.SolarNoon(date).Format(time.RFC3339),
	}

	for _, ev := range []struct {
		kind sunevent.Kind
		dst  **string
	}{
		{sunevent.Dawn, &res.Dawn},
		{sunevent.Sunrise, &res.Sunrise},
		{sunevent.Sunset, &res.Sunset},
		{sunevent.Dusk, &res.Dusk},
	} {
		at, err := s.events.Event(ev.kind, date)
		if errors.Is(err, sunevent.ErrNoSolarEvent) {
			continue
		}
		if err != nil {
			s.logger.Errorf("calculate %s: %s", ev.kind, err)
			s.writeError(w, http.StatusInternalServerError, "unable to calculate solar events")
			return
		}
		formatted := at.Format(time.RFC3339)
		*ev.dst = &formatted
	}

	length, err := s.events.DayLength(date)
	if err == nil {
		formatted := length.String()
		res.DayLength = &formatted
	} else if !errors.Is(err, sunevent.ErrNoSolarEvent) {
		s.logger.Errorf("calculate day length: %s", err)
		s.writeError(w, http.StatusInternalServerError, "unable to calculate day length")
		return
	}

	s.writeJSON(w, res)
}

type colorResponse struct {
	On         bool     `json:"on"`
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	Kelvin     *uint16  `json:"kelvin,omitempty"`
	Transition string   `json:"transition,omitempty"`
}

func newColorResponse(on bool, color *device.Color) colorResponse {
	res := colorResponse{On: on}
	if color == nil {
		return res
	}

	hue := color.HueDegrees()
	saturation := color.SaturationPercent()
	brightness := color.BrightnessPercent()
	res.Hue = &hue
	res.Saturation = &saturation
	res.Brightness = &brightness
	res.Kelvin = &color.Kelvin

	return res
}

func contextWithTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func (s *server) statusHandler(dev device.Device) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := contextWithTimeout(r)
		defer cancel()

		status, err := dev.Status(ctx)
		if err != nil {
			s.logger.Errorf("get status: %s", err)
			s.writeError(w, http.StatusInternalServerError, "unable to get device state")
			return
		}

		s.writeJSON(w, newColorResponse(status.On, status.Color))
	}
}

// powerHandler transitions a device. Brightness is required; hue,
// saturation and kelvin default to zero and transition, in
// milliseconds or as a duration string, to two seconds.
func (s *server) powerHandler(dev device.Device) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "unable to parse form")
			return
		}

		if _, ok := r.Form["brightness"]; !ok {
			s.writeError(w, http.StatusBadRequest, "brightness parameter is required")
			return
		}

		var values [3]float64
		for i, name := range []string{"hue", "saturation", "brightness"} {
			if _, ok := r.Form[name]; !ok {
				continue
			}
			param := r.FormValue(name)
			values[i], err = strconv.ParseFloat(param, 64)
			if err != nil {
				s.logger.Debugf("%s: parse %s param %q: %s", dev.Label(), name, param, err)
				s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unable to parse %s parameter", name))
				return
			}
		}

		var kelvin int
		if param := r.FormValue("kelvin"); param != "" {
			kelvin, err = strconv.Atoi(param)
			if err != nil {
				s.logger.Debugf("%s: parse kelvin param %q: %s", dev.Label(), param, err)
				s.writeError(w, http.StatusBadRequest, "unable to parse kelvin parameter")
				return
			}
		}

		transition := defaultTransition
		if param := r.FormValue("transition"); param != "" {
			// bare integers are milliseconds
			if _, err := strconv.Atoi(param); err == nil {
				param += "ms"
			}
			transition, err = time.ParseDuration(param)
			if err != nil {
				s.logger.Debugf("%s: parse transition param %q: %s", dev.Label(), param, err)
				s.writeError(w, http.StatusBadRequest, "unable to parse transition parameter")
				return
			}
		}

		color := device.NewColor(values[0], values[1], values[2], kelvin)

		ctx, cancel := contextWithTimeout(r)
		defer cancel()

		err = dev.Transition(ctx, color, transition)
		if err != nil {
			s.logger.Errorf("transition: %s", err)
			s.writeError(w, http.StatusInternalServerError, "unable to set state on device")
			return
		}

		res := newColorResponse(color.Brightness > 0, color)
		res.Transition = transition.String()
		s.writeJSON(w, res)
	}
}
