package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/subtlepseudonym/sunevent/device"
)

// Job transitions a device to a color. It implements cron.Job
type Job struct {
	Device     device.Device
	Color      *device.Color
	Transition time.Duration
	logger     *zap.SugaredLogger
}

func (j Job) Run() {
	j.logger.Infof("%s: transitioning over %s", j.Device.Label(), j.Transition)

	// allow for the transition itself plus the device round trips
	ctx, cancel := context.WithTimeout(context.Background(), j.Transition+time.Minute)
	defer cancel()

	err := j.Device.Transition(ctx, j.Color, j.Transition)
	if err != nil {
		j.logger.Errorf("transition device: %s", err)
	}
}

// cronLogger adapts a zap logger to cron.Logger
type cronLogger struct {
	*zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, append(keysAndValues, "error", err)...)
}
