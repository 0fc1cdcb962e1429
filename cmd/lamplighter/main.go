package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/subtlepseudonym/sunevent"
	"github.com/subtlepseudonym/sunevent/config"
	"github.com/subtlepseudonym/sunevent/device"
)

const (
	defaultConfigFile = "secrets/lamp.yaml"
	defaultListenAddr = ":9000"

	connectTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func newJob(dev device.Device, job config.Job, logger *zap.SugaredLogger) (Job, error) {
	transition, err := job.TransitionDuration()
	if err != nil {
		return Job{}, err
	}

	color := device.NewColor(
		float64(job.Hue),
		float64(job.Saturation),
		float64(job.Brightness),
		job.Kelvin,
	)

	return Job{
		Device:     dev,
		Color:      color,
		Transition: transition,
		logger:     logger,
	}, nil
}

func parseSchedule(events *sunevent.SunEvent, spec string) (cron.Schedule, error) {
	if sunevent.IsEventSpec(spec) {
		return sunevent.NewEventSchedule(events, spec)
	}
	return cron.ParseStandard(spec)
}

func main() {
	configFile := flag.String("config", defaultConfigFile, "path to yaml config file")
	listenAddr := flag.String("listen", defaultListenAddr, "http listen address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// manually set local timezone for docker container
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.Fatalf("load tz location: %s", err)
		}
		time.Local = loc
	}

	cfg, err := config.Open(*configFile)
	if err != nil {
		logger.Fatalf("open config: %s", err)
	}
	err = cfg.Validate()
	if err != nil {
		logger.Fatalf("validate config: %s", err)
	}

	events := cfg.SunEvent()
	loc := events.Location()
	logger.Infow("location",
		"latitude", loc.Latitude,
		"longitude", loc.Longitude,
		"utc_offset", loc.UTCOffset,
		"dst", events.DST(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	devices := make(map[string]device.Device)
	for label, dev := range cfg.Devices {
		d, err := device.Connect(ctx, label, dev)
		if err != nil {
			logger.Errorf("connect device %q: %s", label, err)
			continue
		}
		devices[label] = d
		logger.Infof("registered device: %q %s", label, d)
	}
	cancel()

	now := time.Now() // used for logging cron entries
	lightCron := cron.New(cron.WithLogger(cronLogger{logger}))
	for _, j := range cfg.Jobs {
		dev, ok := devices[j.Device]
		if !ok {
			logger.Errorf("schedule job %q: device %q not connected", j.Schedule, j.Device)
			continue
		}

		schedule, err := parseSchedule(events, j.Schedule)
		if err != nil {
			logger.Errorf("parse schedule: %s", err)
			continue
		}

		job, err := newJob(dev, j, logger)
		if err != nil {
			logger.Errorf("build job: %s", err)
			continue
		}
		lightCron.Schedule(schedule, job)

		next := schedule.Next(now)
		if next.IsZero() {
			logger.Warnf("job: %q: %s: no upcoming run", j.Schedule, dev.Label())
			continue
		}
		logger.Infof("job: %s: %s", next.Local().Format(time.RFC3339), dev.Label())
	}

	srv := &http.Server{
		Addr: *listenAddr,
		Handler: (&server{
			events:  events,
			devices: devices,
			logger:  logger,
		}).routes(),
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sigCtx.Done()
		logger.Info("shutting down")

		<-lightCron.Stop().Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(ctx)
		if err != nil {
			logger.Errorf("shutdown server: %s", err)
		}
	}()

	logger.Infof("listening on %s", srv.Addr)
	lightCron.Start()

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("listen and serve: %s", err)
	}
	<-done
}
