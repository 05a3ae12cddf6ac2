// go-um980
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-um980.
//
// go-um980 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-um980 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-um980; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command um980mon configures a UM980 receiver and streams its output:
// fixes are printed and optionally published over MQTT, logged to SQLite
// and exported as Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/internal/config"
	"github.com/ZaparooProject/go-um980/polling"
	"github.com/sirupsen/logrus"
)

type flags struct {
	configPath *string
	device     *string
	transport  *string
	mode       *string
	broker     *string
	metrics    *string
	fixlog     *string
	rate       *int
	duration   *time.Duration
	debug      *bool
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "YAML configuration file"),
		device: flag.String("device", "",
			"Serial device path (e.g., /dev/ttyUSB0). Leave empty for auto-detection."),
		transport: flag.String("transport", "", "Transport for -device: uart or tty"),
		mode:      flag.String("mode", "", "Receiver mode: rover or base"),
		rate:      flag.Int("rate", 0, "GGA output rate in Hz: 1, 2, 5 or 10"),
		broker:    flag.String("mqtt", "", "MQTT broker URL (e.g., tcp://localhost:1883)"),
		metrics:   flag.String("metrics", "", "Listen address for Prometheus metrics (e.g., :9108)"),
		fixlog:    flag.String("fixlog", "", "SQLite file to log fixes to"),
		duration:  flag.Duration("duration", 0, "Stop after this long (default: run until interrupted)"),
		debug:     flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()
	return f
}

// loadConfig reads the configuration file and applies flag overrides
func loadConfig(f *flags) (config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load %s: %w", *f.configPath, err)
		}
		cfg = loaded
	}

	if *f.device != "" {
		cfg.Device.Port = *f.device
	}
	if *f.transport != "" {
		cfg.Device.Transport = *f.transport
	}
	if *f.mode != "" {
		cfg.Receiver.Mode = *f.mode
	}
	if *f.rate != 0 {
		cfg.Receiver.GGARate = *f.rate
	}
	if *f.broker != "" {
		cfg.MQTT.Broker = *f.broker
	}
	if *f.metrics != "" {
		cfg.Metrics.Listen = *f.metrics
	}
	if *f.fixlog != "" {
		cfg.FixLog.Path = *f.fixlog
	}
	if *f.debug {
		cfg.Log.Debug = true
	}
	return cfg, cfg.Validate()
}

func main() {
	f := parseFlags()
	log := logrus.New()

	cfg, err := loadConfig(f)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.Log.Debug {
		log.SetLevel(logrus.DebugLevel)
		um980.SetLogger(log)
		um980.SetDebugEnabled(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *f.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *f.duration)
		defer cancel()
	}

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Error("monitor stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	device, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("close device")
		}
	}()

	if err := configureReceiver(ctx, device, cfg.Receiver); err != nil {
		return err
	}

	sinks, err := openSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sinks.close()

	streamCfg := polling.DefaultConfig()
	streamCfg.PollInterval = cfg.Stream.PollInterval
	streamCfg.StaleAfter = cfg.Stream.StaleAfter

	out := newPrinter(os.Stdout, log)
	streamer, err := polling.NewStreamer(device, streamCfg, polling.Callbacks{
		OnFix: func(fix *um980.GGA) {
			out.fix(fix)
			sinks.fix(fix)
		},
		OnFixLost: func(last um980.GGA) {
			log.WithField("last", last.String()).Warn("fix lost")
		},
		OnAck: func(ack *um980.Ack) {
			log.WithFields(logrus.Fields{"command": ack.Command, "status": ack.Status}).Debug("late ack")
		},
		OnSentence: out.sentence,
		OnRTCM: func(frame um980.RTCMFrame) {
			log.Debug(frame.String())
			sinks.rtcm(frame)
		},
		OnError: func(err error) {
			log.WithError(err).Warn("poll")
		},
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Listen != "" {
		stopMetrics := serveMetrics(cfg.Metrics.Listen, streamer, device, log)
		defer stopMetrics()
	}

	start := time.Now()
	err = streamer.Run(ctx)
	out.summary(start, streamer.GetMetrics(), sinks)
	return err
}
