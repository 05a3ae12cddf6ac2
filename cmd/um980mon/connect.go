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

package main

import (
	"context"
	"fmt"
	"strings"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/detection"
	// Register the serial port detector
	_ "github.com/ZaparooProject/go-um980/detection/uart"
	"github.com/ZaparooProject/go-um980/internal/config"
	"github.com/ZaparooProject/go-um980/transport/tty"
	"github.com/ZaparooProject/go-um980/transport/uart"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

// newTransport returns a factory opening paths with the configured transport
func newTransport(dev config.DeviceConfig) um980.TransportFactory {
	return func(path string) (um980.Transport, error) {
		switch dev.Transport {
		case config.TransportTTY:
			t, err := tty.New(path, dev.Baud)
			if err != nil {
				return nil, fmt.Errorf("failed to create TTY transport: %w", err)
			}
			return t, nil
		default:
			t, err := uart.New(path, uart.WithBaud(physic.Frequency(dev.Baud)*physic.Hertz))
			if err != nil {
				return nil, fmt.Errorf("failed to create UART transport: %w", err)
			}
			return t, nil
		}
	}
}

// newTransportFromDevice opens a detected port
func newTransportFromDevice(dev config.DeviceConfig) um980.TransportFromDeviceFactory {
	open := newTransport(dev)
	return func(device detection.DeviceInfo) (um980.Transport, error) {
		if !strings.EqualFold(device.Transport, "uart") {
			return nil, fmt.Errorf("unsupported transport type: %s", device.Transport)
		}
		return open(device.Path)
	}
}

func connect(ctx context.Context, cfg config.Config, log *logrus.Logger) (*um980.Device, error) {
	opts := []um980.ConnectOption{
		um980.WithDeviceOptions(um980.WithAckTimeout(cfg.Device.AckTimeout)),
	}
	if cfg.Device.Port == "" {
		detectOpts := detection.DefaultOptions()
		opts = append(opts,
			um980.WithAutoDetection(&detectOpts),
			um980.WithTransportFromDeviceFactory(newTransportFromDevice(cfg.Device)))
		log.Info("auto-detecting UM980 receivers")
	} else {
		opts = append(opts, um980.WithTransportFactory(newTransport(cfg.Device)))
		log.WithField("port", cfg.Device.Port).Info("opening receiver")
	}

	device, err := um980.ConnectDevice(ctx, cfg.Device.Port, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to UM980: %w", err)
	}
	if n, ok := device.Transport().(um980.Namer); ok {
		log.WithField("port", n.Name()).Info("receiver initialized")
	}
	return device, nil
}

func configureReceiver(ctx context.Context, device *um980.Device, rc config.ReceiverConfig) error {
	if rc.Mode == config.ModeBase {
		if err := device.SetModeBaseContext(ctx); err != nil {
			return fmt.Errorf("set base mode: %w", err)
		}
		for _, c := range rc.Corrections {
			if err := device.StartCorrectionGenerationContext(ctx, c.Message, c.Period); err != nil {
				return fmt.Errorf("enable RTCM%d: %w", c.Message, err)
			}
		}
	} else if err := device.SetModeRoverContext(ctx); err != nil {
		return fmt.Errorf("set rover mode: %w", err)
	}

	rate, err := um980.ParseFrequency(rc.GGARate)
	if err != nil {
		return err
	}
	if err := device.StartGGAGenerationContext(ctx, rate); err != nil {
		return fmt.Errorf("start GGA at %s: %w", rate, err)
	}
	return nil
}
