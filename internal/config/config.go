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

// Package config loads the YAML configuration shared by the command line tools.
package config

import (
	"fmt"
	"os"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"gopkg.in/yaml.v3"
)

// Transport names accepted in device.transport
const (
	TransportUART = "uart"
	TransportTTY  = "tty"
)

// Receiver modes accepted in receiver.mode
const (
	ModeRover = "rover"
	ModeBase  = "base"
)

// Config is the root of the configuration file
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Receiver ReceiverConfig `yaml:"receiver"`
	Stream   StreamConfig   `yaml:"stream"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	FixLog   FixLogConfig   `yaml:"fixlog"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type DeviceConfig struct {
	// Port is the serial device path. Empty means auto detect.
	Port       string        `yaml:"port"`
	Transport  string        `yaml:"transport"`
	Baud       int           `yaml:"baud"`
	AckTimeout time.Duration `yaml:"ack_timeout"`
}

type Correction struct {
	Message uint16 `yaml:"message"`
	Period  uint16 `yaml:"period"`
}

type ReceiverConfig struct {
	Mode        string       `yaml:"mode"`
	GGARate     int          `yaml:"gga_rate"`
	Corrections []Correction `yaml:"corrections"`
}

type StreamConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	StaleAfter   time.Duration `yaml:"stale_after"`
}

type MQTTConfig struct {
	Broker           string        `yaml:"broker"`
	Topic            string        `yaml:"topic"`
	ClientID         string        `yaml:"client_id"`
	Timeout          time.Duration `yaml:"timeout"`
	GeohashPrecision int           `yaml:"geohash_precision"`
	QoS              byte          `yaml:"qos"`
	Retain           bool          `yaml:"retain"`
	// RelayRTCM also publishes correction frames
	RelayRTCM bool `yaml:"relay_rtcm"`
}

type FixLogConfig struct {
	Path      string        `yaml:"path"`
	Retention time.Duration `yaml:"retention"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads path, applies defaults and validates the result
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates the result
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Device.Transport == "" {
		c.Device.Transport = TransportUART
	}
	if c.Device.Baud == 0 {
		c.Device.Baud = 115200
	}
	if c.Device.AckTimeout == 0 {
		c.Device.AckTimeout = 100 * time.Millisecond
	}
	if c.Receiver.Mode == "" {
		c.Receiver.Mode = ModeRover
	}
	if c.Receiver.GGARate == 0 {
		c.Receiver.GGARate = 1
	}
	if c.Stream.PollInterval == 0 {
		c.Stream.PollInterval = 10 * time.Millisecond
	}
	if c.Stream.StaleAfter == 0 {
		c.Stream.StaleAfter = 5 * time.Second
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "um980"
	}
	if c.MQTT.Timeout == 0 {
		c.MQTT.Timeout = 2 * time.Second
	}
	if c.MQTT.GeohashPrecision == 0 {
		c.MQTT.GeohashPrecision = 9
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	switch c.Device.Transport {
	case TransportUART, TransportTTY:
	default:
		return fmt.Errorf("device.transport must be %q or %q", TransportUART, TransportTTY)
	}
	if c.Device.Baud < 0 {
		return fmt.Errorf("device.baud must be > 0")
	}
	if c.Device.AckTimeout < 0 {
		return fmt.Errorf("device.ack_timeout must be > 0")
	}

	switch c.Receiver.Mode {
	case ModeRover, ModeBase:
	default:
		return fmt.Errorf("receiver.mode must be %q or %q", ModeRover, ModeBase)
	}
	if _, err := um980.ParseFrequency(c.Receiver.GGARate); err != nil {
		return fmt.Errorf("receiver.gga_rate must be 1, 2, 5 or 10")
	}
	if len(c.Receiver.Corrections) > 0 && c.Receiver.Mode != ModeBase {
		return fmt.Errorf("receiver.corrections requires receiver.mode=base")
	}
	for i, corr := range c.Receiver.Corrections {
		if corr.Message == 0 {
			return fmt.Errorf("receiver.corrections[%d].message is required", i)
		}
		if corr.Period == 0 {
			return fmt.Errorf("receiver.corrections[%d].period must be > 0", i)
		}
	}

	if c.Stream.PollInterval < 0 {
		return fmt.Errorf("stream.poll_interval must be > 0")
	}
	if c.Stream.StaleAfter < 0 {
		return fmt.Errorf("stream.stale_after must be > 0")
	}

	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	if c.MQTT.GeohashPrecision < 0 || c.MQTT.GeohashPrecision > 12 {
		return fmt.Errorf("mqtt.geohash_precision must be between 0 and 12")
	}
	if c.MQTT.RelayRTCM && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.relay_rtcm requires mqtt.broker")
	}

	if c.FixLog.Retention < 0 {
		return fmt.Errorf("fixlog.retention must be >= 0")
	}
	return nil
}
