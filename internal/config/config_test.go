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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "um980.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeTempConfig(t, "device:\n  port: /dev/ttyUSB0\n"))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device.Port)
	assert.Equal(t, TransportUART, cfg.Device.Transport)
	assert.Equal(t, 115200, cfg.Device.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.Device.AckTimeout)
	assert.Equal(t, ModeRover, cfg.Receiver.Mode)
	assert.Equal(t, 1, cfg.Receiver.GGARate)
	assert.Equal(t, 10*time.Millisecond, cfg.Stream.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Stream.StaleAfter)
	assert.Equal(t, "um980", cfg.MQTT.Topic)
	assert.Equal(t, 9, cfg.MQTT.GeohashPrecision)
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
device:
  port: /dev/ttyAMA0
  transport: tty
  baud: 460800
  ack_timeout: 250ms
receiver:
  mode: base
  gga_rate: 5
  corrections:
    - message: 1005
      period: 10
    - message: 1074
      period: 1
stream:
  poll_interval: 5ms
  stale_after: 2s
mqtt:
  broker: tcp://localhost:1883
  topic: base/station
  qos: 1
  retain: true
  relay_rtcm: true
fixlog:
  path: /var/lib/um980/fixes.db
  retention: 168h
metrics:
  listen: ":9108"
log:
  debug: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, TransportTTY, cfg.Device.Transport)
	assert.Equal(t, 460800, cfg.Device.Baud)
	assert.Equal(t, 250*time.Millisecond, cfg.Device.AckTimeout)
	assert.Equal(t, ModeBase, cfg.Receiver.Mode)
	assert.Equal(t, 5, cfg.Receiver.GGARate)
	assert.Equal(t, []Correction{{Message: 1005, Period: 10}, {Message: 1074, Period: 1}}, cfg.Receiver.Corrections)
	assert.Equal(t, 5*time.Millisecond, cfg.Stream.PollInterval)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.True(t, cfg.MQTT.RelayRTCM)
	assert.Equal(t, 168*time.Hour, cfg.FixLog.Retention)
	assert.Equal(t, ":9108", cfg.Metrics.Listen)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "transport",
			contents: "device:\n  transport: spi\n",
			want:     `device.transport must be "uart" or "tty"`,
		},
		{
			name:     "mode",
			contents: "receiver:\n  mode: moving\n",
			want:     `receiver.mode must be "rover" or "base"`,
		},
		{
			name:     "gga rate",
			contents: "receiver:\n  gga_rate: 3\n",
			want:     "receiver.gga_rate must be 1, 2, 5 or 10",
		},
		{
			name:     "corrections on rover",
			contents: "receiver:\n  corrections:\n    - {message: 1005, period: 1}\n",
			want:     "receiver.corrections requires receiver.mode=base",
		},
		{
			name:     "correction period",
			contents: "receiver:\n  mode: base\n  corrections:\n    - {message: 1005}\n",
			want:     "receiver.corrections[0].period must be > 0",
		},
		{
			name:     "qos",
			contents: "mqtt:\n  qos: 3\n",
			want:     "mqtt.qos must be 0, 1 or 2",
		},
		{
			name:     "geohash precision",
			contents: "mqtt:\n  geohash_precision: 13\n",
			want:     "mqtt.geohash_precision must be between 0 and 12",
		},
		{
			name:     "relay without broker",
			contents: "mqtt:\n  relay_rtcm: true\n",
			want:     "mqtt.relay_rtcm requires mqtt.broker",
		},
		{
			name:     "negative retention",
			contents: "fixlog:\n  retention: -1h\n",
			want:     "fixlog.retention must be >= 0",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeTempConfig(t, tc.contents))
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("device: [unterminated"))
	assert.Error(t, err)
}
