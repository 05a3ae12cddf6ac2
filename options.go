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

package um980

import (
	"fmt"
	"time"
)

// Clock returns a free running microsecond tick that wraps at 2^32
type Clock func() uint32

// NMEAListener receives every de-framed NMEA sentence. The slice aliases the
// driver's packet buffer and is only valid during the call.
type NMEAListener func(sentence []byte)

// RTCMListener receives every de-framed RTCM3 frame. The slice aliases the
// driver's packet buffer and is only valid during the call.
type RTCMListener func(frame RTCMFrame)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Clock is the tick source used for acknowledgement timeouts and waits
	Clock Clock
	// AckTimeout bounds the wait for a command acknowledgement
	AckTimeout time.Duration
	// PollInterval is the pause between de-framer polls while waiting
	PollInterval time.Duration
	// InitRetryDelay is the wait before each Init retry
	InitRetryDelay time.Duration
	// InitAttempts is how many times Init sends the stop-logging command
	InitAttempts int
	// BufferSize is the de-framer receive buffer capacity
	BufferSize int
	// PacketBufferSize is the size of the buffer packets are copied into.
	// It must exceed BufferSize so any frame the receive buffer accepts fits
	// with its terminator.
	PacketBufferSize int
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Clock:            MonotonicClock(),
		AckTimeout:       100 * time.Millisecond,
		PollInterval:     time.Millisecond,
		InitRetryDelay:   500 * time.Millisecond,
		InitAttempts:     2,
		BufferSize:       DefaultBufferSize,
		PacketBufferSize: DefaultBufferSize + 1,
	}
}

// MonotonicClock returns a Clock counting microseconds since the call
func MonotonicClock() Clock {
	epoch := time.Now()
	return func() uint32 {
		return uint32(time.Since(epoch).Microseconds())
	}
}

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithAckTimeout sets how long a command waits for its acknowledgement
func WithAckTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 || timeout.Microseconds() > int64(^uint32(0)) {
			return fmt.Errorf("ack timeout %v: %w", timeout, ErrInvalidParameter)
		}
		d.config.AckTimeout = timeout
		return nil
	}
}

// WithClock replaces the tick source
func WithClock(clock Clock) Option {
	return func(d *Device) error {
		if clock == nil {
			return fmt.Errorf("nil clock: %w", ErrInvalidParameter)
		}
		d.config.Clock = clock
		return nil
	}
}

// WithPollInterval sets the pause between polls while waiting for an
// acknowledgement. Zero polls continuously.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Device) error {
		if interval < 0 {
			return fmt.Errorf("poll interval %v: %w", interval, ErrInvalidParameter)
		}
		d.config.PollInterval = interval
		return nil
	}
}

// WithInitAttempts sets how many times Init tries the stop-logging command
func WithInitAttempts(attempts int) Option {
	return func(d *Device) error {
		if attempts < 1 {
			return fmt.Errorf("init attempts %d: %w", attempts, ErrInvalidParameter)
		}
		d.config.InitAttempts = attempts
		return nil
	}
}

// WithInitRetryDelay sets the wait between Init attempts
func WithInitRetryDelay(delay time.Duration) Option {
	return func(d *Device) error {
		if delay < 0 {
			return fmt.Errorf("init retry delay %v: %w", delay, ErrInvalidParameter)
		}
		d.config.InitRetryDelay = delay
		return nil
	}
}

// WithBufferSize sets the receive buffer capacity
func WithBufferSize(size int) Option {
	return func(d *Device) error {
		if size < 64 {
			return fmt.Errorf("buffer size %d: %w", size, ErrInvalidParameter)
		}
		d.config.BufferSize = size
		if d.config.PacketBufferSize <= size {
			d.config.PacketBufferSize = size + 1
		}
		return nil
	}
}

// WithPacketBufferSize sets the size of the packet buffer
func WithPacketBufferSize(size int) Option {
	return func(d *Device) error {
		if size < 64 {
			return fmt.Errorf("packet buffer size %d: %w", size, ErrInvalidParameter)
		}
		d.config.PacketBufferSize = size
		return nil
	}
}

// WithNMEAListener installs the NMEA listener
func WithNMEAListener(l NMEAListener) Option {
	return func(d *Device) error {
		d.nmeaListener = l
		return nil
	}
}

// WithRTCMListener installs the RTCM listener
func WithRTCMListener(l RTCMListener) Option {
	return func(d *Device) error {
		d.rtcmListener = l
		return nil
	}
}
