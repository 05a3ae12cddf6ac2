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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-um980/detection"
	"github.com/ZaparooProject/go-um980/internal/transport"
)

// flushReadLimit bounds the reads New spends discarding stale input
const flushReadLimit = 64

// Device is the protocol driver for a UM980 receiver. It sends configuration
// commands, waits for their acknowledgements and dispatches the sentences and
// correction frames the receiver produces.
//
// Thread Safety: Device is NOT thread-safe. Commands and PollIncoming must be
// called from a single goroutine or protected with external synchronization.
type Device struct {
	transport    Transport
	config       *DeviceConfig
	deframer     *Deframer
	nmeaListener NMEAListener
	rtcmListener RTCMListener
	packet       []byte
}

// New creates a driver for the receiver on transport and discards any bytes
// the receiver sent before the driver existed
func New(t Transport, opts ...Option) (*Device, error) {
	if t == nil {
		return nil, fmt.Errorf("nil transport: %w", ErrInvalidParameter)
	}

	device := &Device{
		transport: t,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if device.config.PacketBufferSize <= device.config.BufferSize {
		return nil, fmt.Errorf("packet buffer size %d must exceed buffer size %d: %w",
			device.config.PacketBufferSize, device.config.BufferSize, ErrInvalidParameter)
	}

	device.deframer = NewDeframer(t, device.config.BufferSize)
	device.packet = make([]byte, device.config.PacketBufferSize)

	if err := device.flush(); err != nil {
		return nil, fmt.Errorf("failed to flush receive path: %w", err)
	}
	return device, nil
}

// flush reads and drops whatever the transport already holds
func (d *Device) flush() error {
	scratch := make([]byte, d.config.BufferSize)
	for i := 0; i < flushReadLimit; i++ {
		available, err := d.transport.Readable()
		if err != nil {
			return NewTransportError("readable", portName(d.transport), fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
		}
		if available <= 0 {
			return nil
		}
		if available > len(scratch) {
			available = len(scratch)
		}
		n, err := d.transport.Read(scratch[:available])
		if err != nil {
			return NewTransportError("read", portName(d.transport), fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
		}
		debugf("flushed %d stale bytes", n)
	}
	return nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Config returns the active configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// SetNMEAListener installs or, with nil, removes the NMEA listener
func (d *Device) SetNMEAListener(l NMEAListener) {
	d.nmeaListener = l
}

// SetRTCMListener installs or, with nil, removes the RTCM listener. Without
// a listener RTCM frames are only logged.
func (d *Device) SetRTCMListener(l RTCMListener) {
	d.rtcmListener = l
}

// Reset discards everything buffered by the de-framer
func (d *Device) Reset() {
	d.deframer.Reset()
}

// Close closes the transport
func (d *Device) Close() error {
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// Init stops all receiver output, retrying once after a pause
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext stops all receiver output. Each failed attempt is followed by
// a wait of InitRetryDelay and a de-framer reset.
func (d *Device) InitContext(ctx context.Context) error {
	pauseAndReset := func() error {
		if err := d.wait(ctx, d.config.InitRetryDelay); err != nil {
			return err
		}
		d.Reset()
		return nil
	}

	_, err := transport.WithRetry(transport.RetryConfig{
		Description:   "initialize receiver",
		MaxRetries:    d.config.InitAttempts - 1,
		OnRetry:       pauseAndReset,
		OnRetryFailed: pauseAndReset,
	}, func() (struct{}, bool, error) {
		err := d.UnlogContext(ctx)
		if err == nil {
			return struct{}{}, false, nil
		}
		if ctx.Err() != nil {
			return struct{}{}, false, err
		}
		debugf("init attempt failed: %v", err)
		return struct{}{}, true, err
	})
	return err
}

// Unlog stops every periodic output of the receiver
func (d *Device) Unlog() error {
	return d.UnlogContext(context.Background())
}

// UnlogContext stops every periodic output of the receiver
func (d *Device) UnlogContext(ctx context.Context) error {
	return d.SendCommandContext(ctx, CommandUnlog)
}

// SetModeBase switches the receiver to base station mode with a 60 second
// self survey
func (d *Device) SetModeBase() error {
	return d.SetModeBaseContext(context.Background())
}

// SetModeBaseContext switches the receiver to base station mode
func (d *Device) SetModeBaseContext(ctx context.Context) error {
	return d.SendCommandContext(ctx, CommandModeBase)
}

// SetModeRover switches the receiver to rover mode
func (d *Device) SetModeRover() error {
	return d.SetModeRoverContext(context.Background())
}

// SetModeRoverContext switches the receiver to rover mode
func (d *Device) SetModeRoverContext(ctx context.Context) error {
	return d.SendCommandContext(ctx, CommandModeRover)
}

// StartGGAGeneration starts periodic GGA output at f
func (d *Device) StartGGAGeneration(f Frequency) error {
	return d.StartGGAGenerationContext(context.Background(), f)
}

// StartGGAGenerationContext starts periodic GGA output at f
func (d *Device) StartGGAGenerationContext(ctx context.Context, f Frequency) error {
	cmd, err := GGACommand(f)
	if err != nil {
		return err
	}
	return d.SendCommandContext(ctx, cmd)
}

// StartCorrectionGeneration starts output of RTCM message msg every period seconds
func (d *Device) StartCorrectionGeneration(msg, period uint16) error {
	return d.StartCorrectionGenerationContext(context.Background(), msg, period)
}

// StartCorrectionGenerationContext starts output of RTCM message msg every period seconds
func (d *Device) StartCorrectionGenerationContext(ctx context.Context, msg, period uint16) error {
	return d.SendCommandContext(ctx, CorrectionCommand(msg, period))
}

// SendCommand writes cmd followed by CRLF and waits for the receiver to
// acknowledge it
func (d *Device) SendCommand(cmd string) error {
	return d.SendCommandContext(context.Background(), cmd)
}

// SendCommandContext writes cmd followed by CRLF and polls until an
// acknowledgement for cmd with status OK arrives or AckTimeout elapses.
// Packets other than the matching acknowledgement are dropped while waiting.
func (d *Device) SendCommandContext(ctx context.Context, cmd string) error {
	if cmd == "" || len(cmd) > MaxCommandLength {
		return &CommandError{Command: cmd, Err: fmt.Errorf("command length %d: %w", len(cmd), ErrInvalidParameter)}
	}

	if err := d.writeCommand(cmd); err != nil {
		return &CommandError{Command: cmd, Err: err}
	}
	if err := d.awaitAck(ctx, cmd); err != nil {
		return &CommandError{Command: cmd, Err: err}
	}
	debugf("command %q acknowledged", cmd)
	return nil
}

func (d *Device) writeCommand(cmd string) error {
	line := []byte(cmd + "\r\n")
	n, err := d.transport.Write(line)
	if err != nil {
		return NewTransportError("write", portName(d.transport), fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
	}
	if n != len(line) {
		return NewTransportError("write", portName(d.transport),
			fmt.Errorf("wrote %d of %d bytes: %w", n, len(line), ErrTransportWrite), ErrorTypeTransient)
	}
	return nil
}

func (d *Device) awaitAck(ctx context.Context, cmd string) error {
	timeout := uint32(d.config.AckTimeout.Microseconds())
	start := d.config.Clock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := d.deframer.Poll(d.packet)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProtocol, err)
		}
		if n > 0 && d.isAckFor(cmd, d.packet[:n]) {
			return nil
		}

		now := d.config.Clock()
		if now < start || now-start > timeout {
			return NewTimeoutError("await ack", portName(d.transport))
		}
		if n == 0 && d.config.PollInterval > 0 {
			time.Sleep(d.config.PollInterval)
		}
	}
}

func (*Device) isAckFor(cmd string, pkt []byte) bool {
	if ClassifyPacket(pkt) != PacketNMEA || ClassifySentence(pkt) != SentenceCommandAck {
		debugf("dropping %d byte packet while waiting for ack", len(pkt))
		return false
	}
	ack, err := ParseAck(pkt)
	if err != nil {
		debugf("ignoring malformed ack: %v", err)
		return false
	}
	if !CheckCommand(cmd, ack) {
		debugf("ack for %q with status %s does not confirm %q", ack.Command, ack.Status, cmd)
		return false
	}
	return true
}

// wait busy-waits on the tick source. A tick that went backwards ends the wait.
func (d *Device) wait(ctx context.Context, delay time.Duration) error {
	target := uint32(delay.Microseconds())
	start := d.config.Clock()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := d.config.Clock()
		if now < start || now-start >= target {
			return nil
		}
		if d.config.PollInterval > 0 {
			time.Sleep(d.config.PollInterval)
		}
	}
}

// PollIncoming performs one de-framer step and dispatches a complete packet:
// NMEA sentences to the NMEA listener, RTCM frames to the RTCM listener.
// De-framer errors are returned unchanged; the caller should Reset after one.
func (d *Device) PollIncoming() error {
	n, err := d.deframer.Poll(d.packet)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	pkt := d.packet[:n]
	switch ClassifyPacket(pkt) {
	case PacketNMEA:
		if d.nmeaListener != nil {
			d.nmeaListener(pkt)
		}
		return nil
	case PacketRTCM:
		if d.rtcmListener != nil {
			d.rtcmListener(RTCMFrame(pkt))
		} else {
			debugln(RTCMFrame(pkt).String())
		}
		return nil
	default:
		return fmt.Errorf("packet starting with 0x%02X: %w", pkt[0], ErrUnknownPacketType)
	}
}

// TransportFactory is a function type for creating transports
type TransportFactory func(path string) (Transport, error)

// TransportFromDeviceFactory is a function type for creating transports from detected devices
type TransportFromDeviceFactory func(device detection.DeviceInfo) (Transport, error)

// ConnectOption represents a functional option for ConnectDevice
type ConnectOption func(*connectConfig) error

// connectConfig holds configuration options for device connection
type connectConfig struct {
	transportFactory       TransportFactory
	transportDeviceFactory TransportFromDeviceFactory
	detectOptions          *detection.Options
	deviceOptions          []Option
	timeout                time.Duration
	autoDetect             bool
}

// WithAutoDetection enables automatic port detection instead of using a specific path
func WithAutoDetection(opts *detection.Options) ConnectOption {
	return func(c *connectConfig) error {
		c.autoDetect = true
		c.detectOptions = opts
		return nil
	}
}

// WithDeviceOptions adds device-level options
func WithDeviceOptions(opts ...Option) ConnectOption {
	return func(c *connectConfig) error {
		c.deviceOptions = append(c.deviceOptions, opts...)
		return nil
	}
}

// WithConnectTimeout bounds detection and initialization
func WithConnectTimeout(timeout time.Duration) ConnectOption {
	return func(c *connectConfig) error {
		c.timeout = timeout
		return nil
	}
}

// WithTransportFactory sets the transport factory function
func WithTransportFactory(factory TransportFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportFactory = factory
		return nil
	}
}

// WithTransportFromDeviceFactory sets the transport from device factory function
func WithTransportFromDeviceFactory(factory TransportFromDeviceFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportDeviceFactory = factory
		return nil
	}
}

// ConnectDevice opens a transport for path, or for the first detected port
// when path is empty, and returns an initialized driver.
//
// Example usage:
//
//	device, err := um980.ConnectDevice(ctx, "/dev/ttyUSB0", um980.WithTransportFactory(openUART))
func ConnectDevice(ctx context.Context, path string, opts ...ConnectOption) (*Device, error) {
	config := &connectConfig{timeout: 30 * time.Second}
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply connect option: %w", err)
		}
	}

	if config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.timeout)
		defer cancel()
	}

	t, err := createTransport(ctx, path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	device, err := New(t, config.deviceOptions...)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	if err := device.InitContext(ctx); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	return device, nil
}

func createTransport(ctx context.Context, path string, config *connectConfig) (Transport, error) {
	if !config.autoDetect && path != "" {
		if config.transportFactory == nil {
			return nil, errors.New("transport factory not provided")
		}
		t, err := config.transportFactory(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport for path %s: %w", path, err)
		}
		return t, nil
	}

	if config.transportDeviceFactory == nil {
		return nil, errors.New("transport device factory not provided")
	}
	opts := config.detectOptions
	if opts == nil {
		defaults := detection.DefaultOptions()
		opts = &defaults
	}
	devices, err := detection.Detect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}
	return config.transportDeviceFactory(devices[0])
}
