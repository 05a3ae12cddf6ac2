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

// Package uart provides a UM980 transport over a serial port.
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3/physic"

	um980 "github.com/ZaparooProject/go-um980"
)

// Defaults match the UM980 factory configuration of COM1
const (
	DefaultBaud        = 115200 * physic.Hertz
	DefaultReadTimeout = 50 * time.Millisecond
	DefaultMaxBuffered = 16 * 1024
)

// Config configures the serial port
type Config struct {
	// Baud is the line rate in symbols per second
	Baud physic.Frequency
	// ReadTimeout bounds each blocking read of the background reader
	ReadTimeout time.Duration
	// MaxBuffered caps bytes held for the driver; newer bytes are dropped
	// and counted as overruns once it is reached
	MaxBuffered int
}

// DefaultConfig returns the factory serial settings
func DefaultConfig() Config {
	return Config{
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
		MaxBuffered: DefaultMaxBuffered,
	}
}

// Option modifies a Config
type Option func(*Config)

// WithBaud sets the line rate
func WithBaud(baud physic.Frequency) Option {
	return func(c *Config) {
		c.Baud = baud
	}
}

// WithReadTimeout sets the background read timeout
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = timeout
	}
}

// WithMaxBuffered sets the receive backlog limit
func WithMaxBuffered(n int) Option {
	return func(c *Config) {
		c.MaxBuffered = n
	}
}

// port is the subset of serial.Port the transport uses
type port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
}

// Transport is a serial link to a UM980. A background goroutine drains the
// port into a buffer so that Readable can report a byte count without blocking.
type Transport struct {
	port     port
	readErr  error
	portName string
	buf      []byte
	wg       sync.WaitGroup
	maxBuf   int
	overruns atomic.Int64
	mu       sync.Mutex
	closed   atomic.Bool
}

// New opens portName at the configured rate, 8N1
func New(portName string, opts ...Option) (*Transport, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	baud := int(config.Baud / physic.Hertz)
	if baud <= 0 {
		return nil, fmt.Errorf("baud %v: %w", config.Baud, um980.ErrInvalidParameter)
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, um980.NewTransportError("open", portName, err, um980.ErrorTypePermanent)
	}
	if err := p.SetReadTimeout(config.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, um980.NewTransportError("configure", portName, err, um980.ErrorTypePermanent)
	}
	if err := p.ResetInputBuffer(); err != nil {
		_ = p.Close()
		return nil, um980.NewTransportError("flush", portName, err, um980.ErrorTypePermanent)
	}

	return newTransport(portName, p, config.MaxBuffered), nil
}

func newTransport(portName string, p port, maxBuffered int) *Transport {
	if maxBuffered <= 0 {
		maxBuffered = DefaultMaxBuffered
	}
	t := &Transport{
		port:     p,
		portName: portName,
		maxBuf:   maxBuffered,
	}
	t.wg.Add(1)
	go t.readLoop()
	return t
}

func (t *Transport) readLoop() {
	defer t.wg.Done()

	chunk := make([]byte, 512)
	for {
		n, err := t.port.Read(chunk)
		if n > 0 {
			t.store(chunk[:n])
		}
		if err != nil {
			if !t.closed.Load() {
				t.mu.Lock()
				t.readErr = err
				t.mu.Unlock()
			}
			return
		}
		if t.closed.Load() {
			return
		}
	}
}

func (t *Transport) store(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	room := t.maxBuf - len(t.buf)
	if room < len(data) {
		t.overruns.Add(int64(len(data) - room))
		data = data[:room]
	}
	t.buf = append(t.buf, data...)
}

// Readable returns the number of buffered bytes
func (t *Transport) Readable() (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == 0 && t.readErr != nil {
		return 0, um980.NewTransportError("read", t.portName, t.readErr, um980.ErrorTypePermanent)
	}
	return len(t.buf), nil
}

// Read copies buffered bytes into p without blocking
func (t *Transport) Read(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == 0 && t.readErr != nil {
		return 0, um980.NewTransportError("read", t.portName, t.readErr, um980.ErrorTypePermanent)
	}
	n := copy(p, t.buf)
	t.buf = t.buf[:copy(t.buf, t.buf[n:])]
	return n, nil
}

// Write sends p to the receiver
func (t *Transport) Write(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}
	n, err := t.port.Write(p)
	if err != nil {
		return n, um980.NewTransportError("write", t.portName, err, um980.ErrorTypeTransient)
	}
	return n, nil
}

// Close stops the background reader and closes the port
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	err := t.port.Close()
	t.wg.Wait()
	if err != nil && !errors.Is(err, io.EOF) {
		return um980.NewTransportError("close", t.portName, err, um980.ErrorTypePermanent)
	}
	return nil
}

// Overruns returns how many received bytes were dropped for lack of room
func (t *Transport) Overruns() int64 {
	return t.overruns.Load()
}

// Name returns the port name
func (t *Transport) Name() string {
	return t.portName
}

// Type returns the transport type
func (*Transport) Type() um980.TransportType {
	return um980.TransportUART
}
