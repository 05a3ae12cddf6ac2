//go:build linux

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

package tty

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	um980 "github.com/ZaparooProject/go-um980"
)

// writeRetries bounds how often Write waits for room in the output queue
const writeRetries = 50

// Transport is a non-blocking raw tty
type Transport struct {
	path   string
	fd     int
	closed atomic.Bool
}

// New opens path in raw 8N1 mode at baud and discards pending input
func New(path string, baud int) (*Transport, error) {
	speed, err := baudToUnix(baud)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, um980.NewTransportError("open", path, err, um980.ErrorTypePermanent)
	}

	ok := false
	defer func() {
		if !ok {
			_ = unix.Close(fd)
		}
	}()

	if err := configure(fd, speed); err != nil {
		return nil, um980.NewTransportError("configure", path, err, um980.ErrorTypePermanent)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return nil, um980.NewTransportError("flush", path, err, um980.ErrorTypePermanent)
	}

	ok = true
	return &Transport{path: path, fd: fd}, nil
}

func configure(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	// Reads never wait
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	t.Cflag &^= unix.CBAUD
	t.Cflag |= speed
	t.Ispeed = speed
	t.Ospeed = speed

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func baudToUnix(baud int) (uint32, error) {
	switch baud {
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 921600:
		return unix.B921600, nil
	default:
		return 0, fmt.Errorf("unsupported baud %d: %w", baud, um980.ErrInvalidParameter)
	}
}

// Readable returns the number of bytes in the kernel input queue
func (t *Transport) Readable() (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}
	n, err := unix.IoctlGetInt(t.fd, unix.TIOCINQ)
	if err != nil {
		return 0, um980.NewTransportError("readable", t.path, err, um980.ErrorTypePermanent)
	}
	return n, nil
}

// Read copies queued bytes into p without blocking
func (t *Transport) Read(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}
	n, err := unix.Read(t.fd, p)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if err != nil {
		return 0, um980.NewTransportError("read", t.path, err, um980.ErrorTypeTransient)
	}
	return n, nil
}

// Write queues p for transmission, waiting briefly while the output queue is full
func (t *Transport) Write(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, um980.ErrTransportClosed
	}

	written := 0
	for attempt := 0; written < len(p) && attempt < writeRetries; {
		n, err := unix.Write(t.fd, p[written:])
		if n > 0 {
			written += n
		}
		switch {
		case err == nil:
		case errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR):
			attempt++
			time.Sleep(time.Millisecond)
		default:
			return written, um980.NewTransportError("write", t.path, err, um980.ErrorTypeTransient)
		}
	}
	return written, nil
}

// Close closes the file descriptor
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	if err := unix.Close(t.fd); err != nil {
		return um980.NewTransportError("close", t.path, err, um980.ErrorTypePermanent)
	}
	return nil
}
