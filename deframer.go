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

	"github.com/ZaparooProject/go-um980/internal/frame"
)

// DefaultBufferSize is the receive buffer capacity of a Deframer
const DefaultBufferSize = 1024

// Deframer reassembles NMEA sentences and RTCM3 frames from a byte stream.
// It is not safe for concurrent use.
type Deframer struct {
	src  ByteSource
	buf  []byte
	fill int
}

// NewDeframer creates a de-framer reading from src. A non-positive capacity
// selects DefaultBufferSize.
func NewDeframer(src ByteSource, capacity int) *Deframer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Deframer{
		src: src,
		buf: make([]byte, capacity),
	}
}

// Poll performs one non-blocking de-framing step. When a complete packet is
// found it is copied to dst, followed by a zero byte, and its length is
// returned. A return of 0 with a nil error means no packet is ready yet.
//
// ErrBufferFull means bytes are waiting but the buffer has no room; the
// caller should Reset. ErrBufferTooSmall leaves the buffer untouched so the
// call can be retried with a larger dst.
func (d *Deframer) Poll(dst []byte) (int, error) {
	if err := d.fillBuffer(); err != nil {
		return 0, err
	}

	data := d.buf[:d.fill]
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case frame.NMEAStart:
			end := frame.FindLineEnd(data[i:])
			if end < 0 {
				return 0, nil
			}
			return d.emit(dst, i, end)

		case frame.RTCMPreamble:
			status, size := frame.CheckRTCM(data[i:], len(d.buf))
			switch status {
			case frame.RTCMIncomplete:
				return 0, nil
			case frame.RTCMValid:
				return d.emit(dst, i, size)
			case frame.RTCMInvalid:
				debugf("discarding false RTCM preamble at offset %d", i)
			}
		}
	}
	return 0, nil
}

// fillBuffer moves as many available bytes as fit into the buffer
func (d *Deframer) fillBuffer() error {
	available, err := d.src.Readable()
	if err != nil {
		return NewTransportError("readable", portName(d.src), fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
	}
	if available <= 0 {
		return nil
	}

	free := len(d.buf) - d.fill
	if free == 0 {
		return ErrBufferFull
	}
	if available > free {
		available = free
	}

	n, err := d.src.Read(d.buf[d.fill : d.fill+available])
	if err != nil {
		return NewTransportError("read", portName(d.src), fmt.Errorf("%w: %w", ErrTransportRead, err), ErrorTypeTransient)
	}
	if n > available {
		n = available
	}
	d.fill += n
	return nil
}

// emit copies the packet at buf[start:start+length] out and drops it, along
// with everything before it, from the buffer
func (d *Deframer) emit(dst []byte, start, length int) (int, error) {
	if len(dst) < length+1 {
		return 0, fmt.Errorf("packet of %d bytes needs %d, have %d: %w", length, length+1, len(dst), ErrBufferTooSmall)
	}

	copy(dst, d.buf[start:start+length])
	dst[length] = 0

	consumed := start + length
	copy(d.buf, d.buf[consumed:d.fill])
	d.fill -= consumed
	return length, nil
}

// Reset discards all buffered bytes
func (d *Deframer) Reset() {
	d.fill = 0
}

// Buffered returns the number of bytes waiting in the buffer
func (d *Deframer) Buffered() int {
	return d.fill
}

// Capacity returns the size of the receive buffer
func (d *Deframer) Capacity() int {
	return len(d.buf)
}
