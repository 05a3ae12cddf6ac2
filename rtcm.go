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

// RTCMFrame is a view over a complete RTCM3 frame: preamble, 10-bit length,
// payload and CRC-24Q.
type RTCMFrame []byte

// PayloadLength returns the declared payload length
func (f RTCMFrame) PayloadLength() uint16 {
	if len(f) < frame.RTCMHeaderLength {
		return 0
	}
	return frame.PayloadLength(f)
}

// MessageType returns the 12-bit message number, or 0 for a frame too short to hold one
func (f RTCMFrame) MessageType() uint16 {
	if len(f) < frame.RTCMTypeHeaderLength {
		return 0
	}
	return frame.MessageType(f)
}

// Payload returns the bytes between header and CRC
func (f RTCMFrame) Payload() []byte {
	if !f.complete() {
		return nil
	}
	return f[frame.RTCMHeaderLength : frame.RTCMHeaderLength+int(f.PayloadLength())]
}

// CRC returns the transmitted checksum
func (f RTCMFrame) CRC() uint32 {
	if !f.complete() {
		return 0
	}
	return frame.FrameCRC(f[:frame.FrameSize(f)])
}

// Valid reports whether the frame is complete and its checksum matches
func (f RTCMFrame) Valid() bool {
	if len(f) == 0 || f[0] != frame.RTCMPreamble {
		return false
	}
	status, _ := frame.CheckRTCM(f, 0)
	return status == frame.RTCMValid
}

// Verify returns ErrChecksumMismatch for an invalid frame
func (f RTCMFrame) Verify() error {
	if !f.Valid() {
		return fmt.Errorf("rtcm frame of %d bytes: %w", len(f), ErrChecksumMismatch)
	}
	return nil
}

// String formats the frame the way the diagnostic printer shows it
func (f RTCMFrame) String() string {
	return fmt.Sprintf("Type : %d Data len : %d", f.MessageType(), f.PayloadLength())
}

func (f RTCMFrame) complete() bool {
	return len(f) >= frame.RTCMFixedSize && len(f) >= frame.FrameSize(f)
}

// CRC24Q computes the RTCM3 checksum of data
func CRC24Q(data []byte) uint32 {
	return frame.CRC24Q(data)
}
