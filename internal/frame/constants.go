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

// Package frame provides framing primitives and protocol constants for the
// UM980 serial stream, which interleaves NMEA text lines and RTCM3 binary frames.
package frame

// Packet start markers
const (
	NMEAStart    = '$'  // First byte of every NMEA sentence
	RTCMPreamble = 0xD3 // First byte of every RTCM3 frame
)

// NMEA line terminator and field delimiter
const (
	CR             = '\r'
	LF             = '\n'
	FieldDelimiter = ','
)

// RTCM3 frame layout: 3 byte header, payload, 3 byte CRC-24Q.
const (
	RTCMHeaderLength = 3
	RTCMCRCLength    = 3
	// RTCMFixedSize is the framing overhead around the payload.
	RTCMFixedSize = RTCMHeaderLength + RTCMCRCLength
	// RTCMMaxPayload is the largest payload a 10-bit length field can declare.
	RTCMMaxPayload = 0x3FF
	// RTCMReservedMask covers the six reserved bits of the second header byte.
	RTCMReservedMask = 0xFC
	// RTCMTypeHeaderLength is the number of bytes needed to read the message type.
	RTCMTypeHeaderLength = 5
)
