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

package frame

// RTCMStatus is the outcome of inspecting a candidate RTCM3 frame.
type RTCMStatus int

const (
	// RTCMIncomplete means more bytes are needed before a decision can be made.
	RTCMIncomplete RTCMStatus = iota
	// RTCMInvalid means the candidate can never become a valid frame.
	RTCMInvalid
	// RTCMValid means a complete frame with a matching CRC is present.
	RTCMValid
)

// String returns the status name
func (s RTCMStatus) String() string {
	switch s {
	case RTCMIncomplete:
		return "incomplete"
	case RTCMInvalid:
		return "invalid"
	case RTCMValid:
		return "valid"
	default:
		return "unknown"
	}
}

// PayloadLength decodes the 10-bit payload length from a frame header.
// The caller must supply at least RTCMHeaderLength bytes.
func PayloadLength(header []byte) uint16 {
	return uint16(header[1]&0x03)<<8 | uint16(header[2])
}

// MessageType decodes the 12-bit message number that opens the payload.
// The caller must supply at least RTCMTypeHeaderLength bytes.
func MessageType(header []byte) uint16 {
	return uint16(header[3])<<4 | uint16(header[4]&0xF0)>>4
}

// FrameSize returns the total size of the frame whose header starts buf.
func FrameSize(header []byte) int {
	return int(PayloadLength(header)) + RTCMFixedSize
}

// FrameCRC reads the transmitted CRC of a complete frame.
func FrameCRC(frame []byte) uint32 {
	n := len(frame)
	return uint32(frame[n-3])<<16 | uint32(frame[n-2])<<8 | uint32(frame[n-1])
}

// CheckRTCM inspects buf, which must start with the RTCM preamble. capacity
// bounds the largest frame the caller can ever hold; frames declaring a larger
// size are reported invalid. A capacity of zero disables that bound.
func CheckRTCM(buf []byte, capacity int) (RTCMStatus, int) {
	if len(buf) < RTCMFixedSize {
		return RTCMIncomplete, 0
	}
	if buf[1]&RTCMReservedMask != 0 {
		return RTCMInvalid, 0
	}

	size := FrameSize(buf)
	if capacity > 0 && size > capacity {
		return RTCMInvalid, 0
	}
	if len(buf) < size {
		return RTCMIncomplete, 0
	}

	body := size - RTCMCRCLength
	if CRC24Q(buf[:body]) != FrameCRC(buf[:size]) {
		return RTCMInvalid, 0
	}
	return RTCMValid, size
}

// AppendRTCM wraps payload in an RTCM3 frame and appends it to dst.
// Payloads longer than RTCMMaxPayload are truncated.
func AppendRTCM(dst, payload []byte) []byte {
	if len(payload) > RTCMMaxPayload {
		payload = payload[:RTCMMaxPayload]
	}
	start := len(dst)
	dst = append(dst, RTCMPreamble, byte(len(payload)>>8)&0x03, byte(len(payload)))
	dst = append(dst, payload...)
	crc := CRC24Q(dst[start:])
	return append(dst, byte(crc>>16), byte(crc>>8), byte(crc))
}

// FindLineEnd returns the index just past the first CRLF in buf, or -1.
func FindLineEnd(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == CR && buf[i+1] == LF {
			return i + 2
		}
	}
	return -1
}
