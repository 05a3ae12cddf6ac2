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
	"bytes"

	"github.com/ZaparooProject/go-um980/internal/frame"
)

// PacketKind tells NMEA sentences apart from RTCM3 frames
type PacketKind int

const (
	PacketUnknown PacketKind = iota
	PacketNMEA
	PacketRTCM
)

// String returns the packet kind name
func (k PacketKind) String() string {
	switch k {
	case PacketNMEA:
		return "nmea"
	case PacketRTCM:
		return "rtcm"
	default:
		return "unknown"
	}
}

// ClassifyPacket inspects the first byte of a de-framed packet
func ClassifyPacket(pkt []byte) PacketKind {
	if len(pkt) == 0 {
		return PacketUnknown
	}
	switch pkt[0] {
	case frame.NMEAStart:
		return PacketNMEA
	case frame.RTCMPreamble:
		return PacketRTCM
	default:
		return PacketUnknown
	}
}

// SentenceType identifies the NMEA sentences the driver understands
type SentenceType int

const (
	SentenceUnknown SentenceType = iota
	SentenceGGA
	SentenceCommandAck
)

// String returns the sentence type name
func (s SentenceType) String() string {
	switch s {
	case SentenceGGA:
		return "GGA"
	case SentenceCommandAck:
		return "command-ack"
	default:
		return "unknown"
	}
}

var (
	ggaPrefixes = [][]byte{
		[]byte("$GNGGA"),
		[]byte("$GPGGA"),
		[]byte("$GBGGA"),
		[]byte("$GLGGA"),
		[]byte("$GAGGA"),
		[]byte("$GQGGA"),
	}
	commandAckPrefix = []byte("$command")
)

// ClassifySentence determines the sentence type from its prefix. The line
// must be strictly longer than the prefix it matches.
func ClassifySentence(line []byte) SentenceType {
	for _, prefix := range ggaPrefixes {
		if len(line) > len(prefix) && bytes.HasPrefix(line, prefix) {
			return SentenceGGA
		}
	}
	if len(line) > len(commandAckPrefix) && bytes.HasPrefix(line, commandAckPrefix) {
		return SentenceCommandAck
	}
	return SentenceUnknown
}
