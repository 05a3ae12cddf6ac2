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

package testing

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-um980/internal/frame"
	"github.com/adrianmo/go-nmea"
)

// Sample sentences captured from a UM980 in RTK fixed mode
const (
	SampleGGA = "$GNGGA,122917.00,4845.77916055,N,00758.32526162,E,7,17,0.8,130.1941,M,48.3746,M,,*7D\r\n"
	SampleRMC = "$GNRMC,122917.00,A,4845.77916055,N,00758.32526162,E,0.011,,181026,,,D,V*1F\r\n"
	// SampleNoFixGGA is what the receiver emits before the first fix
	SampleNoFixGGA = "$GNGGA,,,,,,0,00,9999.0,,,,,,*66\r\n"
)

// BuildSentence joins fields into a checksummed, CRLF terminated NMEA line.
// The first field is the talker and sentence id without the '$'.
func BuildSentence(fields ...string) string {
	body := strings.Join(fields, ",")
	return fmt.Sprintf("$%s*%s\r\n", body, nmea.Checksum(body))
}

// BuildAckResponse creates the receiver's acknowledgement for cmd
func BuildAckResponse(cmd string, ok bool) string {
	status := "response: OK"
	if !ok {
		status = "response: PARSING FAILD NO MATCHING FUNC " + strings.ToUpper(cmd)
	}
	return BuildSentence("command", cmd, status)
}

// GGAFields describes the variable parts of a GGA sentence
type GGAFields struct {
	Talker     string
	Time       string
	Lat        string
	LatDir     string
	Lon        string
	LonDir     string
	Quality    string
	Satellites string
	HDOP       string
	Altitude   string
	Undulation string
}

// BuildGGA creates a GGA sentence, defaulting the talker to GN
func BuildGGA(f GGAFields) string {
	talker := f.Talker
	if talker == "" {
		talker = "GN"
	}
	return BuildSentence(talker+"GGA", f.Time, f.Lat, f.LatDir, f.Lon, f.LonDir, f.Quality,
		f.Satellites, f.HDOP, f.Altitude, "M", f.Undulation, "M", "", "")
}

// BuildRTCMFrame creates a valid RTCM3 frame whose payload starts with the
// 12-bit message type followed by body.
func BuildRTCMFrame(messageType uint16, body []byte) []byte {
	payload := make([]byte, 0, 2+len(body))
	payload = append(payload, byte(messageType>>4), byte(messageType<<4))
	payload = append(payload, body...)
	return frame.AppendRTCM(nil, payload)
}
