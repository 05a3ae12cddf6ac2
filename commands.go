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
)

// Receiver commands
const (
	CommandUnlog     = "unlog"
	CommandModeBase  = "mode base time 60"
	CommandModeRover = "mode rover"
)

// Frequency is a GGA output rate
type Frequency int

const (
	Frequency1Hz  Frequency = 1
	Frequency2Hz  Frequency = 2
	Frequency5Hz  Frequency = 5
	Frequency10Hz Frequency = 10
)

// String returns the rate in Hz
func (f Frequency) String() string {
	return fmt.Sprintf("%dHz", int(f))
}

// period returns the output interval in seconds as the receiver expects it
func (f Frequency) period() (string, error) {
	switch f {
	case Frequency1Hz:
		return "1", nil
	case Frequency2Hz:
		return "0.5", nil
	case Frequency5Hz:
		return "0.2", nil
	case Frequency10Hz:
		return "0.1", nil
	default:
		return "", fmt.Errorf("GGA rate %d Hz: %w", int(f), ErrInvalidParameter)
	}
}

// ParseFrequency converts a rate in Hz to a Frequency
func ParseFrequency(hz int) (Frequency, error) {
	f := Frequency(hz)
	if _, err := f.period(); err != nil {
		return 0, err
	}
	return f, nil
}

// GGACommand builds the command that starts GGA output at f
func GGACommand(f Frequency) (string, error) {
	period, err := f.period()
	if err != nil {
		return "", err
	}
	return "gpgga " + period, nil
}

// CorrectionCommand builds the command that starts output of RTCM message
// number msg every period seconds
func CorrectionCommand(msg, period uint16) string {
	return fmt.Sprintf("RTCM%d %d", msg, period)
}
