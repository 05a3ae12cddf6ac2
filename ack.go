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
	"fmt"

	"github.com/ZaparooProject/go-um980/internal/frame"
)

// MaxCommandLength is the longest command name an acknowledgement can carry
const MaxCommandLength = 31

const (
	ackFieldCount   = 3
	ackFieldCommand = 1
	ackFieldStatus  = 2
)

var ackOK = []byte("response: OK")

// AckStatus is the receiver's verdict on a command
type AckStatus int

const (
	AckStatusError AckStatus = iota
	AckStatusOK
)

// String returns the status name
func (s AckStatus) String() string {
	if s == AckStatusOK {
		return "OK"
	}
	return "error"
}

// Ack is a decoded "$command,<name>,response: ..." sentence
type Ack struct {
	Command string
	Status  AckStatus
}

// ParseAck decodes a command acknowledgement. Command names longer than
// MaxCommandLength are truncated.
func ParseAck(line []byte) (*Ack, error) {
	if n := frame.SegmentCount(line, frame.FieldDelimiter); n != ackFieldCount {
		return nil, fmt.Errorf("command ack has %d fields, want %d: %w", n, ackFieldCount, ErrMalformedSegmentCount)
	}

	name, _ := frame.Segment(line, frame.FieldDelimiter, ackFieldCommand)
	if len(name) > MaxCommandLength {
		name = name[:MaxCommandLength]
	}
	status, _ := frame.Segment(line, frame.FieldDelimiter, ackFieldStatus)

	ack := &Ack{Command: string(name), Status: AckStatusError}
	if bytes.HasPrefix(status, ackOK) {
		ack.Status = AckStatusOK
	}
	return ack, nil
}

// CheckCommand reports whether ack confirms successful execution of expected
func CheckCommand(expected string, ack *Ack) bool {
	if ack == nil || expected == "" || len(expected) > MaxCommandLength {
		return false
	}
	return ack.Command == expected && ack.Status == AckStatusOK
}
