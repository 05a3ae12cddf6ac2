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

// ByteSource is the receive side of a serial link. Readable reports how many
// bytes can be read right now and Read must not block.
type ByteSource interface {
	Readable() (int, error)
	Read(p []byte) (int, error)
}

// Transport defines the interface for the serial link to a UM980.
// This can be implemented by a serial port, a raw tty or a test double.
type Transport interface {
	ByteSource

	// Write sends bytes to the receiver and reports how many were accepted
	Write(p []byte) (int, error)

	// Close closes the transport connection
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a serial port opened through the OS serial API.
	TransportUART TransportType = "uart"
	// TransportTTY represents a raw tty file descriptor.
	TransportTTY TransportType = "tty"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// Namer is implemented by transports that know their port name
type Namer interface {
	Name() string
}

func portName(t any) string {
	if n, ok := t.(Namer); ok {
		return n.Name()
	}
	return ""
}
