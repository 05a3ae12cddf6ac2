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

// Package tty provides a UM980 transport over a raw Linux tty. The kernel's
// input queue is the receive buffer, so Readable is a single ioctl.
package tty

import (
	um980 "github.com/ZaparooProject/go-um980"
)

// DefaultBaud matches the UM980 factory configuration of COM1
const DefaultBaud = 115200

// Type returns the transport type
func (*Transport) Type() um980.TransportType {
	return um980.TransportTTY
}

// Name returns the device path
func (t *Transport) Name() string {
	return t.path
}
