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
	testutil "github.com/ZaparooProject/go-um980/internal/testing"
)

// MockTransport is a Transport backed by a simulated receiver. Tests queue
// receiver output with Feed and inspect written commands with Commands.
type MockTransport struct {
	*testutil.VirtualReceiver
	name string
}

// NewMockTransport creates a mock transport that acknowledges every command
func NewMockTransport() *MockTransport {
	return &MockTransport{
		VirtualReceiver: testutil.NewVirtualReceiver(),
		name:            "mock",
	}
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Name returns the mock port name
func (m *MockTransport) Name() string {
	return m.name
}
