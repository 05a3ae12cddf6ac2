//go:build !linux

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

package tty

import (
	"errors"
	"fmt"
	"runtime"

	um980 "github.com/ZaparooProject/go-um980"
)

// ErrUnsupportedPlatform is returned by New outside Linux
var ErrUnsupportedPlatform = errors.New("raw tty transport is only available on linux")

// Transport is unavailable on this platform
type Transport struct {
	path string
}

// New always fails on this platform; use the uart transport instead
func New(path string, _ int) (*Transport, error) {
	return nil, fmt.Errorf("%s on %s: %w", path, runtime.GOOS, ErrUnsupportedPlatform)
}

// Readable always fails
func (*Transport) Readable() (int, error) { return 0, ErrUnsupportedPlatform }

// Read always fails
func (*Transport) Read([]byte) (int, error) { return 0, ErrUnsupportedPlatform }

// Write always fails
func (*Transport) Write([]byte) (int, error) { return 0, ErrUnsupportedPlatform }

// Close does nothing
func (*Transport) Close() error { return nil }

var _ um980.Transport = (*Transport)(nil)
