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

// Package uart registers a detector that enumerates serial ports through
// the operating system's serial API.
package uart

import (
	"context"
	"fmt"

	"go.bug.st/serial/enumerator"

	"github.com/ZaparooProject/go-um980/detection"
)

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

// detector implements the Detector interface for serial ports
type detector struct{}

// New creates a new serial port detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports with their USB descriptors
func (*detector) Detect(ctx context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, p := range ports {
		devices = append(devices, toDeviceInfo(p))
	}
	return devices, nil
}

func toDeviceInfo(p *enumerator.PortDetails) detection.DeviceInfo {
	info := detection.DeviceInfo{
		Transport: "uart",
		Path:      p.Name,
		Name:      p.Product,
		IsUSB:     p.IsUSB,
		Metadata:  map[string]string{},
	}
	if !p.IsUSB {
		return info
	}

	info.VIDPID = detection.FormatVIDPID(p.VID, p.PID)
	info.Product = p.Product
	info.SerialNumber = p.SerialNumber
	if bridge := detection.BridgeName(info.VIDPID); bridge != "" {
		info.Metadata["bridge"] = bridge
		if info.Name == "" {
			info.Name = bridge
		}
	}
	return info
}
