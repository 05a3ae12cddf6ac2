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

// Package detection finds serial ports that may have a UM980 attached.
// Detectors for each transport register themselves on import.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Detection errors
var (
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrNoDevicesFound      = errors.New("no devices found")
)

// Mode controls how intrusive detection is
type Mode int

const (
	// Passive only enumerates ports, nothing is opened
	Passive Mode = iota
	// Safe probes only ports behind a known USB serial bridge
	Safe
	// Full probes every port that is not blocked or ignored
	Full
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Safe:
		return "safe"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DeviceInfo describes a candidate port
type DeviceInfo struct {
	Metadata     map[string]string
	Transport    string
	Path         string
	Name         string
	VIDPID       string
	Product      string
	SerialNumber string
	IsUSB        bool
}

// String returns a one line description
func (d DeviceInfo) String() string {
	if d.VIDPID == "" {
		return fmt.Sprintf("%s:%s", d.Transport, d.Path)
	}
	return fmt.Sprintf("%s:%s (%s %s)", d.Transport, d.Path, d.VIDPID, d.Name)
}

// ProbeFunc confirms that a receiver answers on a port
type ProbeFunc func(ctx context.Context, device DeviceInfo) error

// Options configures detection
type Options struct {
	Probe       ProbeFunc
	Blocklist   []string
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
	USBOnly     bool
}

// DefaultOptions returns options for a passive scan of USB ports
func DefaultOptions() Options {
	return Options{
		Mode:      Passive,
		Timeout:   5 * time.Second,
		Blocklist: DefaultBlocklist(),
		USBOnly:   true,
	}
}

// Detector finds candidate ports for one transport
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes a detector available to Detect
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors ordered by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()

	detectors := make([]Detector, 0, len(registry))
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Transport() < detectors[j].Transport()
	})
	return detectors
}

// Detect runs every registered detector, filters the result through the
// blocklist and ignore list and, unless the mode is Passive, keeps only
// ports that pass the probe
func Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var found []DeviceInfo
	var errs []error
	for _, d := range Detectors() {
		devices, err := d.Detect(ctx, opts)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedPlatform) {
				errs = append(errs, fmt.Errorf("%s: %w", d.Transport(), err))
			}
			continue
		}
		found = append(found, Filter(devices, opts)...)
	}

	if len(found) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return probeAll(ctx, found, opts), nil
}

// Filter drops blocked, ignored and, with USBOnly, non-USB ports
func Filter(devices []DeviceInfo, opts *Options) []DeviceInfo {
	kept := devices[:0:0]
	for _, d := range devices {
		if opts.USBOnly && !d.IsUSB {
			continue
		}
		if d.VIDPID != "" && IsBlocked(d.VIDPID, opts.Blocklist) {
			continue
		}
		if IsPathIgnored(d.Path, opts.IgnorePaths) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func probeAll(ctx context.Context, devices []DeviceInfo, opts *Options) []DeviceInfo {
	if opts.Mode == Passive || opts.Probe == nil {
		return devices
	}

	var confirmed []DeviceInfo
	for _, d := range devices {
		if opts.Mode == Safe && !IsKnownBridge(d.VIDPID) {
			continue
		}
		if err := opts.Probe(ctx, d); err != nil {
			continue
		}
		confirmed = append(confirmed, d)
	}
	return confirmed
}
