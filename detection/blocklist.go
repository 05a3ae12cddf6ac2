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

package detection

import (
	"path/filepath"
	"strings"
)

// knownBridges lists USB serial bridges found on UM980 boards, keyed by VID:PID
var knownBridges = map[string]string{
	"1A86:7523": "CH340",
	"1A86:55D4": "CH9102",
	"10C4:EA60": "CP210x",
	"0403:6001": "FT232R",
	"0403:6015": "FT231X",
	"067B:2303": "PL2303",
}

// DefaultBlocklist returns USB devices that must never be probed.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"1546:01A9", // u-blox receivers answer unknown commands with binary NAKs
		"2341:0043", // Arduino Uno resets when the port is opened
	}
}

// IsKnownBridge reports whether vidpid is a bridge used on UM980 boards
func IsKnownBridge(vidpid string) bool {
	_, ok := knownBridges[normalizeVIDPID(vidpid)]
	return ok
}

// BridgeName returns the chip name of a known bridge, or ""
func BridgeName(vidpid string) string {
	return knownBridges[normalizeVIDPID(vidpid)]
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = normalizeVIDPID(vidpid)
	for _, blocked := range blocklist {
		if vidpid == normalizeVIDPID(blocked) {
			return true
		}
	}
	return false
}

func normalizeVIDPID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// FormatVIDPID joins separate VID and PID strings, as reported by the OS,
// into the VID:PID form. It returns "" unless both are hexadecimal.
func FormatVIDPID(vid, pid string) string {
	vid, pid = strings.TrimSpace(vid), strings.TrimSpace(pid)
	if !isHex(vid) || !isHex(pid) {
		return ""
	}
	return strings.ToUpper(vid + ":" + pid)
}

// isHex checks if a string contains only hexadecimal characters.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// IsPathIgnored checks if a device path should be ignored.
// Supports exact path matching and normalized path comparison.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	normalizedDevice := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}
		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

// normalizedPath cleans a device path and lowercases it for Windows port names
func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
