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

package polling

import (
	"sync"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
)

// FixStatus represents the finite state machine for position fixes
type FixStatus int

const (
	// StatusNoFix means no usable GGA has been received yet
	StatusNoFix FixStatus = iota
	// StatusFix means the last GGA is recent and has a valid quality
	StatusFix
	// StatusStale means the last fix is older than the configured age
	StatusStale
)

// String returns the status name
func (s FixStatus) String() string {
	switch s {
	case StatusFix:
		return "fix"
	case StatusStale:
		return "stale"
	default:
		return "no-fix"
	}
}

// FixState tracks the most recent fix. It is safe for concurrent use.
type FixState struct {
	receivedAt time.Time
	last       *um980.GGA
	status     FixStatus
	mu         sync.RWMutex
}

// Update records fix as received at at and returns the new status
func (fs *FixState) Update(fix *um980.GGA, at time.Time) FixStatus {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	copied := *fix
	fs.last = &copied
	fs.receivedAt = at
	if fix.HasFix() {
		fs.status = StatusFix
	} else {
		fs.status = StatusNoFix
	}
	return fs.status
}

// Expire moves a current fix older than maxAge to StatusStale. It reports
// true only for the call that made the transition.
func (fs *FixState) Expire(now time.Time, maxAge time.Duration) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.status != StatusFix || now.Sub(fs.receivedAt) <= maxAge {
		return false
	}
	fs.status = StatusStale
	return true
}

// Last returns a copy of the most recent fix and when it arrived
func (fs *FixState) Last() (fix um980.GGA, at time.Time, ok bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if fs.last == nil {
		return um980.GGA{}, time.Time{}, false
	}
	return *fs.last, fs.receivedAt, true
}

// Status returns the current state
func (fs *FixState) Status() FixStatus {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.status
}
