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

// Package polling drives a UM980 Device continuously: it polls for incoming
// packets on a ticker, decodes fixes, tracks fix state and recovers from
// de-framer errors.
package polling

import (
	"errors"
	"time"
)

// Config holds configuration options for the Streamer
type Config struct {
	// PollInterval is the period of the poll loop
	PollInterval time.Duration
	// StaleAfter is how long a fix stays current without a new GGA
	StaleAfter time.Duration
	// BurstSize bounds how many packets are dispatched per tick
	BurstSize int
	// MaxConsecutiveErrors stops Run after that many failing ticks in a row.
	// Zero never stops.
	MaxConsecutiveErrors int
	// ResetOnError discards buffered input after a poll error
	ResetOnError bool
}

// DefaultConfig polls every 10 ms and resets after errors
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 10 * time.Millisecond,
		StaleAfter:   5 * time.Second,
		BurstSize:    8,
		ResetOnError: true,
	}
}

// Config errors
var (
	ErrInvalidPollInterval = errors.New("poll interval must be positive")
	ErrInvalidBurstSize    = errors.New("burst size must be positive")
)

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.BurstSize <= 0 {
		return ErrInvalidBurstSize
	}
	return nil
}
