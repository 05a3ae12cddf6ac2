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

package testing

import (
	"errors"
	"sync"

	"github.com/ZaparooProject/go-um980/internal/frame"
)

// ErrReceiverClosed is returned after Close
var ErrReceiverClosed = errors.New("virtual receiver closed")

// VirtualReceiver simulates the UART side of a UM980. Bytes queued with
// Feed are handed to the host on Read, and every CRLF terminated command the
// host writes is recorded and, unless silenced, acknowledged.
type VirtualReceiver struct {
	readErr      error
	writeErr     error
	readableErr  error
	rejected     map[string]bool
	silent       map[string]int
	pending      []byte
	partial      []byte
	commands     []string
	chunkSize    int
	shortWriteBy int
	mu           sync.Mutex
	closed       bool
}

// NewVirtualReceiver creates a receiver with nothing queued
func NewVirtualReceiver() *VirtualReceiver {
	return &VirtualReceiver{
		rejected: make(map[string]bool),
		silent:   make(map[string]int),
	}
}

// Feed queues bytes for the host to read
func (v *VirtualReceiver) Feed(data ...[]byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, d := range data {
		v.pending = append(v.pending, d...)
	}
}

// FeedString queues text for the host to read
func (v *VirtualReceiver) FeedString(s ...string) {
	for _, part := range s {
		v.Feed([]byte(part))
	}
}

// Reject makes the receiver answer cmd with a failure status
func (v *VirtualReceiver) Reject(cmd string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejected[cmd] = true
}

// Ignore makes the receiver stay silent for the next n writes of cmd.
// A negative n silences cmd forever.
func (v *VirtualReceiver) Ignore(cmd string, n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.silent[cmd] = n
}

// SetChunkSize limits how many bytes a single Read and Readable report
func (v *VirtualReceiver) SetChunkSize(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chunkSize = n
}

// SetReadError makes every Read fail with err
func (v *VirtualReceiver) SetReadError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.readErr = err
}

// SetReadableError makes every Readable fail with err
func (v *VirtualReceiver) SetReadableError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.readableErr = err
}

// SetWriteError makes every Write fail with err
func (v *VirtualReceiver) SetWriteError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeErr = err
}

// SetShortWrite makes Write report n fewer bytes than it was given
func (v *VirtualReceiver) SetShortWrite(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shortWriteBy = n
}

// Commands returns every command line written so far, without CRLF
func (v *VirtualReceiver) Commands() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.commands...)
}

// Pending returns the number of queued bytes not yet read
func (v *VirtualReceiver) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Readable reports how many bytes a Read can return right now
func (v *VirtualReceiver) Readable() (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrReceiverClosed
	}
	if v.readableErr != nil {
		return 0, v.readableErr
	}
	return v.available(), nil
}

// Read hands queued bytes to the host without blocking
func (v *VirtualReceiver) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrReceiverClosed
	}
	if v.readErr != nil {
		return 0, v.readErr
	}
	n := v.available()
	if n > len(p) {
		n = len(p)
	}
	copy(p, v.pending[:n])
	v.pending = v.pending[n:]
	return n, nil
}

// Write records command lines and queues their acknowledgements
func (v *VirtualReceiver) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrReceiverClosed
	}
	if v.writeErr != nil {
		return 0, v.writeErr
	}

	v.partial = append(v.partial, p...)
	for {
		end := frame.FindLineEnd(v.partial)
		if end < 0 {
			break
		}
		cmd := string(v.partial[:end-2])
		v.partial = v.partial[end:]
		v.commands = append(v.commands, cmd)
		v.respond(cmd)
	}

	n := len(p) - v.shortWriteBy
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Close makes further calls fail
func (v *VirtualReceiver) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

func (v *VirtualReceiver) respond(cmd string) {
	if n, ok := v.silent[cmd]; ok && n != 0 {
		if n > 0 {
			v.silent[cmd] = n - 1
		}
		return
	}
	v.pending = append(v.pending, BuildAckResponse(cmd, !v.rejected[cmd])...)
}

func (v *VirtualReceiver) available() int {
	n := len(v.pending)
	if v.chunkSize > 0 && n > v.chunkSize {
		n = v.chunkSize
	}
	return n
}
