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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/polling"
)

var errNotConnected = errors.New("not connected")

// session owns the connected device. Commands pause the streamer while
// they run because the device must not be driven from two goroutines.
type session struct {
	out      io.Writer
	device   *um980.Device
	streamer *polling.Streamer
	mu       sync.Mutex
	watch    atomic.Bool
}

func newSession(out io.Writer) *session {
	return &session{out: out}
}

// attach takes ownership of an initialized device and starts streaming
func (s *session) attach(ctx context.Context, device *um980.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		return errors.New("already connected, disconnect first")
	}
	streamer, err := polling.NewStreamer(device, nil, polling.Callbacks{
		OnFix:     s.onFix,
		OnFixLost: func(um980.GGA) { s.printf("fix lost\n") },
		OnError:   func(err error) { s.printf("error: %v\n", err) },
	})
	if err != nil {
		return err
	}
	if err := streamer.Start(ctx); err != nil {
		return err
	}
	s.device = device
	s.streamer = streamer
	return nil
}

func (s *session) detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return errNotConnected
	}
	s.streamer.Stop()
	err := s.device.Close()
	s.device = nil
	s.streamer = nil
	return err
}

func (s *session) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device != nil
}

// exclusive pauses streaming, runs fn against the device and resumes
func (s *session) exclusive(ctx context.Context, fn func(*um980.Device) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return errNotConnected
	}
	s.streamer.Stop()
	err := fn(s.device)
	if startErr := s.streamer.Start(ctx); startErr != nil && err == nil {
		err = startErr
	}
	return err
}

func (s *session) send(ctx context.Context, cmd string) error {
	return s.exclusive(ctx, func(d *um980.Device) error {
		return d.SendCommandContext(ctx, cmd)
	})
}

func (s *session) setWatch(on bool) {
	s.watch.Store(on)
}

// onFix runs on the streamer goroutine and must not take mu, which is held
// while the streamer is stopped
func (s *session) onFix(fix *um980.GGA) {
	if s.watch.Load() {
		s.printf("%s\n", fix)
	}
}

// status describes the last fix and the stream counters
func (s *session) status() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return "", errNotConnected
	}
	state := s.streamer.State()
	m := s.streamer.GetMetrics()

	desc := fmt.Sprintf("State : %s\nPackets : %d (GGA %d, RTCM %d)\nErrors : %d\n",
		state.Status(), m.Packets, m.Fixes, m.RTCMFrames, m.PollErrors)
	if fix, at, ok := state.Last(); ok {
		desc += fmt.Sprintf("Last fix : %s\nReceived : %s\n", fix.String(), at.Format("15:04:05.000"))
	}
	return desc, nil
}

func (s *session) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
