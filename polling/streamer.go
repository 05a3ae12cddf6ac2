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
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
)

// Streamer errors
var (
	ErrStreamerRunning   = errors.New("streamer is already running")
	ErrTooManyPollErrors = errors.New("too many consecutive poll errors")
)

// Callbacks receive decoded receiver output. They run on the poll goroutine.
// Byte slices alias the driver's packet buffer and are only valid during the call.
type Callbacks struct {
	OnFix      func(fix *um980.GGA)
	OnFixLost  func(last um980.GGA)
	OnAck      func(ack *um980.Ack)
	OnSentence func(sentence []byte)
	OnRTCM     func(frame um980.RTCMFrame)
	OnError    func(err error)
}

// Metrics tracks operational metrics of a Streamer
type Metrics struct {
	PollCycles      int64         // Total number of ticks
	PollErrors      int64         // Ticks that ended with a de-framer or transport error
	Packets         int64         // Packets dispatched
	Fixes           int64         // GGA sentences decoded
	Sentences       int64         // Other NMEA sentences
	Acks            int64         // Command acknowledgements
	RTCMFrames      int64         // RTCM3 frames
	ParseErrors     int64         // Sentences that failed to decode
	Resets          int64         // De-framer resets after errors
	LastPollLatency time.Duration // Duration of the last tick
}

// Streamer runs the poll loop for a Device. While it runs, the Device must
// not be driven from other goroutines.
type Streamer struct {
	device    *um980.Device
	config    *Config
	callbacks Callbacks
	state     *FixState
	now       func() time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
	running   atomic.Bool

	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	packets         atomic.Int64
	fixes           atomic.Int64
	sentences       atomic.Int64
	acks            atomic.Int64
	rtcmFrames      atomic.Int64
	parseErrors     atomic.Int64
	resets          atomic.Int64
	lastPollLatency atomic.Int64
}

// NewStreamer creates a streamer and installs its listeners on device
func NewStreamer(device *um980.Device, config *Config, callbacks Callbacks) (*Streamer, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Streamer{
		device:    device,
		config:    config,
		callbacks: callbacks,
		state:     &FixState{},
		now:       time.Now,
	}
	device.SetNMEAListener(s.handleSentence)
	device.SetRTCMListener(s.handleRTCM)
	return s, nil
}

// State returns the fix state tracker
func (s *Streamer) State() *FixState {
	return s.state
}

// Start runs the poll loop in a goroutine until Stop or ctx is done
func (s *Streamer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrStreamerRunning
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running.Store(true)

	go func(done chan struct{}) {
		defer close(done)
		defer s.running.Store(false)
		if err := s.loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.reportError(err)
		}
	}(s.done)
	return nil
}

// Stop ends the poll loop and waits for it to exit
func (s *Streamer) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// IsRunning reports whether the poll loop is active
func (s *Streamer) IsRunning() bool {
	return s.running.Load()
}

// Run polls on the calling goroutine until ctx is done or too many
// consecutive errors occur
func (s *Streamer) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrStreamerRunning
	}
	defer s.running.Store(false)
	return s.loop(ctx)
}

func (s *Streamer) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	consecutive := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := s.Tick(); err != nil {
			consecutive++
			if s.config.MaxConsecutiveErrors > 0 && consecutive >= s.config.MaxConsecutiveErrors {
				return fmt.Errorf("%w: %w", ErrTooManyPollErrors, err)
			}
			continue
		}
		consecutive = 0
	}
}

// Tick dispatches up to BurstSize packets and then checks fix staleness.
// A poll error is reported, followed by a reset when configured.
func (s *Streamer) Tick() error {
	start := time.Now()
	defer func() {
		s.pollCycles.Add(1)
		s.lastPollLatency.Store(time.Since(start).Nanoseconds())
	}()

	var pollErr error
	for i := 0; i < s.config.BurstSize; i++ {
		before := s.packets.Load()
		if err := s.device.PollIncoming(); err != nil {
			pollErr = err
			break
		}
		if s.packets.Load() == before {
			break
		}
	}

	if pollErr != nil {
		s.pollErrors.Add(1)
		s.reportError(pollErr)
		if s.config.ResetOnError {
			s.device.Reset()
			s.resets.Add(1)
		}
	}

	if s.state.Expire(s.now(), s.config.StaleAfter) && s.callbacks.OnFixLost != nil {
		last, _, _ := s.state.Last()
		s.callbacks.OnFixLost(last)
	}
	return pollErr
}

func (s *Streamer) handleSentence(sentence []byte) {
	s.packets.Add(1)

	switch um980.ClassifySentence(sentence) {
	case um980.SentenceGGA:
		fix, err := um980.ParseGGA(sentence)
		if err != nil {
			s.parseErrors.Add(1)
			s.reportError(err)
			return
		}
		s.fixes.Add(1)
		s.state.Update(fix, s.now())
		if s.callbacks.OnFix != nil {
			s.callbacks.OnFix(fix)
		}
	case um980.SentenceCommandAck:
		ack, err := um980.ParseAck(sentence)
		if err != nil {
			s.parseErrors.Add(1)
			s.reportError(err)
			return
		}
		s.acks.Add(1)
		if s.callbacks.OnAck != nil {
			s.callbacks.OnAck(ack)
		}
	default:
		s.sentences.Add(1)
		if s.callbacks.OnSentence != nil {
			s.callbacks.OnSentence(sentence)
		}
	}
}

func (s *Streamer) handleRTCM(frame um980.RTCMFrame) {
	s.packets.Add(1)
	s.rtcmFrames.Add(1)
	if s.callbacks.OnRTCM != nil {
		s.callbacks.OnRTCM(frame)
	}
}

func (s *Streamer) reportError(err error) {
	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}
}

// GetMetrics returns current operational metrics
func (s *Streamer) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      s.pollCycles.Load(),
		PollErrors:      s.pollErrors.Load(),
		Packets:         s.packets.Load(),
		Fixes:           s.fixes.Load(),
		Sentences:       s.sentences.Load(),
		Acks:            s.acks.Load(),
		RTCMFrames:      s.rtcmFrames.Load(),
		ParseErrors:     s.parseErrors.Load(),
		Resets:          s.resets.Load(),
		LastPollLatency: time.Duration(s.lastPollLatency.Load()),
	}
}
