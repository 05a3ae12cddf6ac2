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
	"fmt"
	"sync"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/fixlog"
	"github.com/ZaparooProject/go-um980/internal/config"
	"github.com/ZaparooProject/go-um980/publish"
	"github.com/sirupsen/logrus"
)

const sinkQueueSize = 32

type sinkItem struct {
	at    time.Time
	fix   *um980.GGA
	frame um980.RTCMFrame
}

// sinks hands fixes and frames to the slow outputs on their own goroutine
// so the poll loop never waits on the network or the disk
type sinks struct {
	log       *logrus.Logger
	publisher *publish.Publisher
	store     *fixlog.Store
	queue     chan sinkItem
	done      chan struct{}
	storePath string
	retention time.Duration
	relayRTCM bool
	dropped   int64
	mu        sync.Mutex
}

func openSinks(ctx context.Context, cfg config.Config, log *logrus.Logger) (*sinks, error) {
	s := &sinks{
		log:       log,
		queue:     make(chan sinkItem, sinkQueueSize),
		done:      make(chan struct{}),
		storePath: cfg.FixLog.Path,
		retention: cfg.FixLog.Retention,
		relayRTCM: cfg.MQTT.RelayRTCM,
	}

	if cfg.MQTT.Broker != "" {
		p, err := publish.Connect(&publish.Config{
			Broker:           cfg.MQTT.Broker,
			Topic:            cfg.MQTT.Topic,
			ClientID:         cfg.MQTT.ClientID,
			Timeout:          cfg.MQTT.Timeout,
			GeohashPrecision: cfg.MQTT.GeohashPrecision,
			QoS:              cfg.MQTT.QoS,
			Retain:           cfg.MQTT.Retain,
		})
		if err != nil {
			return nil, fmt.Errorf("mqtt: %w", err)
		}
		s.publisher = p
		log.WithFields(logrus.Fields{"broker": cfg.MQTT.Broker, "topic": p.FixTopic()}).Info("publishing fixes")
	}

	if cfg.FixLog.Path != "" {
		store, err := fixlog.Open(ctx, cfg.FixLog.Path)
		if err != nil {
			if s.publisher != nil {
				s.publisher.Close()
			}
			return nil, err
		}
		s.store = store
		log.WithField("path", cfg.FixLog.Path).Info("logging fixes")
	}

	go s.worker()
	return s, nil
}

func (s *sinks) fix(fix *um980.GGA) {
	if s.publisher == nil && s.store == nil {
		return
	}
	copied := *fix
	s.enqueue(sinkItem{at: time.Now(), fix: &copied})
}

func (s *sinks) rtcm(frame um980.RTCMFrame) {
	if s.publisher == nil || !s.relayRTCM {
		return
	}
	s.enqueue(sinkItem{at: time.Now(), frame: append(um980.RTCMFrame(nil), frame...)})
}

func (s *sinks) enqueue(item sinkItem) {
	select {
	case s.queue <- item:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
}

func (s *sinks) worker() {
	defer close(s.done)
	ctx := context.Background()
	lastPrune := time.Now()

	for item := range s.queue {
		if item.frame != nil {
			if err := s.publisher.PublishRTCM(item.frame); err != nil {
				s.log.WithError(err).Warn("publish RTCM")
			}
			continue
		}

		if s.publisher != nil {
			if err := s.publisher.PublishFix(item.fix, item.at); err != nil {
				s.log.WithError(err).Warn("publish fix")
			}
		}
		if s.store != nil {
			if _, err := s.store.Insert(ctx, item.fix, item.at); err != nil {
				s.log.WithError(err).Warn("log fix")
			}
			if s.retention > 0 && time.Since(lastPrune) > time.Minute {
				lastPrune = time.Now()
				if n, err := s.store.Prune(ctx, lastPrune.Add(-s.retention)); err != nil {
					s.log.WithError(err).Warn("prune fix log")
				} else if n > 0 {
					s.log.WithField("removed", n).Debug("pruned fix log")
				}
			}
		}
	}
}

// droppedCount returns how many items were discarded because the queue was full
func (s *sinks) droppedCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *sinks) close() {
	close(s.queue)
	<-s.done
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.WithError(err).Warn("close fix log")
		}
	}
}
