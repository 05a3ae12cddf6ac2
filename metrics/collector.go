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

// Package metrics exports Streamer counters and fix state as Prometheus
// metrics.
package metrics

import (
	"github.com/ZaparooProject/go-um980/polling"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name
const Namespace = "um980"

// Source is what the collector reads on each scrape. *polling.Streamer
// satisfies it.
type Source interface {
	GetMetrics() polling.Metrics
	State() *polling.FixState
}

// Collector is a prometheus.Collector reading a Source at scrape time
type Collector struct {
	source      Source
	pollCycles  *prometheus.Desc
	pollErrors  *prometheus.Desc
	packets     *prometheus.Desc
	parseErrors *prometheus.Desc
	resets      *prometheus.Desc
	latency     *prometheus.Desc
	fixStatus   *prometheus.Desc
	quality     *prometheus.Desc
	satellites  *prometheus.Desc
	hdop        *prometheus.Desc
}

// NewCollector creates a collector for source. port is attached to every
// metric as a constant label.
func NewCollector(source Source, port string) *Collector {
	labels := prometheus.Labels{"port": port}
	desc := func(name, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "", name), help, variable, labels)
	}
	return &Collector{
		source:      source,
		pollCycles:  desc("poll_cycles_total", "Poll loop iterations."),
		pollErrors:  desc("poll_errors_total", "Poll iterations that ended with a de-framer or transport error."),
		packets:     desc("packets_total", "Packets received by kind.", "kind"),
		parseErrors: desc("parse_errors_total", "Sentences that failed to decode."),
		resets:      desc("resets_total", "Receive buffer resets after errors."),
		latency:     desc("last_poll_duration_seconds", "Duration of the last poll iteration."),
		fixStatus:   desc("fix_status", "0 no fix, 1 fix, 2 stale."),
		quality:     desc("fix_quality", "GGA quality indicator of the last fix."),
		satellites:  desc("satellites", "Satellites used in the last fix."),
		hdop:        desc("hdop", "Horizontal dilution of precision of the last fix."),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pollCycles
	ch <- c.pollErrors
	ch <- c.packets
	ch <- c.parseErrors
	ch <- c.resets
	ch <- c.latency
	ch <- c.fixStatus
	ch <- c.quality
	ch <- c.satellites
	ch <- c.hdop
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.source.GetMetrics()

	counter := func(d *prometheus.Desc, v int64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.pollCycles, m.PollCycles)
	counter(c.pollErrors, m.PollErrors)
	counter(c.packets, m.Fixes, "gga")
	counter(c.packets, m.Acks, "ack")
	counter(c.packets, m.Sentences, "nmea")
	counter(c.packets, m.RTCMFrames, "rtcm")
	counter(c.parseErrors, m.ParseErrors)
	counter(c.resets, m.Resets)
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, m.LastPollLatency.Seconds())

	state := c.source.State()
	ch <- prometheus.MustNewConstMetric(c.fixStatus, prometheus.GaugeValue, float64(state.Status()))

	fix, _, ok := state.Last()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.quality, prometheus.GaugeValue, float64(fix.Quality))
	ch <- prometheus.MustNewConstMetric(c.satellites, prometheus.GaugeValue, float64(fix.Satellites))
	ch <- prometheus.MustNewConstMetric(c.hdop, prometheus.GaugeValue, fix.HDOP)
}
