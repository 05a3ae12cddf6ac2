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
	"fmt"
	"io"
	"os"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/geo"
	"github.com/ZaparooProject/go-um980/polling"
	"github.com/adrianmo/go-nmea"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

type printer struct {
	w     io.Writer
	log   *logrus.Logger
	first *um980.GGA
}

func newPrinter(w io.Writer, log *logrus.Logger) *printer {
	return &printer{w: w, log: log}
}

// fix prints the fix and its drift from the first usable fix
func (p *printer) fix(fix *um980.GGA) {
	if !fix.HasFix() {
		_, _ = fmt.Fprintf(p.w, "%s (no fix)\n", fix)
		return
	}
	if p.first == nil {
		copied := *fix
		p.first = &copied
	}
	_, _ = fmt.Fprintf(p.w, "%s Drift : %.3f m @ %.1f°\n",
		fix, geo.Distance(p.first, fix), geo.Bearing(p.first, fix))
}

// sentence decodes sentences the driver does not interpret, for debug output
func (p *printer) sentence(raw []byte) {
	if !p.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	line := string(trimCRLF(raw))
	s, err := nmea.Parse(line)
	if err != nil {
		p.log.WithField("line", line).Debug("unparsed sentence")
		return
	}

	entry := p.log.WithField("type", s.DataType())
	switch m := s.(type) {
	case nmea.RMC:
		entry = entry.WithFields(logrus.Fields{
			"validity": m.Validity,
			"speed_kn": m.Speed,
			"course":   m.Course,
			"date":     m.Date.String(),
		})
	case nmea.GSA:
		entry = entry.WithFields(logrus.Fields{"fix": m.FixType, "pdop": m.PDOP, "vdop": m.VDOP})
	case nmea.GSV:
		entry = entry.WithField("in_view", m.NumberSVsInView)
	case nmea.VTG:
		entry = entry.WithField("ground_speed_kph", m.GroundSpeedKPH)
	}
	entry.Debug(s.String())
}

func (p *printer) summary(start time.Time, m polling.Metrics, s *sinks) {
	_, _ = fmt.Fprintf(p.w, "\nStarted %s\n", humanize.Time(start))
	_, _ = fmt.Fprintf(p.w, "Packets : %s (GGA %s, other NMEA %s, RTCM %s, acks %s)\n",
		humanize.Comma(m.Packets), humanize.Comma(m.Fixes), humanize.Comma(m.Sentences),
		humanize.Comma(m.RTCMFrames), humanize.Comma(m.Acks))
	_, _ = fmt.Fprintf(p.w, "Errors : %s poll, %s parse, %s resets\n",
		humanize.Comma(m.PollErrors), humanize.Comma(m.ParseErrors), humanize.Comma(m.Resets))
	if dropped := s.droppedCount(); dropped > 0 {
		_, _ = fmt.Fprintf(p.w, "Dropped : %s queued outputs\n", humanize.Comma(dropped))
	}
	if s.storePath != "" {
		if size, err := fileSize(s.storePath); err == nil {
			_, _ = fmt.Fprintf(p.w, "Fix log : %s (%s)\n", s.storePath, humanize.Bytes(uint64(size)))
		}
	}
}

func trimCRLF(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
