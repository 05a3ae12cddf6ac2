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

package um980

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ZaparooProject/go-um980/internal/frame"
)

// Hemisphere is the direction flag of a coordinate: 0 for north or east,
// 1 for south or west.
type Hemisphere uint8

const (
	HemisphereNorth Hemisphere = 0
	HemisphereSouth Hemisphere = 1
	HemisphereEast  Hemisphere = 0
	HemisphereWest  Hemisphere = 1
)

// FixQuality is the GGA quality indicator
type FixQuality uint8

const (
	FixInvalid   FixQuality = 0
	FixGPS       FixQuality = 1
	FixDGPS      FixQuality = 2
	FixPPS       FixQuality = 3
	FixRTKFixed  FixQuality = 4
	FixRTKFloat  FixQuality = 5
	FixEstimated FixQuality = 6
	FixManual    FixQuality = 7
	FixSimulated FixQuality = 8
)

// String returns a short description of the quality indicator
func (q FixQuality) String() string {
	switch q {
	case FixInvalid:
		return "invalid"
	case FixGPS:
		return "gps"
	case FixDGPS:
		return "dgps"
	case FixPPS:
		return "pps"
	case FixRTKFixed:
		return "rtk-fixed"
	case FixRTKFloat:
		return "rtk-float"
	case FixEstimated:
		return "estimated"
	case FixManual:
		return "manual"
	case FixSimulated:
		return "simulated"
	default:
		return "quality(" + strconv.Itoa(int(q)) + ")"
	}
}

// GGA field indices
const (
	ggaFieldCount      = 15
	ggaFieldTime       = 1
	ggaFieldLat        = 2
	ggaFieldLatDir     = 3
	ggaFieldLon        = 4
	ggaFieldLonDir     = 5
	ggaFieldQuality    = 6
	ggaFieldSatellites = 7
	ggaFieldHDOP       = 8
	ggaFieldAltitude   = 9
	ggaFieldUndulation = 11
)

// GGA is a decoded position fix. Coordinates are kept as whole degrees plus
// decimal minutes, exactly as transmitted.
type GGA struct {
	LatDegrees float64
	LatMinutes float64
	LonDegrees float64
	LonMinutes float64
	HDOP       float64
	// Altitude above mean sea level in meters
	Altitude float64
	// Undulation is the geoid separation in meters
	Undulation float64
	Hours      uint8
	Minutes    uint8
	Seconds    uint8
	// SubSeconds holds hundredths of a second
	SubSeconds uint8
	LatDir     Hemisphere
	LonDir     Hemisphere
	Quality    FixQuality
	Satellites uint8
}

// ParseGGA decodes a GGA sentence. Empty fields decode as zero; fields that
// are present but too short or not numeric fail with ErrMalformedField.
func ParseGGA(line []byte) (*GGA, error) {
	if n := frame.SegmentCount(line, frame.FieldDelimiter); n != ggaFieldCount {
		return nil, fmt.Errorf("GGA has %d fields, want %d: %w", n, ggaFieldCount, ErrMalformedSegmentCount)
	}

	field := func(i int) string {
		seg, _ := frame.Segment(line, frame.FieldDelimiter, i)
		return string(seg)
	}

	g := &GGA{}
	var err error

	if err = g.parseTime(field(ggaFieldTime)); err != nil {
		return nil, err
	}
	if g.LatDegrees, g.LatMinutes, err = parseCoordinate("latitude", field(ggaFieldLat), 2); err != nil {
		return nil, err
	}
	g.LatDir = parseHemisphere(field(ggaFieldLatDir), 'N')
	if g.LonDegrees, g.LonMinutes, err = parseCoordinate("longitude", field(ggaFieldLon), 3); err != nil {
		return nil, err
	}
	g.LonDir = parseHemisphere(field(ggaFieldLonDir), 'E')

	if q := field(ggaFieldQuality); q != "" {
		if q[0] < '0' || q[0] > '9' {
			return nil, malformed("quality", q)
		}
		g.Quality = FixQuality(q[0] - '0')
	}
	if g.Satellites, err = parseUint8("satellites", field(ggaFieldSatellites)); err != nil {
		return nil, err
	}
	if g.HDOP, err = parseFloat("hdop", field(ggaFieldHDOP)); err != nil {
		return nil, err
	}
	if g.Altitude, err = parseFloat("altitude", field(ggaFieldAltitude)); err != nil {
		return nil, err
	}
	if g.Undulation, err = parseFloat("undulation", field(ggaFieldUndulation)); err != nil {
		return nil, err
	}
	return g, nil
}

// parseTime reads hhmmss[.ss]
func (g *GGA) parseTime(s string) error {
	if s == "" {
		return nil
	}
	if len(s) < 6 {
		return malformed("time", s)
	}

	parts := []*uint8{&g.Hours, &g.Minutes, &g.Seconds}
	for i, dst := range parts {
		v, err := strconv.Atoi(s[i*2 : i*2+2])
		if err != nil || v < 0 {
			return malformed("time", s)
		}
		*dst = uint8(v)
	}

	if len(s) == 6 {
		return nil
	}
	if s[6] != '.' {
		return malformed("time", s)
	}
	frac := s[7:]
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	v, err := strconv.Atoi(frac)
	if err != nil || v < 0 {
		return malformed("time", s)
	}
	g.SubSeconds = uint8(v)
	return nil
}

// parseCoordinate splits a ddmm.mmmm or dddmm.mmmm field
func parseCoordinate(name, s string, degreeDigits int) (deg, minutes float64, err error) {
	if s == "" {
		return 0, 0, nil
	}
	if len(s) < degreeDigits {
		return 0, 0, malformed(name, s)
	}
	d, err := strconv.Atoi(s[:degreeDigits])
	if err != nil || d < 0 {
		return 0, 0, malformed(name, s)
	}
	if minutes, err = parseFloat(name, s[degreeDigits:]); err != nil {
		return 0, 0, err
	}
	return float64(d), minutes, nil
}

func parseHemisphere(s string, positive byte) Hemisphere {
	if s != "" && s[0] == positive {
		return 0
	}
	return 1
}

func parseUint8(name, s string) (uint8, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, malformed(name, s)
	}
	return uint8(v), nil
}

func parseFloat(name, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, malformed(name, s)
	}
	return v, nil
}

func malformed(name, value string) error {
	return fmt.Errorf("%s %q: %w", name, value, ErrMalformedField)
}

// Latitude returns the signed latitude in decimal degrees
func (g *GGA) Latitude() float64 {
	v := g.LatDegrees + g.LatMinutes/60
	if g.LatDir == HemisphereSouth {
		return -v
	}
	return v
}

// Longitude returns the signed longitude in decimal degrees
func (g *GGA) Longitude() float64 {
	v := g.LonDegrees + g.LonMinutes/60
	if g.LonDir == HemisphereWest {
		return -v
	}
	return v
}

// EllipsoidHeight returns altitude plus geoid separation
func (g *GGA) EllipsoidHeight() float64 {
	return g.Altitude + g.Undulation
}

// HasFix reports whether the quality indicator denotes a usable position
func (g *GGA) HasFix() bool {
	return g.Quality != FixInvalid
}

// Time combines the UTC time of day with the calendar date of day
func (g *GGA) Time(day time.Time) time.Time {
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, int(g.Hours), int(g.Minutes), int(g.Seconds),
		int(g.SubSeconds)*int(10*time.Millisecond), time.UTC)
}

// String formats the fix the way the diagnostic printer shows it
func (g *GGA) String() string {
	return fmt.Sprintf("Time : %02d:%02d:%02d Lat : %.8f Long : %.8f Alt : %.4f Quality : %d Sats : %d",
		g.Hours, g.Minutes, g.Seconds, g.Latitude(), g.Longitude(), g.EllipsoidHeight(), g.Quality, g.Satellites)
}
