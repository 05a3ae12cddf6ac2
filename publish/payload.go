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

package publish

import (
	"encoding/json"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/gansidui/geohash"
)

// FixPayload is the JSON document published for each fix
type FixPayload struct {
	Time            time.Time `json:"time"`
	Quality         string    `json:"quality"`
	Geohash         string    `json:"geohash,omitempty"`
	Latitude        float64   `json:"lat"`
	Longitude       float64   `json:"lon"`
	Altitude        float64   `json:"alt"`
	EllipsoidHeight float64   `json:"ellipsoid_height"`
	HDOP            float64   `json:"hdop"`
	QualityCode     uint8     `json:"quality_code"`
	Satellites      uint8     `json:"satellites"`
}

// NewFixPayload builds the payload for fix. day supplies the calendar date
// GGA lacks. A precision of zero omits the geohash.
func NewFixPayload(fix *um980.GGA, day time.Time, precision int) FixPayload {
	p := FixPayload{
		Time:            fix.Time(day),
		Quality:         fix.Quality.String(),
		Latitude:        fix.Latitude(),
		Longitude:       fix.Longitude(),
		Altitude:        fix.Altitude,
		EllipsoidHeight: fix.EllipsoidHeight(),
		HDOP:            fix.HDOP,
		QualityCode:     uint8(fix.Quality),
		Satellites:      fix.Satellites,
	}
	if precision > 0 && fix.HasFix() {
		p.Geohash, _ = geohash.Encode(p.Latitude, p.Longitude, precision)
	}
	return p
}

// Marshal encodes the payload as JSON
func (p FixPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}
