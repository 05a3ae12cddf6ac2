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

// Package geo computes distances and bearings between decoded fixes.
package geo

import (
	"math"

	um980 "github.com/ZaparooProject/go-um980"
	golanggeo "github.com/kellydunn/golang-geo"
)

const metersPerKilometer = 1000

// Point returns the position of fix in decimal degrees
func Point(fix *um980.GGA) *golanggeo.Point {
	return golanggeo.NewPoint(fix.Latitude(), fix.Longitude())
}

// DistanceBetween returns the great-circle distance in meters between two
// positions given in decimal degrees
func DistanceBetween(lat1, lon1, lat2, lon2 float64) float64 {
	from := golanggeo.NewPoint(lat1, lon1)
	return from.GreatCircleDistance(golanggeo.NewPoint(lat2, lon2)) * metersPerKilometer
}

// BearingBetween returns the initial compass bearing in degrees, in
// [0, 360), to travel from the first position to the second.
// 0 is north and 90 is east.
func BearingBetween(lat1, lon1, lat2, lon2 float64) float64 {
	from := golanggeo.NewPoint(lat1, lon1)
	return normalizeBearing(from.BearingTo(golanggeo.NewPoint(lat2, lon2)))
}

// Distance returns the distance in meters between two fixes
func Distance(from, to *um980.GGA) float64 {
	return DistanceBetween(from.Latitude(), from.Longitude(), to.Latitude(), to.Longitude())
}

// Bearing returns the bearing in degrees from one fix to another
func Bearing(from, to *um980.GGA) float64 {
	return BearingBetween(from.Latitude(), from.Longitude(), to.Latitude(), to.Longitude())
}

func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
