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

package frame

import (
	"strings"
	"testing"
)

func TestSegmentCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want int
	}{
		{name: "empty buffer", data: "", want: 1},
		{name: "no delimiter", data: "abc", want: 1},
		{name: "two fields", data: "a,b", want: 2},
		{name: "empty fields", data: ",,", want: 3},
		{name: "gga sentence", data: "$GNGGA,1,2,N,4,E,7,17,0.8,130.1,M,48.3,M,,*7D", want: 15},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SegmentCount([]byte(tt.data), FieldDelimiter); got != tt.want {
				t.Errorf("SegmentCount(%q) = %d, want %d", tt.data, got, tt.want)
			}
		})
	}
}

func TestSegmentBounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		data       string
		index      int
		wantStart  int
		wantLength int
		wantOK     bool
	}{
		{name: "first field", data: "ab,cd,ef", index: 0, wantStart: 0, wantLength: 2, wantOK: true},
		{name: "middle field", data: "ab,cd,ef", index: 1, wantStart: 3, wantLength: 2, wantOK: true},
		{name: "trailing field", data: "ab,cd,ef", index: 2, wantStart: 6, wantLength: 2, wantOK: true},
		{name: "empty middle field", data: "a,,b", index: 1, wantStart: 2, wantLength: 0, wantOK: true},
		{name: "empty trailing field", data: "a,", index: 1, wantStart: 2, wantLength: 0, wantOK: true},
		{name: "whole buffer", data: "abc", index: 0, wantStart: 0, wantLength: 3, wantOK: true},
		{name: "index out of range", data: "ab,cd", index: 2, wantOK: false},
		{name: "negative index", data: "ab,cd", index: -1, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, length, ok := SegmentBounds([]byte(tt.data), FieldDelimiter, tt.index)
			if ok != tt.wantOK {
				t.Fatalf("SegmentBounds ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart || length != tt.wantLength {
				t.Errorf("SegmentBounds = (%d, %d), want (%d, %d)", start, length, tt.wantStart, tt.wantLength)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	t.Parallel()

	buf := []byte("$command,unlog,response: OK*21")
	field, ok := Segment(buf, FieldDelimiter, 1)
	if !ok || string(field) != "unlog" {
		t.Errorf("Segment(1) = %q, %v", field, ok)
	}
	if _, ok := Segment(buf, FieldDelimiter, 3); ok {
		t.Error("Segment(3) should be out of range")
	}
}

func TestSegmentsRejoin(t *testing.T) {
	t.Parallel()

	for _, data := range []string{
		"",
		",",
		"a,,b,",
		"$command,unlog,response: OK*21",
		"$GNGGA,1,2,N,4,E,7,17,0.8,130.1,M,48.3,M,,*7D",
	} {
		buf := []byte(data)
		count := SegmentCount(buf, FieldDelimiter)
		fields := make([]string, 0, count)
		for i := 0; i < count; i++ {
			field, ok := Segment(buf, FieldDelimiter, i)
			if !ok {
				t.Fatalf("Segment(%q, %d) out of range", data, i)
			}
			fields = append(fields, string(field))
		}
		if _, ok := Segment(buf, FieldDelimiter, count); ok {
			t.Errorf("Segment(%q, %d) should be out of range", data, count)
		}
		if got := strings.Join(fields, string(FieldDelimiter)); got != data {
			t.Errorf("rejoined %q, want %q", got, data)
		}
	}
}
