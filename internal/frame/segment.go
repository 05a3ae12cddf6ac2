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

// SegmentCount returns the number of delimiter separated fields in buf,
// which is always the number of delimiters plus one.
func SegmentCount(buf []byte, delim byte) int {
	count := 1
	for _, b := range buf {
		if b == delim {
			count++
		}
	}
	return count
}

// SegmentBounds locates the field at the zero based index. The field after the
// last delimiter runs to the end of buf. ok is false when index is out of range.
func SegmentBounds(buf []byte, delim byte, index int) (start, length int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}

	field := 0
	for i, b := range buf {
		if b != delim {
			continue
		}
		if field == index {
			return start, i - start, true
		}
		field++
		start = i + 1
	}

	if field == index {
		return start, len(buf) - start, true
	}
	return 0, 0, false
}

// Segment returns the field at index as a sub-slice of buf.
func Segment(buf []byte, delim byte, index int) ([]byte, bool) {
	start, length, ok := SegmentBounds(buf, delim, index)
	if !ok {
		return nil, false
	}
	return buf[start : start+length], true
}
