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

// CRC24QPoly is the Qualcomm CRC-24Q generator polynomial used by RTCM3.
const CRC24QPoly = 0x1864CFB

var crc24qTable = makeCRC24QTable()

func makeCRC24QTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		crc := uint32(i) << 16
		for bit := 0; bit < 8; bit++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= CRC24QPoly
			}
		}
		table[i] = crc & 0xFFFFFF
	}
	return table
}

// CRC24Q computes the RTCM3 checksum: initial value 0, MSB first,
// no reflection and no final xor.
func CRC24Q(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = ((crc << 8) & 0xFFFFFF) ^ crc24qTable[byte(crc>>16)^b]
	}
	return crc
}
