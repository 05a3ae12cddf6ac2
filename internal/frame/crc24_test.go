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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bitwiseCRC24Q is a slow reference implementation
func bitwiseCRC24Q(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= CRC24QPoly
			}
		}
	}
	return crc & 0xFFFFFF
}

func TestCRC24Q(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{name: "empty data", data: nil, want: 0},
		{name: "single zero byte", data: []byte{0x00}, want: 0},
		{name: "single one byte", data: []byte{0x01}, want: 0x864CFB},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CRC24Q(tt.data))
		})
	}
}

func TestCRC24QMatchesBitwise(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		data := make([]byte, rng.Intn(300))
		_, _ = rng.Read(data)
		assert.Equal(t, bitwiseCRC24Q(data), CRC24Q(data), "payload %d", i)
	}
}

func TestCRC24QDetectsSingleBitFlip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		data := make([]byte, 1+rng.Intn(64))
		_, _ = rng.Read(data)
		want := CRC24Q(data)

		pos := rng.Intn(len(data) * 8)
		data[pos/8] ^= 1 << (pos % 8)
		assert.NotEqual(t, want, CRC24Q(data), "bit %d of payload %d", pos, i)
	}
}
