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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/ZaparooProject/go-um980/internal/testing"
)

func TestRTCMFrame(t *testing.T) {
	t.Parallel()

	body := []byte{0x01, 0x02, 0x03}
	f := RTCMFrame(testutil.BuildRTCMFrame(1230, body))

	assert.Equal(t, uint16(1230), f.MessageType())
	assert.Equal(t, uint16(5), f.PayloadLength())
	assert.Equal(t, []byte{0x4C, 0xE0, 0x01, 0x02, 0x03}, f.Payload())
	assert.Equal(t, CRC24Q(f[:len(f)-3]), f.CRC())
	assert.True(t, f.Valid())
	require.NoError(t, f.Verify())
	assert.Equal(t, "Type : 1230 Data len : 5", f.String())
}

func TestRTCMFrameInvalid(t *testing.T) {
	t.Parallel()

	good := testutil.BuildRTCMFrame(1005, []byte{0xAA})
	corrupt := append(RTCMFrame(nil), good...)
	corrupt[4] ^= 0x10

	assert.False(t, corrupt.Valid())
	require.ErrorIs(t, corrupt.Verify(), ErrChecksumMismatch)

	short := RTCMFrame(good[:4])
	assert.False(t, short.Valid())
	assert.Zero(t, short.MessageType())
	assert.Nil(t, short.Payload())
	assert.Zero(t, short.CRC())
	assert.Equal(t, uint16(3), short.PayloadLength())

	assert.False(t, RTCMFrame(nil).Valid())
}
