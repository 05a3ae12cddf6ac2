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
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/ZaparooProject/go-um980/internal/testing"
)

// pollAll polls until the de-framer stops producing packets
func pollAll(t *testing.T, d *Deframer, src *MockTransport) []string {
	t.Helper()
	var packets []string
	dst := make([]byte, 1100)
	idle := 0
	for idle < 3 {
		n, err := d.Poll(dst)
		require.NoError(t, err)
		if n == 0 {
			if src.Pending() == 0 {
				idle++
			}
			continue
		}
		idle = 0
		require.Zero(t, dst[n], "packet must be zero terminated")
		packets = append(packets, string(dst[:n]))
	}
	return packets
}

func TestDeframerSingleSentence(t *testing.T) {
	t.Parallel()

	src := NewMockTransport()
	src.FeedString(testutil.SampleGGA)
	d := NewDeframer(src, 0)

	dst := make([]byte, 512)
	n, err := d.Poll(dst)
	require.NoError(t, err)
	assert.Equal(t, len(testutil.SampleGGA), n)
	assert.Equal(t, testutil.SampleGGA, string(dst[:n]))
	assert.Zero(t, dst[n])
	assert.Zero(t, d.Buffered())

	n, err = d.Poll(dst)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeframerInterleavedStream(t *testing.T) {
	t.Parallel()

	rtcm := testutil.BuildRTCMFrame(1005, []byte{0x00, 0x11, 0x22, 0x33})
	ack := testutil.BuildAckResponse("unlog", true)

	src := NewMockTransport()
	src.Feed([]byte("garbage"), []byte(testutil.SampleGGA), rtcm, []byte(ack))
	d := NewDeframer(src, 0)

	packets := pollAll(t, d, src)
	require.Len(t, packets, 3)
	assert.Equal(t, testutil.SampleGGA, packets[0])
	assert.Equal(t, string(rtcm), packets[1])
	assert.Equal(t, ack, packets[2])
}

func TestDeframerPartialSentence(t *testing.T) {
	t.Parallel()

	src := NewMockTransport()
	d := NewDeframer(src, 0)
	dst := make([]byte, 512)

	src.FeedString(testutil.SampleGGA[:20])
	n, err := d.Poll(dst)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 20, d.Buffered(), "partial data must be kept")

	src.FeedString(testutil.SampleGGA[20:])
	n, err = d.Poll(dst)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleGGA, string(dst[:n]))
}

func TestDeframerIncompleteRTCM(t *testing.T) {
	t.Parallel()

	rtcm := testutil.BuildRTCMFrame(1077, make([]byte, 40))

	src := NewMockTransport()
	d := NewDeframer(src, 0)
	dst := make([]byte, 512)

	src.Feed(rtcm[:5])
	n, err := d.Poll(dst)
	require.NoError(t, err)
	assert.Zero(t, n)

	src.Feed(rtcm[5:20])
	n, err = d.Poll(dst)
	require.NoError(t, err)
	assert.Zero(t, n)

	src.Feed(rtcm[20:])
	n, err = d.Poll(dst)
	require.NoError(t, err)
	assert.Equal(t, rtcm, dst[:n])
	assert.Equal(t, uint16(1077), RTCMFrame(dst[:n]).MessageType())
}

func TestDeframerSkipsInvalidRTCM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix []byte
	}{
		{name: "crc mismatch", prefix: []byte{0xD3, 0x00, 0x02, 0x3E, 0xD0, 0x00, 0x00, 0x00}},
		{name: "reserved bits set", prefix: []byte{0xD3, 0xFC, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{name: "declared size beyond capacity", prefix: []byte{0xD3, 0x03, 0xFF, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewMockTransport()
			src.Feed(tt.prefix, []byte(testutil.SampleGGA))
			d := NewDeframer(src, 0)

			dst := make([]byte, 512)
			n, err := d.Poll(dst)
			require.NoError(t, err)
			assert.Equal(t, testutil.SampleGGA, string(dst[:n]))
			assert.Zero(t, d.Buffered(), "the invalid frame is dropped with the packet")
		})
	}
}

func TestDeframerBufferTooSmall(t *testing.T) {
	t.Parallel()

	src := NewMockTransport()
	src.FeedString(testutil.SampleGGA)
	d := NewDeframer(src, 0)

	small := make([]byte, len(testutil.SampleGGA))
	n, err := d.Poll(small)
	require.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Zero(t, n)
	assert.Equal(t, len(testutil.SampleGGA), d.Buffered(), "nothing may be consumed")

	dst := make([]byte, len(testutil.SampleGGA)+1)
	n, err = d.Poll(dst)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleGGA, string(dst[:n]))
}

func TestDeframerBufferFull(t *testing.T) {
	t.Parallel()

	src := NewMockTransport()
	src.FeedString("$GNGGA,")
	for i := 0; i < 20; i++ {
		src.FeedString("0123456789")
	}
	d := NewDeframer(src, 64)
	dst := make([]byte, 128)

	n, err := d.Poll(dst)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 64, d.Buffered())

	_, err = d.Poll(dst)
	require.ErrorIs(t, err, ErrBufferFull)

	d.Reset()
	assert.Zero(t, d.Buffered())
	_, err = d.Poll(dst)
	require.NoError(t, err)
}

func TestDeframerBufferFullNotReportedWhenIdle(t *testing.T) {
	t.Parallel()

	src := NewMockTransport()
	src.FeedString("$GNGGA,012345678901234567890123456789012345678901234567890123456")
	d := NewDeframer(src, 64)
	dst := make([]byte, 128)

	for i := 0; i < 3; i++ {
		n, err := d.Poll(dst)
		require.NoError(t, err, "a full buffer with nothing to read is not an error")
		assert.Zero(t, n)
	}
}

func TestDeframerTransportErrors(t *testing.T) {
	t.Parallel()

	failure := errors.New("uart overrun")
	tests := []struct {
		setup func(*MockTransport)
		name  string
	}{
		{name: "read fails", setup: func(m *MockTransport) { m.FeedString("$"); m.SetReadError(failure) }},
		{name: "readable fails", setup: func(m *MockTransport) { m.SetReadableError(failure) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewMockTransport()
			tt.setup(src)
			d := NewDeframer(src, 0)

			_, err := d.Poll(make([]byte, 64))
			require.ErrorIs(t, err, ErrTransportRead)
			require.ErrorIs(t, err, failure)

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "mock", te.Port)
		})
	}
}

func TestDeframerRandomChunking(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	var want []string
	var stream []byte
	for i := 0; i < 12; i++ {
		var pkt []byte
		if rng.Intn(2) == 0 {
			pkt = []byte(testutil.BuildGGA(testutil.GGAFields{
				Time: "101010.00", Lat: "4845.0", LatDir: "N", Lon: "00758.0", LonDir: "E",
				Quality: "4", Satellites: "12", HDOP: "0.7", Altitude: "130.2", Undulation: "48.3",
			}))
		} else {
			body := make([]byte, rng.Intn(60))
			for j := range body {
				// keep payload free of markers so the expected packet list is exact
				body[j] = byte('a' + rng.Intn(26))
			}
			pkt = testutil.BuildRTCMFrame(uint16(1000+rng.Intn(100)), body)
		}
		want = append(want, string(pkt))
		stream = append(stream, pkt...)
	}

	src := NewMockTransport()
	src.SetChunkSize(1 + rng.Intn(50))
	src.Feed(stream)
	d := NewDeframer(src, 0)

	assert.Equal(t, want, pollAll(t, d, src))
}

func TestDeframerByteAtATime(t *testing.T) {
	t.Parallel()

	var stream []byte
	stream = append(stream, testutil.SampleGGA...)
	stream = append(stream, testutil.BuildRTCMFrame(1005, []byte{0x11, 0x22, 0x33, 0x44})...)
	stream = append(stream, testutil.SampleRMC...)
	stream = append(stream, testutil.BuildRTCMFrame(1077, make([]byte, 300))...)
	stream = append(stream, testutil.BuildAckResponse("mode rover", true)...)
	stream = append(stream, testutil.SampleNoFixGGA...)

	whole := NewMockTransport()
	whole.Feed(stream)
	want := pollAll(t, NewDeframer(whole, 0), whole)
	require.Len(t, want, 6)

	trickle := NewMockTransport()
	trickle.SetChunkSize(1)
	trickle.Feed(stream)
	assert.Equal(t, want, pollAll(t, NewDeframer(trickle, 0), trickle))
}

func TestDeframerWithholdsCorruptedFrame(t *testing.T) {
	t.Parallel()

	good := testutil.BuildRTCMFrame(1005, []byte{0x11, 0x22, 0x33})
	require.Equal(t, []byte{0xD3, 0x00, 0x05}, good[:3])

	src := NewMockTransport()
	src.Feed(good)
	require.Equal(t, []string{string(good)}, pollAll(t, NewDeframer(src, 0), src))

	for i := range good {
		for _, mask := range []byte{0x01, 0x80, 0xFF} {
			corrupt := append([]byte(nil), good...)
			corrupt[i] ^= mask

			src := NewMockTransport()
			src.Feed(corrupt, []byte(testutil.SampleGGA))
			for _, pkt := range pollAll(t, NewDeframer(src, 0), src) {
				assert.NotEqual(t, PacketRTCM, ClassifyPacket([]byte(pkt)),
					"byte %d xor %#02x emitted %x", i, mask, pkt)
			}
		}
	}
}

func TestClassifyPacket(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		pkt  []byte
		want PacketKind
	}{
		{name: "nmea", pkt: []byte("$GNGGA,"), want: PacketNMEA},
		{name: "rtcm", pkt: []byte{0xD3, 0x00}, want: PacketRTCM},
		{name: "unknown", pkt: []byte("#BESTPOSA"), want: PacketUnknown},
		{name: "empty", pkt: nil, want: PacketUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyPacket(tt.pkt))
		})
	}
}
