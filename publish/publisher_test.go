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
	"errors"
	"testing"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	testutil "github.com/ZaparooProject/go-um980/internal/testing"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err      error
	complete bool
}

func (f *fakeToken) Wait() bool                     { return f.complete }
func (f *fakeToken) WaitTimeout(time.Duration) bool { return f.complete }
func (f *fakeToken) Error() error                   { return f.err }

func (*fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

type fakeClient struct {
	token        *fakeToken
	messages     []message
	disconnected bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{token: &fakeToken{complete: true}}
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b, _ := payload.([]byte)
	f.messages = append(f.messages, message{topic: topic, payload: b, qos: qos, retain: retained})
	return f.token
}

func (f *fakeClient) Disconnect(uint) {
	f.disconnected = true
}

func sampleFix(t *testing.T) *um980.GGA {
	t.Helper()
	fix, err := um980.ParseGGA([]byte(testutil.SampleGGA))
	require.NoError(t, err)
	return fix
}

func TestNewFixPayload(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	p := NewFixPayload(sampleFix(t), day, 9)

	assert.Equal(t, time.Date(2026, 10, 18, 12, 29, 17, 0, time.UTC), p.Time)
	assert.InDelta(t, 48.76298601, p.Latitude, 1e-8)
	assert.InDelta(t, 7.97208769, p.Longitude, 1e-8)
	assert.InDelta(t, 130.1941, p.Altitude, 1e-9)
	assert.InDelta(t, 178.5687, p.EllipsoidHeight, 1e-9)
	assert.Equal(t, uint8(7), p.QualityCode)
	assert.Equal(t, uint8(17), p.Satellites)
	assert.Len(t, p.Geohash, 9)
	assert.Equal(t, "u0t", p.Geohash[:3])
}

func TestNewFixPayload_NoGeohash(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, NewFixPayload(sampleFix(t), day, 0).Geohash)

	noFix, err := um980.ParseGGA([]byte(testutil.SampleNoFixGGA))
	require.NoError(t, err)
	assert.Empty(t, NewFixPayload(noFix, day, 9).Geohash)
}

func TestPublisher_PublishFix(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	cfg := DefaultConfig()
	cfg.Topic = "rover/"
	cfg.QoS = 1
	cfg.Retain = true
	p := NewPublisher(client, cfg)

	require.NoError(t, p.PublishFix(sampleFix(t), time.Now()))
	require.Len(t, client.messages, 1)

	msg := client.messages[0]
	assert.Equal(t, "rover/fix", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retain)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.InDelta(t, 17.0, decoded["satellites"], 0)
	assert.Contains(t, decoded, "geohash")
	assert.Contains(t, decoded, "ellipsoid_height")
}

func TestPublisher_PublishRTCM(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	p := NewPublisher(client, nil)

	raw := testutil.BuildRTCMFrame(1077, []byte{1, 2, 3})
	require.NoError(t, p.PublishRTCM(um980.RTCMFrame(raw)))
	raw[0] = 0

	require.Len(t, client.messages, 1)
	assert.Equal(t, "um980/rtcm/1077", client.messages[0].topic)
	assert.Equal(t, byte(0xD3), client.messages[0].payload[0], "payload is copied")
}

func TestPublisher_Errors(t *testing.T) {
	t.Parallel()

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		client := newFakeClient()
		client.token.complete = false
		p := NewPublisher(client, nil)
		err := p.PublishFix(sampleFix(t), time.Now())
		assert.ErrorIs(t, err, ErrPublishTimeout)
	})

	t.Run("broker error", func(t *testing.T) {
		t.Parallel()
		brokerErr := errors.New("not authorized")
		client := newFakeClient()
		client.token.err = brokerErr
		p := NewPublisher(client, nil)
		err := p.PublishFix(sampleFix(t), time.Now())
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("connect without broker", func(t *testing.T) {
		t.Parallel()
		_, err := Connect(DefaultConfig())
		assert.ErrorIs(t, err, ErrNoBroker)
	})
}

func TestPublisher_Close(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	NewPublisher(client, nil).Close()
	assert.True(t, client.disconnected)
}

func TestDefaultClientID(t *testing.T) {
	t.Parallel()

	id := DefaultClientID()
	assert.Contains(t, id, "um980")
	assert.Equal(t, id, DefaultClientID())
}
