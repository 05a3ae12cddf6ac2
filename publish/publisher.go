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

// Package publish sends decoded fixes and correction frames to an MQTT broker.
package publish

import (
	"errors"
	"fmt"
	"strings"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Publisher errors
var (
	ErrPublishTimeout = errors.New("publish timed out")
	ErrNoBroker       = errors.New("broker URL is required")
)

// Client is the part of paho.Client the publisher uses
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Config holds publisher settings
type Config struct {
	Broker           string
	Topic            string
	ClientID         string
	Timeout          time.Duration
	GeohashPrecision int
	QoS              byte
	Retain           bool
}

// DefaultConfig returns the publisher defaults. Broker is left empty.
func DefaultConfig() *Config {
	return &Config{
		Topic:            "um980",
		Timeout:          2 * time.Second,
		GeohashPrecision: 9,
	}
}

// DefaultClientID derives a stable client id from the machine id
func DefaultClientID() string {
	id, err := machineid.ProtectedID("go-um980")
	if err != nil || len(id) < 12 {
		return "um980"
	}
	return "um980-" + id[:12]
}

// Publisher publishes fixes under <topic>/fix and RTCM frames under
// <topic>/rtcm/<type>
type Publisher struct {
	client Client
	config Config
}

// NewPublisher wraps a connected client
func NewPublisher(client Client, config *Config) *Publisher {
	if config == nil {
		config = DefaultConfig()
	}
	return &Publisher{client: client, config: *config}
}

// Connect creates a paho client for config.Broker and connects it
func Connect(config *Config) (*Publisher, error) {
	if config == nil || config.Broker == "" {
		return nil, ErrNoBroker
	}
	clientID := config.ClientID
	if clientID == "" {
		clientID = DefaultClientID()
	}

	opts := paho.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(config.Timeout)
	client := paho.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(config.Timeout) {
		return nil, fmt.Errorf("connect to %s: %w", config.Broker, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", config.Broker, err)
	}
	return NewPublisher(client, config), nil
}

// FixTopic returns the topic fixes are published on
func (p *Publisher) FixTopic() string {
	return p.topic("fix")
}

// RTCMTopic returns the topic frames of messageType are published on
func (p *Publisher) RTCMTopic(messageType uint16) string {
	return p.topic(fmt.Sprintf("rtcm/%d", messageType))
}

// PublishFix publishes fix as a JSON FixPayload
func (p *Publisher) PublishFix(fix *um980.GGA, day time.Time) error {
	payload, err := NewFixPayload(fix, day, p.config.GeohashPrecision).Marshal()
	if err != nil {
		return fmt.Errorf("encode fix: %w", err)
	}
	return p.publish(p.FixTopic(), payload)
}

// PublishRTCM publishes a copy of the raw frame
func (p *Publisher) PublishRTCM(frame um980.RTCMFrame) error {
	payload := append([]byte(nil), frame...)
	return p.publish(p.RTCMTopic(frame.MessageType()), payload)
}

// Close disconnects, allowing in-flight messages 250 ms to complete
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) topic(suffix string) string {
	return strings.TrimSuffix(p.config.Topic, "/") + "/" + suffix
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.config.QoS, p.config.Retain, payload)
	if p.config.Timeout > 0 && !token.WaitTimeout(p.config.Timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
