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

// Command um980sh is an interactive shell for sending commands to a UM980
// receiver while watching its output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	um980 "github.com/ZaparooProject/go-um980"
	"github.com/ZaparooProject/go-um980/detection"
	// Register the serial port detector
	_ "github.com/ZaparooProject/go-um980/detection/uart"
	"github.com/ZaparooProject/go-um980/transport/uart"
	"github.com/abiosoft/ishell"
	"github.com/sirupsen/logrus"
)

const (
	sessionKey        = "$session"
	unconnectedPrompt = "[none] > "
)

var errUsage = errors.New("usage")

// openUART opens path as a serial port at the default baud rate
func openUART(path string) (um980.Transport, error) {
	t, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	return t, nil
}

func sessionFrom(c *ishell.Context) *session {
	return c.Get(sessionKey).(*session)
}

// args checks the argument count and prints help on mismatch
func args(c *ishell.Context, min, max int) bool {
	if len(c.Args) < min || len(c.Args) > max {
		c.Err(fmt.Errorf("%w: %s %s", errUsage, c.Cmd.Name, c.Cmd.Help))
		return false
	}
	return true
}

func parseUint16(name, s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, um980.ErrInvalidParameter)
	}
	return uint16(v), nil
}

func commands(ctx context.Context) []*ishell.Cmd {
	run := func(fn func(d *um980.Device) error) func(c *ishell.Context) {
		return func(c *ishell.Context) {
			if err := sessionFrom(c).exclusive(ctx, fn); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}
	}

	return []*ishell.Cmd{
		{
			Name: "ports",
			Help: "list candidate serial ports",
			Func: func(c *ishell.Context) {
				opts := detection.DefaultOptions()
				devices, err := detection.Detect(ctx, &opts)
				if err != nil {
					c.Err(err)
					return
				}
				for _, d := range devices {
					c.Println(d.String())
				}
			},
		},
		{
			Name: "connect",
			Help: "[PATH] open and initialize a receiver, auto-detecting when PATH is omitted",
			Func: func(c *ishell.Context) {
				if !args(c, 0, 1) {
					return
				}
				path := ""
				opts := []um980.ConnectOption{um980.WithTransportFactory(openUART)}
				if len(c.Args) == 1 {
					path = c.Args[0]
				} else {
					detectOpts := detection.DefaultOptions()
					opts = append(opts,
						um980.WithAutoDetection(&detectOpts),
						um980.WithTransportFromDeviceFactory(func(d detection.DeviceInfo) (um980.Transport, error) {
							return openUART(d.Path)
						}))
				}
				device, err := um980.ConnectDevice(ctx, path, opts...)
				if err != nil {
					c.Err(err)
					return
				}
				if err := sessionFrom(c).attach(ctx, device); err != nil {
					_ = device.Close()
					c.Err(err)
					return
				}
				name := path
				if n, ok := device.Transport().(um980.Namer); ok {
					name = n.Name()
				}
				c.SetPrompt(fmt.Sprintf("[%s] > ", name))
				c.Println("connected")
			},
		},
		{
			Name: "disconnect",
			Help: "close the receiver",
			Func: func(c *ishell.Context) {
				if err := sessionFrom(c).detach(); err != nil {
					c.Err(err)
				}
				c.SetPrompt(unconnectedPrompt)
			},
		},
		{
			Name: "init",
			Help: "stop all receiver output",
			Func: run(func(d *um980.Device) error { return d.InitContext(ctx) }),
		},
		{
			Name: "rover",
			Help: "switch to rover mode",
			Func: run(func(d *um980.Device) error { return d.SetModeRoverContext(ctx) }),
		},
		{
			Name: "base",
			Help: "switch to base mode with a 60 s position survey",
			Func: run(func(d *um980.Device) error { return d.SetModeBaseContext(ctx) }),
		},
		{
			Name: "gga",
			Help: "HZ start GGA output at 1, 2, 5 or 10 Hz",
			Func: func(c *ishell.Context) {
				if !args(c, 1, 1) {
					return
				}
				hz, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Err(fmt.Errorf("rate %q: %w", c.Args[0], um980.ErrInvalidParameter))
					return
				}
				rate, err := um980.ParseFrequency(hz)
				if err != nil {
					c.Err(err)
					return
				}
				run(func(d *um980.Device) error { return d.StartGGAGenerationContext(ctx, rate) })(c)
			},
		},
		{
			Name: "rtcm",
			Help: "MESSAGE PERIOD emit an RTCM message every PERIOD seconds",
			Func: func(c *ishell.Context) {
				if !args(c, 2, 2) {
					return
				}
				msg, err := parseUint16("message", c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				period, err := parseUint16("period", c.Args[1])
				if err != nil {
					c.Err(err)
					return
				}
				run(func(d *um980.Device) error { return d.StartCorrectionGenerationContext(ctx, msg, period) })(c)
			},
		},
		{
			Name: "send",
			Help: "COMMAND... send a raw command and wait for its ack",
			Func: func(c *ishell.Context) {
				if len(c.Args) == 0 {
					c.Err(fmt.Errorf("%w: send COMMAND", errUsage))
					return
				}
				if err := sessionFrom(c).send(ctx, strings.Join(c.Args, " ")); err != nil {
					c.Err(err)
					return
				}
				c.Println("OK")
			},
		},
		{
			Name: "watch",
			Help: "on|off print fixes as they arrive",
			Func: func(c *ishell.Context) {
				if !args(c, 1, 1) {
					return
				}
				sessionFrom(c).setWatch(c.Args[0] == "on")
			},
		},
		{
			Name: "status",
			Help: "show the last fix and stream counters",
			Func: func(c *ishell.Context) {
				desc, err := sessionFrom(c).status()
				if err != nil {
					c.Err(err)
					return
				}
				c.Print(desc)
			},
		},
	}
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug output")
	device := flag.String("device", "", "Connect to this serial device on start")
	flag.Parse()

	if *debug {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		um980.SetLogger(log)
		um980.SetDebugEnabled(true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell := ishell.New()
	sess := newSession(os.Stdout)
	shell.Set(sessionKey, sess)
	shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands(ctx) {
		shell.AddCmd(cmd)
	}

	if *device != "" {
		if err := shell.Process("connect", *device); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
	}

	// Non-interactive: run the remaining arguments as one command
	if flag.NArg() > 0 {
		if err := shell.Process(flag.Args()...); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		shell.Run()
	}

	if sess.connected() {
		_ = sess.detach()
	}
}
