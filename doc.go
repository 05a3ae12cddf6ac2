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

/*
Package um980 provides a pure Go driver for Unicore UM980 GNSS receivers.

The UM980 interleaves NMEA sentences and RTCM3 correction frames on a single
serial line. This library splits that byte stream back into packets, decodes
the sentences the host needs, and drives the receiver's ASCII command set.

Features:
  - Stream de-framing of interleaved NMEA and RTCM3 with CRC-24Q verification
  - GGA fix and command acknowledgement decoding
  - Receiver configuration: rover or base mode, GGA rate, RTCM output
  - UART (go.bug.st/serial) and raw Linux TTY transports
  - Serial port auto-detection

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-um980"
	    "github.com/ZaparooProject/go-um980/transport/uart"
	)

	// Create a UART transport
	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	// Create the driver and stop all receiver output
	device, err := um980.New(transport,
	    um980.WithAckTimeout(200*time.Millisecond),
	    um980.WithNMEAListener(func(sentence []byte) {
	        if um980.ClassifySentence(sentence) != um980.SentenceGGA {
	            return
	        }
	        if fix, err := um980.ParseGGA(sentence); err == nil {
	            fmt.Println(fix)
	        }
	    }),
	)
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	// Rover with one fix per second
	if err := device.SetModeRover(); err != nil {
	    log.Fatal(err)
	}
	if err := device.StartGGAGeneration(um980.Frequency1Hz); err != nil {
	    log.Fatal(err)
	}

	for {
	    if err := device.PollIncoming(); err != nil {
	        device.Reset()
	    }
	}

The polling package runs this loop on a ticker with fix tracking and metrics.

Packets:

PollIncoming hands each complete packet to a listener. NMEA sentences include
their CRLF terminator. RTCM frames include the three byte header and the CRC.
Both alias the driver's packet buffer and are only valid during the callback.

Error Handling:

All operations return errors that can be inspected:

	if errors.Is(err, um980.ErrTimeout) {
	    // The receiver did not acknowledge in time
	}

Thread Safety:

Device operations are not thread-safe. Commands and PollIncoming must be
called from one goroutine.
*/
package um980
