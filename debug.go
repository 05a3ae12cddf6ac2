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
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	debugEnabled atomic.Bool
	logger       atomic.Pointer[logrus.Logger]
)

func init() {
	logger.Store(logrus.StandardLogger())
}

// SetDebugEnabled turns debug output of the driver on or off. Messages are
// written at debug level, so the installed logger must allow that level.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger routes driver output to l. A nil logger restores the standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger.Store(l)
}

// Logger returns the logger the driver writes to
func Logger() *logrus.Logger {
	return logger.Load()
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		logger.Load().WithField("component", "um980").Debugf(format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		logger.Load().WithField("component", "um980").Debugln(args...)
	}
}
