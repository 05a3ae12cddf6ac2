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

package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestWithRetrySucceedsAfterRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	retries := 0
	result, err := WithRetry(RetryConfig{
		MaxRetries: 2,
		OnRetry: func() error {
			retries++
			return nil
		},
	}, func() (int, bool, error) {
		calls++
		if calls < 2 {
			return 0, true, errFlaky
		}
		return 42, false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, retries)
}

func TestWithRetryExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	failedCalled := false
	_, err := WithRetry(RetryConfig{
		Description:   "unlog",
		MaxRetries:    1,
		OnRetryFailed: func() error { failedCalled = true; return nil },
	}, func() (struct{}, bool, error) {
		calls++
		return struct{}{}, true, errFlaky
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, calls)
	assert.True(t, failedCalled)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.Contains(t, err.Error(), "unlog")
}

func TestWithRetryPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := WithRetry(RetryConfig{MaxRetries: 5}, func() (int, bool, error) {
		calls++
		return 0, false, errFlaky
	})

	require.ErrorIs(t, err, errFlaky)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
}

func TestWithRetryUsesCustomSleep(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	_, err := WithRetry(RetryConfig{
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		Sleep:      func(d time.Duration) { slept = append(slept, d) },
	}, func() (int, bool, error) {
		return 0, true, errFlaky
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, slept)
}
