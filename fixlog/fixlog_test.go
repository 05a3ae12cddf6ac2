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

package fixlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	testutil "github.com/ZaparooProject/go-um980/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "fixes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_InsertAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	fix, err := um980.ParseGGA([]byte(testutil.SampleGGA))
	require.NoError(t, err)

	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 3; i++ {
		f := *fix
		f.Satellites = uint8(10 + i)
		id, err := s.Insert(ctx, &f, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	records, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, uint8(12), records[0].Satellites)
	assert.Equal(t, uint8(11), records[1].Satellites)
	assert.True(t, records[0].ReceivedAt.Equal(base.Add(2*time.Second)))
	assert.InDelta(t, 48.76298601, records[0].Latitude, 1e-8)
	assert.InDelta(t, 7.97208769, records[0].Longitude, 1e-8)
	assert.InDelta(t, 48.3746, records[0].Undulation, 1e-9)
	assert.Equal(t, um980.FixManual, records[0].Quality)
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	fix := &um980.GGA{Quality: um980.FixGPS}

	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 5; i++ {
		_, err := s.Insert(ctx, fix, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, base.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixes.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Insert(ctx, &um980.GGA{}, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Insert(ctx, &um980.GGA{}, time.Now())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Recent(ctx, 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Count(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Prune(ctx, time.Now())
	assert.ErrorIs(t, err, ErrClosed)
}
