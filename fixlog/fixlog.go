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

// Package fixlog records decoded fixes in a SQLite database.
package fixlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	um980 "github.com/ZaparooProject/go-um980"
	// Registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrClosed is returned by operations on a closed Store
var ErrClosed = errors.New("fix log is closed")

const schema = `
CREATE TABLE IF NOT EXISTS fixes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	received_at INTEGER NOT NULL,
	latitude    REAL NOT NULL,
	longitude   REAL NOT NULL,
	altitude    REAL NOT NULL,
	undulation  REAL NOT NULL,
	hdop        REAL NOT NULL,
	quality     INTEGER NOT NULL,
	satellites  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS fixes_received_at ON fixes (received_at);
`

// Record is one stored fix
type Record struct {
	ReceivedAt time.Time
	Latitude   float64
	Longitude  float64
	Altitude   float64
	Undulation float64
	HDOP       float64
	ID         int64
	Quality    um980.FixQuality
	Satellites uint8
}

// Store is a fix log backed by a SQLite file
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Insert appends fix received at at and returns its row id
func (s *Store) Insert(ctx context.Context, fix *um980.GGA, at time.Time) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fixes (received_at, latitude, longitude, altitude, undulation, hdop, quality, satellites)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		at.UnixNano(), fix.Latitude(), fix.Longitude(), fix.Altitude, fix.Undulation,
		fix.HDOP, int(fix.Quality), int(fix.Satellites))
	if err != nil {
		return 0, fmt.Errorf("insert fix: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit records, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, received_at, latitude, longitude, altitude, undulation, hdop, quality, satellites
		 FROM fixes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fixes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			r          Record
			receivedAt int64
			quality    int
			satellites int
		)
		if err := rows.Scan(&r.ID, &receivedAt, &r.Latitude, &r.Longitude, &r.Altitude,
			&r.Undulation, &r.HDOP, &quality, &satellites); err != nil {
			return nil, fmt.Errorf("scan fix: %w", err)
		}
		r.ReceivedAt = time.Unix(0, receivedAt)
		r.Quality = um980.FixQuality(quality)
		r.Satellites = uint8(satellites)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored fixes
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fixes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fixes: %w", err)
	}
	return n, nil
}

// Prune deletes fixes received before cutoff and returns how many were removed
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM fixes WHERE received_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune fixes: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database. Later calls are no-ops.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
