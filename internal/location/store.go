// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package location holds the most recent GPS report received from the
// tracking client. Only the latest report is kept, in memory.
package location

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/aerys/internal/logging"
	"github.com/tomtom215/aerys/internal/metrics"
	"github.com/tomtom215/aerys/internal/models"
)

// ReadableTimeLayout formats report timestamps as "YYYY-MM-DD HH:MM:SS" in UTC.
const ReadableTimeLayout = "2006-01-02 15:04:05"

var (
	// ErrInvalidData is returned when a submission lacks latitude, longitude
	// or timestamp, or the timestamp falls outside years 1 to 9999 UTC.
	ErrInvalidData = errors.New("invalid data")

	// ErrNoLocation is returned by Fetch before the first accepted submission.
	ErrNoLocation = errors.New("no location data available")
)

// Submission is an incoming report. Nil fields are treated as missing.
type Submission struct {
	Latitude  *float64
	Longitude *float64
	Timestamp *float64
}

// Store is a single-slot, last-write-wins holder for the latest report.
// The zero value is ready to use.
type Store struct {
	mu     sync.RWMutex
	latest *models.LocationReport
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Submit validates s, replaces the stored report and returns it.
// On error the stored report is left untouched.
func (st *Store) Submit(s Submission) (models.LocationReport, error) {
	if s.Latitude == nil || s.Longitude == nil || s.Timestamp == nil {
		metrics.RecordLocationReport(false)
		return models.LocationReport{}, ErrInvalidData
	}

	readable, err := FormatTimestamp(*s.Timestamp)
	if err != nil {
		metrics.RecordLocationReport(false)
		return models.LocationReport{}, err
	}

	r := models.LocationReport{
		Latitude:     *s.Latitude,
		Longitude:    *s.Longitude,
		Timestamp:    *s.Timestamp,
		ReadableTime: readable,
	}

	st.mu.Lock()
	st.latest = &r
	st.mu.Unlock()

	metrics.RecordLocationReport(true)
	logging.Info().
		Float64("latitude", r.Latitude).
		Float64("longitude", r.Longitude).
		Float64("timestamp", r.Timestamp).
		Str("readable_time", r.ReadableTime).
		Msg("Received location")
	return r, nil
}

// Fetch returns the latest report or ErrNoLocation.
func (st *Store) Fetch() (models.LocationReport, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if st.latest == nil {
		return models.LocationReport{}, ErrNoLocation
	}
	return *st.latest, nil
}

// Unix seconds of 0001-01-01T00:00:00Z and 10000-01-01T00:00:00Z.
const (
	minTimestamp = -62135596800
	maxTimestamp = 253402300800
)

// FormatTimestamp renders Unix seconds (fractions truncated) as UTC
// ReadableTimeLayout. Timestamps outside years 1 to 9999, and NaN, are
// rejected with ErrInvalidData.
func FormatTimestamp(ts float64) (string, error) {
	if !(ts >= minTimestamp && ts < maxTimestamp) {
		return "", fmt.Errorf("%w: timestamp %v out of range", ErrInvalidData, ts)
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(ReadableTimeLayout), nil
}
