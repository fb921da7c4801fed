// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package models

// LocationReport is the most recent accepted location.
//
// Timestamp is Unix seconds as sent by the client. ReadableTime is always
// derived by the server, formatted "YYYY-MM-DD HH:MM:SS" in UTC.
type LocationReport struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    float64 `json:"timestamp"`
	ReadableTime string  `json:"readable_time"`
}

// LocationAccepted is returned after a successful location submission.
type LocationAccepted struct {
	Message      string `json:"message"`
	ReadableTime string `json:"readable_time"`
}
