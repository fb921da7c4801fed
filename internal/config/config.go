// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

// Package config loads Aerys configuration from defaults, an optional YAML
// file, and environment variables (in increasing order of precedence).
package config

import "time"

// Store drivers.
const (
	DriverBadger = "badger"
	DriverMongo  = "mongo"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Upload   UploadConfig   `koanf:"upload"`
	Security SecurityConfig `koanf:"security"`
	Web      WebConfig      `koanf:"web"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects and configures the document store backing layers,
// styles and the map view.
type StoreConfig struct {
	// Driver is "badger" (embedded, default) or "mongo".
	Driver  string        `koanf:"driver"`
	Badger  BadgerConfig  `koanf:"badger"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Breaker BreakerConfig `koanf:"breaker"`
}

type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

// BreakerConfig controls the circuit breaker wrapped around the store.
type BreakerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxFailures uint32        `koanf:"max_failures"`
	Timeout     time.Duration `koanf:"timeout"`
}

type UploadConfig struct {
	// MaxBytes caps the multipart body of /upload_geojson.
	MaxBytes int64 `koanf:"max_bytes"`
	// AllowedExtensions is matched case-insensitively against the uploaded filename.
	AllowedExtensions []string `koanf:"allowed_extensions"`
}

type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

type WebConfig struct {
	// StaticDir, when set, is served under /static/.
	StaticDir string `koanf:"static_dir"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration using koanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
