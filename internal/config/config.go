// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// resource-sync engine. It is populated by merging defaults, environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the remote data source settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Engine selects the synchronization strategies.
	Engine Engine `envPrefix:"ENGINE_"`

	// Workers holds the periodic sync worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Server holds the status server settings.
	Server Server `envPrefix:"SERVER_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds the settings of the HTTP data source.
type Adapter struct {
	// BaseURL is the root of the remote REST API
	// (e.g. "https://hapi.example.org/baseR4").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every outbound request (e.g. "30s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is an already acquired bearer token. Token acquisition itself is
	// outside the engine.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`

	// RateLimit is the maximum number of requests per second; zero disables
	// limiting.
	// Env: ADAPTER_RATE_LIMIT
	RateLimit float64 `env:"RATE_LIMIT"`

	// RateBurst is the limiter burst size.
	// Env: ADAPTER_RATE_BURST
	RateBurst int `env:"RATE_BURST"`
}

// Storage groups the local store settings.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local store database.
type DB struct {
	// Driver is either "sqlite3" or "pgx".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name: a file path for sqlite3, a connection
	// string for pgx.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Engine selects the synchronization strategies.
type Engine struct {
	// JobID keys the persisted sync state (last sync timestamp, terminal
	// status, attempt counter).
	// Env: ENGINE_JOB_ID
	JobID string `env:"JOB_ID"`

	// FetchMode is "all" or "per_resource".
	// Env: ENGINE_FETCH_MODE
	FetchMode string `env:"FETCH_MODE"`

	// PatchMode is "full_resource" or "partial".
	// Env: ENGINE_PATCH_MODE
	PatchMode string `env:"PATCH_MODE"`

	// RequestMode is "individual" or "transaction".
	// Env: ENGINE_REQUEST_MODE
	RequestMode string `env:"REQUEST_MODE"`

	// CreateMethod is the HTTP method for creations, "PUT" or "POST".
	// Env: ENGINE_CREATE_METHOD
	CreateMethod string `env:"CREATE_METHOD"`

	// BundleSize caps the entries of one transaction bundle; zero means
	// one bundle per chunk.
	// Env: ENGINE_BUNDLE_SIZE
	BundleSize int `env:"BUNDLE_SIZE"`

	// UseETag sends If-Match headers for updates and deletes.
	// Env: ENGINE_USE_ETAG
	UseETag bool `env:"USE_ETAG"`

	// ConflictPolicy is "remote" or "local".
	// Env: ENGINE_CONFLICT_POLICY
	ConflictPolicy string `env:"CONFLICT_POLICY"`

	// ResourceParams maps a resource type to the search query used to
	// download it, e.g. "Patient:address-city=NAIROBI,Observation:".
	// Env: ENGINE_RESOURCE_PARAMS
	ResourceParams map[string]string `env:"RESOURCE_PARAMS"`

	// FanOut lists "SourceType:TargetType:searchParam" rules: every page of
	// downloaded SourceType resources queues a TargetType search by their ids.
	// Env: ENGINE_FAN_OUT (comma separated)
	FanOut []string `env:"FAN_OUT"`
}

// Workers holds the periodic worker settings.
type Workers struct {
	// SyncInterval is the period between two sync runs.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// MaxRetries bounds consecutive failed runs retried before giving up
	// until the next period.
	// Env: WORKERS_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// BackoffPolicy is "linear" or "exponential".
	// Env: WORKERS_BACKOFF_POLICY
	BackoffPolicy string `env:"BACKOFF_POLICY"`

	// BackoffDelay is the initial retry delay.
	// Env: WORKERS_BACKOFF_DELAY
	BackoffDelay time.Duration `env:"BACKOFF_DELAY"`
}

// Server holds the settings of the optional status server exposing
// the job state and prometheus metrics.
type Server struct {
	// HTTPAddress is the listen address (e.g. ":9090"); empty disables the
	// server.
	// Env: SERVER_HTTP_ADDRESS
	HTTPAddress string `env:"HTTP_ADDRESS"`
}

// Log holds logging settings.
type Log struct {
	// File is the log file path; empty means stdout.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (first source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (args)
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
