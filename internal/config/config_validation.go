// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Accepted values of the string-typed strategy settings.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	FetchModeAll         = "all"
	FetchModePerResource = "per_resource"

	PatchModeFullResource = "full_resource"
	PatchModePartial      = "partial"

	RequestModeIndividual  = "individual"
	RequestModeTransaction = "transaction"

	ConflictPolicyRemote = "remote"
	ConflictPolicyLocal  = "local"

	BackoffLinear      = "linear"
	BackoffExponential = "exponential"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application constraints before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the sentinel errors
// from errors.go wrapped with the offending value.
func (cfg *StructuredConfig) validate() error {
	u, err := url.Parse(cfg.Adapter.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: base url %q", ErrInvalidAdapterConfigs, cfg.Adapter.BaseURL)
	}
	if cfg.Adapter.RequestTimeout < 0 || cfg.Adapter.RateLimit < 0 || cfg.Adapter.RateBurst < 0 {
		return fmt.Errorf("%w: negative timeout or rate", ErrInvalidAdapterConfigs)
	}

	switch cfg.Storage.DB.Driver {
	case "", DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if err := cfg.Engine.validate(); err != nil {
		return err
	}

	if cfg.Workers.SyncInterval < 0 || cfg.Workers.MaxRetries < 0 || cfg.Workers.BackoffDelay < 0 {
		return fmt.Errorf("%w: negative interval, retries or delay", ErrInvalidWorkerConfigs)
	}
	switch cfg.Workers.BackoffPolicy {
	case "", BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("%w: backoff policy %q", ErrInvalidWorkerConfigs, cfg.Workers.BackoffPolicy)
	}

	return nil
}

func (e Engine) validate() error {
	if !oneOf(e.FetchMode, FetchModeAll, FetchModePerResource) {
		return fmt.Errorf("%w: fetch mode %q", ErrInvalidEngineConfigs, e.FetchMode)
	}
	if !oneOf(e.PatchMode, PatchModeFullResource, PatchModePartial) {
		return fmt.Errorf("%w: patch mode %q", ErrInvalidEngineConfigs, e.PatchMode)
	}
	if !oneOf(e.RequestMode, RequestModeIndividual, RequestModeTransaction) {
		return fmt.Errorf("%w: request mode %q", ErrInvalidEngineConfigs, e.RequestMode)
	}
	if !oneOf(e.CreateMethod, "PUT", "POST") {
		return fmt.Errorf("%w: create method %q", ErrInvalidEngineConfigs, e.CreateMethod)
	}
	if !oneOf(e.ConflictPolicy, ConflictPolicyRemote, ConflictPolicyLocal) {
		return fmt.Errorf("%w: conflict policy %q", ErrInvalidEngineConfigs, e.ConflictPolicy)
	}
	if e.BundleSize < 0 {
		return fmt.Errorf("%w: bundle size %d", ErrInvalidEngineConfigs, e.BundleSize)
	}
	if e.RequestMode == RequestModeIndividual && e.BundleSize > 0 {
		return fmt.Errorf("%w: bundle size requires transaction requests", ErrInvalidEngineConfigs)
	}
	for _, rule := range e.FanOut {
		if _, err := ParseFanOut(rule); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEngineConfigs, err)
		}
	}
	return nil
}

// oneOf reports whether v is empty or one of allowed.
func oneOf(v string, allowed ...string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// FanOut is a parsed fan-out rule.
type FanOut struct {
	SourceType  string
	TargetType  string
	SearchParam string
}

// ParseFanOut parses a "SourceType:TargetType:searchParam" rule.
func ParseFanOut(rule string) (FanOut, error) {
	parts := strings.Split(rule, ":")
	if len(parts) != 3 {
		return FanOut{}, fmt.Errorf("fan-out rule %q: need Source:Target:param", rule)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return FanOut{}, fmt.Errorf("fan-out rule %q: empty part", rule)
		}
	}
	return FanOut{SourceType: parts[0], TargetType: parts[1], SearchParam: parts[2]}, nil
}
