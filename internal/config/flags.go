package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ResourceParams maps a resource type to its download search query.
// It implements the flag.Value interface and may be repeated on the command
// line: -resource Patient:address-city=NAIROBI -resource Observation
type ResourceParams map[string]string

// ParseFlags parses configuration flags from args (without the program name).
//
// Flags:
//
//	-base-url remote API root url
//	-token bearer token
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-rate-limit max requests per second
//	-rate-burst rate limiter burst
//	-db-driver sqlite3 or pgx
//	-d database DSN
//	-job-id sync job identifier
//	-fetch-mode all or per_resource
//	-patch-mode full_resource or partial
//	-request-mode individual or transaction
//	-create-method PUT or POST
//	-bundle-size max entries per transaction bundle
//	-use-etag send If-Match headers
//	-conflict-policy remote or local
//	-resource Type[:query], repeatable
//	-fan-out Source:Target:param, repeatable
//	-sync-interval worker period (e.g., "15m")
//	-max-retries retries per period
//	-backoff-policy linear or exponential
//	-backoff-delay initial retry delay
//	-a status server address host:port
//	-log-file log file path
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	resources := ResourceParams{}
	var fanOut stringList

	fs := flag.NewFlagSet("resource-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Adapter.BaseURL, "base-url", "", "Remote API base url")
	fs.StringVar(&cfg.Adapter.Token, "token", "", "Bearer token")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Float64Var(&cfg.Adapter.RateLimit, "rate-limit", 0, "Max requests per second")
	fs.IntVar(&cfg.Adapter.RateBurst, "rate-burst", 0, "Rate limiter burst")

	fs.StringVar(&cfg.Storage.DB.Driver, "db-driver", "", "Database driver (sqlite3, pgx)")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")

	fs.StringVar(&cfg.Engine.JobID, "job-id", "", "Sync job identifier")
	fs.StringVar(&cfg.Engine.FetchMode, "fetch-mode", "", "Local change fetch mode (all, per_resource)")
	fs.StringVar(&cfg.Engine.PatchMode, "patch-mode", "", "Patch mode (full_resource, partial)")
	fs.StringVar(&cfg.Engine.RequestMode, "request-mode", "", "Request mode (individual, transaction)")
	fs.StringVar(&cfg.Engine.CreateMethod, "create-method", "", "HTTP method for creations (PUT, POST)")
	fs.IntVar(&cfg.Engine.BundleSize, "bundle-size", 0, "Max entries per transaction bundle")
	fs.BoolVar(&cfg.Engine.UseETag, "use-etag", false, "Send If-Match headers")
	fs.StringVar(&cfg.Engine.ConflictPolicy, "conflict-policy", "", "Conflict policy (remote, local)")
	fs.Var(&resources, "resource", "Resource type with optional query, Type[:query]")
	fs.Var(&fanOut, "fan-out", "Fan-out rule, Source:Target:param")

	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Periodic sync interval")
	fs.IntVar(&cfg.Workers.MaxRetries, "max-retries", 0, "Max retries per period")
	fs.StringVar(&cfg.Workers.BackoffPolicy, "backoff-policy", "", "Backoff policy (linear, exponential)")
	fs.DurationVar(&cfg.Workers.BackoffDelay, "backoff-delay", time.Duration(0), "Initial retry delay")

	fs.StringVar(&cfg.Server.HTTPAddress, "a", "", "Status server address host:port")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if len(resources) > 0 {
		cfg.Engine.ResourceParams = resources
	}
	if len(fanOut) > 0 {
		cfg.Engine.FanOut = fanOut
	}

	return cfg, nil
}

// String returns the flag form of the params, sorted by resource type.
func (p *ResourceParams) String() string {
	if p == nil || len(*p) == 0 {
		return ""
	}

	types := make([]string, 0, len(*p))
	for t := range *p {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		if q := (*p)[t]; q != "" {
			parts = append(parts, t+":"+q)
			continue
		}
		parts = append(parts, t)
	}

	return strings.Join(parts, ",")
}

// Set parses one "Type[:query]" entry. The resource type must be non-empty
// and must not contain a slash or a query separator.
func (p *ResourceParams) Set(s string) error {
	resourceType, query, _ := strings.Cut(s, ":")
	resourceType = strings.TrimSpace(resourceType)
	if resourceType == "" {
		return errors.New("need resource in a form `Type[:query]`")
	}
	if strings.ContainsAny(resourceType, "/?&=") {
		return fmt.Errorf("incorrect resource type %q", resourceType)
	}

	if *p == nil {
		*p = ResourceParams{}
	}
	(*p)[resourceType] = strings.TrimPrefix(strings.TrimSpace(query), "?")
	return nil
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, strings.TrimSpace(s))
	return nil
}
