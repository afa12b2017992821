package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
		RateLimit      float64  `json:"rate_limit"`
		RateBurst      int      `json:"rate_burst"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Engine struct {
		JobID          string            `json:"job_id"`
		FetchMode      string            `json:"fetch_mode"`
		PatchMode      string            `json:"patch_mode"`
		RequestMode    string            `json:"request_mode"`
		CreateMethod   string            `json:"create_method"`
		BundleSize     int               `json:"bundle_size"`
		UseETag        bool              `json:"use_etag"`
		ConflictPolicy string            `json:"conflict_policy"`
		ResourceParams map[string]string `json:"resources"`
		FanOut         []string          `json:"fan_out"`
	} `json:"engine,omitempty"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval"`
		MaxRetries    int      `json:"max_retries"`
		BackoffPolicy string   `json:"backoff_policy"`
		BackoffDelay  Duration `json:"backoff_delay"`
	} `json:"workers,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
	} `json:"server,omitempty"`

	Log struct {
		File string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
			RateLimit:      jsonCfg.Adapter.RateLimit,
			RateBurst:      jsonCfg.Adapter.RateBurst,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Engine: Engine{
			JobID:          jsonCfg.Engine.JobID,
			FetchMode:      jsonCfg.Engine.FetchMode,
			PatchMode:      jsonCfg.Engine.PatchMode,
			RequestMode:    jsonCfg.Engine.RequestMode,
			CreateMethod:   jsonCfg.Engine.CreateMethod,
			BundleSize:     jsonCfg.Engine.BundleSize,
			UseETag:        jsonCfg.Engine.UseETag,
			ConflictPolicy: jsonCfg.Engine.ConflictPolicy,
			ResourceParams: jsonCfg.Engine.ResourceParams,
			FanOut:         jsonCfg.Engine.FanOut,
		},
		Workers: Workers{
			SyncInterval:  time.Duration(jsonCfg.Workers.SyncInterval),
			MaxRetries:    jsonCfg.Workers.MaxRetries,
			BackoffPolicy: jsonCfg.Workers.BackoffPolicy,
			BackoffDelay:  time.Duration(jsonCfg.Workers.BackoffDelay),
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		Log: Log{
			File: jsonCfg.Log.File,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
