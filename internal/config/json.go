// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file source.
// Durations are written as strings ("30s", "10m").
type StructuredJSONConfig struct {
	App struct {
		NodeID        string `json:"node_id"`
		LogLevel      string `json:"log_level"`
		RegulatorName string `json:"regulator_name"`
		Version       string `json:"version"`
	} `json:"app"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db"`
		Logs struct {
			Dir string `json:"dir"`
		} `json:"logs"`
		Artifacts struct {
			Backend  string `json:"backend"`
			Dir      string `json:"dir"`
			Bucket   string `json:"bucket"`
			Prefix   string `json:"prefix"`
			Region   string `json:"region"`
			Endpoint string `json:"endpoint"`
		} `json:"artifacts"`
		Redis struct {
			Address string   `json:"address"`
			LockTTL Duration `json:"lock_ttl"`
		} `json:"redis"`
	} `json:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server"`

	Signing struct {
		KeyFile    string   `json:"key_file"`
		Passphrase string   `json:"passphrase"`
		Salt       string   `json:"salt"`
		TokenTTL   Duration `json:"token_ttl"`
	} `json:"signing"`

	Federation struct {
		RegistryFile     string   `json:"registry_file"`
		RequestTimeout   Duration `json:"request_timeout"`
		StaleAfter       Duration `json:"stale_after"`
		RetryMaxAttempts int      `json:"retry_max_attempts"`
		RetryBaseDelay   Duration `json:"retry_base_delay"`
		RetryMaxDelay    Duration `json:"retry_max_delay"`
		HashKey          string   `json:"hash_key"`
	} `json:"federation"`

	Insurer struct {
		BaseURL        string   `json:"base_url"`
		RatePerSecond  float64  `json:"rate_per_second"`
		Burst          int      `json:"burst"`
		HashKey        string   `json:"hash_key"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"insurer"`

	Workers struct {
		ExchangeSweepInterval Duration `json:"exchange_sweep_interval"`
		ChainRebuildInterval  Duration `json:"chain_rebuild_interval"`
	} `json:"workers"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			NodeID:        j.App.NodeID,
			LogLevel:      j.App.LogLevel,
			RegulatorName: j.App.RegulatorName,
			Version:       j.App.Version,
		},
		Storage: Storage{
			DB: DB{
				Driver: j.Storage.DB.Driver,
				DSN:    j.Storage.DB.DSN,
			},
			Logs: Logs{
				Dir: j.Storage.Logs.Dir,
			},
			Artifacts: Artifacts{
				Backend:  j.Storage.Artifacts.Backend,
				Dir:      j.Storage.Artifacts.Dir,
				Bucket:   j.Storage.Artifacts.Bucket,
				Prefix:   j.Storage.Artifacts.Prefix,
				Region:   j.Storage.Artifacts.Region,
				Endpoint: j.Storage.Artifacts.Endpoint,
			},
			Redis: Redis{
				Address: j.Storage.Redis.Address,
				LockTTL: time.Duration(j.Storage.Redis.LockTTL),
			},
		},
		Server: Server{
			HTTPAddress:     j.Server.HTTPAddress,
			RequestTimeout:  time.Duration(j.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(j.Server.ShutdownTimeout),
		},
		Signing: Signing{
			KeyFile:    j.Signing.KeyFile,
			Passphrase: j.Signing.Passphrase,
			Salt:       j.Signing.Salt,
			TokenTTL:   time.Duration(j.Signing.TokenTTL),
		},
		Federation: Federation{
			RegistryFile:     j.Federation.RegistryFile,
			RequestTimeout:   time.Duration(j.Federation.RequestTimeout),
			StaleAfter:       time.Duration(j.Federation.StaleAfter),
			RetryMaxAttempts: j.Federation.RetryMaxAttempts,
			RetryBaseDelay:   time.Duration(j.Federation.RetryBaseDelay),
			RetryMaxDelay:    time.Duration(j.Federation.RetryMaxDelay),
			HashKey:          j.Federation.HashKey,
		},
		Insurer: Insurer{
			BaseURL:        j.Insurer.BaseURL,
			RatePerSecond:  j.Insurer.RatePerSecond,
			Burst:          j.Insurer.Burst,
			HashKey:        j.Insurer.HashKey,
			RequestTimeout: time.Duration(j.Insurer.RequestTimeout),
		},
		Workers: Workers{
			ExchangeSweepInterval: time.Duration(j.Workers.ExchangeSweepInterval),
			ChainRebuildInterval:  time.Duration(j.Workers.ChainRebuildInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
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
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
