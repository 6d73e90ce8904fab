// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendFile = "file"
	BackendS3   = "s3"
	BackendGCS  = "gcs"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel:      "info",
			RegulatorName: "regulator",
			Version:       "dev",
		},
		Storage: Storage{
			DB: DB{
				Driver: DriverSQLite,
				DSN:    "data/proofs.db",
			},
			Logs: Logs{
				Dir: "data/logs",
			},
			Artifacts: Artifacts{
				Backend: BackendFile,
				Dir:     "data/artifacts",
			},
			Redis: Redis{
				LockTTL: 5 * time.Second,
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Signing: Signing{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Federation: Federation{
			RequestTimeout:   15 * time.Second,
			StaleAfter:       10 * time.Minute,
			RetryMaxAttempts: 5,
			RetryBaseDelay:   200 * time.Millisecond,
			RetryMaxDelay:    10 * time.Second,
		},
		Insurer: Insurer{
			RatePerSecond:  5,
			Burst:          1,
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			ExchangeSweepInterval: time.Minute,
		},
	}
}
