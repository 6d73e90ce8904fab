// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration of a proof ledger node.
// It is populated by merging environment variables, command-line flags, an
// optional JSON file and finally built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds node identity and process-wide settings.
	App App `envPrefix:"APP_"`

	// Storage holds settings for the proof database, the append-only logs,
	// the artifact store and the optional Redis append lock.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Signing describes where the node's ed25519 identity comes from.
	Signing Signing `envPrefix:"SIGNING_"`

	// Federation holds the peer registry and delivery policy.
	Federation Federation `envPrefix:"FEDERATION_"`

	// Insurer holds the insurer endpoint used by insurance sync.
	Insurer Insurer `envPrefix:"INSURER_"`

	// Workers holds background job intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds node-level settings.
type App struct {
	// NodeID is this deployment's federation identity. It must match an
	// entry in the node registry for peers to accept its exchange bundles.
	// Env: APP_NODE_ID
	NodeID string `env:"NODE_ID"`

	// LogLevel is the zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// RegulatorName is used by validation requests that do not name one.
	// Env: APP_REGULATOR_NAME
	RegulatorName string `env:"REGULATOR_NAME"`

	// Version is exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups every persistence backend.
type Storage struct {
	DB        DB        `envPrefix:"DB_"`
	Logs      Logs      `envPrefix:"LOGS_"`
	Artifacts Artifacts `envPrefix:"ARTIFACTS_"`
	Redis     Redis     `envPrefix:"REDIS_"`
}

// DB holds the relational proof store connection.
type DB struct {
	// Driver is "postgres" or "sqlite".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string (or file path for sqlite).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Logs holds the LevelDB directory backing the append-only logs and the
// block chain.
type Logs struct {
	// Env: STORAGE_LOGS_DIR
	Dir string `env:"DIR"`
}

// Artifacts selects the artifact store backend.
type Artifacts struct {
	// Backend is "file", "s3" or "gcs".
	// Env: STORAGE_ARTIFACTS_BACKEND
	Backend string `env:"BACKEND"`

	// Dir is the root directory of the file backend.
	// Env: STORAGE_ARTIFACTS_DIR
	Dir string `env:"DIR"`

	// Bucket is the object storage bucket for the s3 and gcs backends.
	// Env: STORAGE_ARTIFACTS_BUCKET
	Bucket string `env:"BUCKET"`

	// Prefix is prepended to every object key.
	// Env: STORAGE_ARTIFACTS_PREFIX
	Prefix string `env:"PREFIX"`

	// Region is the AWS region (s3 only).
	// Env: STORAGE_ARTIFACTS_REGION
	Region string `env:"REGION"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	// Env: STORAGE_ARTIFACTS_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
}

// Redis configures the optional cross-process append lock. When Address is
// empty appends are serialized in-process only.
type Redis struct {
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`

	// LockTTL bounds how long a crashed writer can hold a log.
	// Env: STORAGE_REDIS_LOCK_TTL
	LockTTL time.Duration `env:"LOCK_TTL"`
}

// Server holds network and timeout settings for the HTTP listener.
type Server struct {
	// HTTPAddress in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Signing describes the node identity source. KeyFile wins over
// Passphrase when both are set.
type Signing struct {
	// KeyFile holds a hex or base64 encoded ed25519 seed or private key.
	// Env: SIGNING_KEY_FILE
	KeyFile string `env:"KEY_FILE"`

	// Passphrase and Salt derive the seed with argon2id.
	// Env: SIGNING_PASSPHRASE, SIGNING_SALT
	Passphrase string `env:"PASSPHRASE"`
	Salt       string `env:"SALT"`

	// TokenTTL is the lifetime of patient portal verification tokens.
	// Env: SIGNING_TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`
}

// Federation holds peer registry and delivery policy.
type Federation struct {
	// RegistryFile is a YAML file listing node ids, public keys and URLs.
	// Env: FEDERATION_REGISTRY_FILE
	RegistryFile string `env:"REGISTRY_FILE"`

	// Env: FEDERATION_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// StaleAfter marks unverified exchanges stale after this long.
	// Env: FEDERATION_STALE_AFTER
	StaleAfter time.Duration `env:"STALE_AFTER"`

	// Env: FEDERATION_RETRY_MAX_ATTEMPTS
	RetryMaxAttempts int `env:"RETRY_MAX_ATTEMPTS"`

	// Env: FEDERATION_RETRY_BASE_DELAY
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"`

	// Env: FEDERATION_RETRY_MAX_DELAY
	RetryMaxDelay time.Duration `env:"RETRY_MAX_DELAY"`

	// HashKey is shared by peers to sign exchange envelopes into the
	// HashSHA256 header. Empty disables the check.
	// Env: FEDERATION_HASH_KEY
	HashKey string `env:"HASH_KEY"`
}

// Insurer configures delivery of claim-audit payloads.
type Insurer struct {
	// BaseURL of the insurer API. Empty disables insurance delivery.
	// Env: INSURER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Env: INSURER_RATE_PER_SECOND
	RatePerSecond float64 `env:"RATE_PER_SECOND"`

	// Env: INSURER_BURST
	Burst int `env:"BURST"`

	// HashKey signs request bodies into the HashSHA256 header.
	// Env: INSURER_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Env: INSURER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds background job intervals. A zero interval disables a job.
type Workers struct {
	// Env: WORKERS_EXCHANGE_SWEEP_INTERVAL
	ExchangeSweepInterval time.Duration `env:"EXCHANGE_SWEEP_INTERVAL"`

	// Env: WORKERS_CHAIN_REBUILD_INTERVAL
	ChainRebuildInterval time.Duration `env:"CHAIN_REBUILD_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the node configuration.
// Sources are merged so that earlier ones win for non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
