// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// validate checks the merged [StructuredConfig] before it is used at
// startup. All violations are reported together.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.App.validate(),
		cfg.Storage.validate(),
		cfg.Server.validate(),
		cfg.Signing.validate(),
		cfg.Federation.validate(),
		cfg.Insurer.validate(),
	)
}

func (a App) validate() error {
	if a.NodeID == "" {
		return fmt.Errorf("%w: node id is required", ErrInvalidAppConfigs)
	}
	return nil
}

func (s Storage) validate() error {
	switch s.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported db driver %q", ErrInvalidStorageConfigs, s.DB.Driver)
	}
	if s.DB.DSN == "" {
		return fmt.Errorf("%w: db dsn is required", ErrInvalidStorageConfigs)
	}
	if s.Logs.Dir == "" {
		return fmt.Errorf("%w: logs dir is required", ErrInvalidStorageConfigs)
	}

	switch s.Artifacts.Backend {
	case BackendFile:
		if s.Artifacts.Dir == "" {
			return fmt.Errorf("%w: artifacts dir is required", ErrInvalidStorageConfigs)
		}
	case BackendS3, BackendGCS:
		if s.Artifacts.Bucket == "" {
			return fmt.Errorf("%w: artifacts bucket is required for %s", ErrInvalidStorageConfigs, s.Artifacts.Backend)
		}
	default:
		return fmt.Errorf("%w: unsupported artifacts backend %q", ErrInvalidStorageConfigs, s.Artifacts.Backend)
	}

	return nil
}

func (s Server) validate() error {
	if s.HTTPAddress == "" || s.RequestTimeout <= 0 {
		return fmt.Errorf("%w: address and request timeout are required", ErrInvalidServerConfigs)
	}
	return nil
}

func (s Signing) validate() error {
	if s.KeyFile == "" && s.Passphrase == "" {
		return fmt.Errorf("%w: key file or passphrase is required", ErrInvalidSigningConfigs)
	}
	if s.KeyFile == "" && s.Salt == "" {
		return fmt.Errorf("%w: salt is required with a passphrase", ErrInvalidSigningConfigs)
	}
	return nil
}

func (f Federation) validate() error {
	if f.RetryMaxAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be positive", ErrInvalidFederationConfigs)
	}
	if f.RetryBaseDelay <= 0 || f.RetryMaxDelay < f.RetryBaseDelay {
		return fmt.Errorf("%w: retry delays must satisfy 0 < base <= max", ErrInvalidFederationConfigs)
	}
	return nil
}

func (i Insurer) validate() error {
	if i.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(i.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: malformed base url %q", ErrInvalidInsurerConfigs, i.BaseURL)
	}
	if i.RatePerSecond <= 0 {
		return fmt.Errorf("%w: rate per second must be positive", ErrInvalidInsurerConfigs)
	}
	return nil
}
