// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate]. Each one is
// joined with a message naming the offending field.
var (
	// ErrInvalidAppConfigs indicates a missing node id or a bad log level.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an unsupported driver or backend,
	// or a missing DSN, directory or bucket.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSigningConfigs indicates that no key source was configured.
	ErrInvalidSigningConfigs = errors.New("invalid signing configuration")
	// ErrInvalidFederationConfigs indicates a broken retry policy.
	ErrInvalidFederationConfigs = errors.New("invalid federation configuration")
	// ErrInvalidInsurerConfigs indicates a malformed insurer URL or rate.
	ErrInvalidInsurerConfigs = errors.New("invalid insurer configuration")
)
