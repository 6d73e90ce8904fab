// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
)

// NewArtifactStore builds the backend selected by cfg.Backend.
func NewArtifactStore(ctx context.Context, cfg config.Artifacts) (ArtifactStore, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Dir)
	case config.BackendS3:
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
	case config.BackendGCS:
		return NewGCSStore(ctx, GCSStoreConfig{
			Bucket: cfg.Bucket,
			Prefix: cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
