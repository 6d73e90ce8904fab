// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// Artifact key layout. Every per-note artifact lives below <dir>/<noteId>/.
const (
	evidenceDir  = "evidence"
	reportsDir   = "reports"
	exportsDir   = "exports"
	exchangeDir  = "exchange"
	dashboardKey = "dashboard/dashboard.json"

	bundleFile   = "bundle.json"
	summaryFile  = "summary.txt"
	reportFile   = "report.json"
	reportText   = "report.txt"
	sealedFile   = "sealed.json"
	archiveFile  = "archive.zip"
	manifestFile = "manifest.json"
	exportFile   = "export.json"
	envelopeFile = "envelope.json"
)

func noteKey(dir, noteID, name string) string {
	return path.Join(dir, noteID, name)
}

// clock is the time source of every service. Tests pin it.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return models.Now()
	}
	return c().UTC()
}

// errStopScan ends a log scan early without reporting an error.
var errStopScan = errors.New("stop scan")

// scanRecords decodes every record of log into T in append order.
func scanRecords[T any](ctx context.Context, log store.AppendLog, fn func(index uint64, record T) error) error {
	err := log.Scan(ctx, func(index uint64, raw []byte) error {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("%w: decode %s[%d]: %w", store.ErrLogCorrupted, log.Name(), index, err)
		}
		return fn(index, record)
	})
	if errors.Is(err, errStopScan) {
		return nil
	}
	return err
}

func readRecords[T any](ctx context.Context, log store.AppendLog) ([]T, error) {
	records := make([]T, 0)
	err := scanRecords(ctx, log, func(_ uint64, record T) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, storageError("read "+log.Name(), err)
	}
	return records, nil
}

func readArtifactJSON(ctx context.Context, artifacts store.ArtifactStore, key string, v any) ([]byte, error) {
	raw, err := artifacts.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return raw, nil
}

func writeArtifactJSON(ctx context.Context, artifacts store.ArtifactStore, key string, v any) ([]byte, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	if err = artifacts.Put(ctx, key, raw); err != nil {
		return nil, storageError("write "+key, err)
	}
	return raw, nil
}
