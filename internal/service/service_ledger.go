// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

var errLocatorHashMismatch = wrapClass(ErrInvalidInput, "bundle bytes do not match the locator hash")

// ledgerService is the public ledger: an append-only list of bundle hashes.
// It has no update or delete path.
type ledgerService struct {
	log       store.AppendLog
	artifacts store.ArtifactStore
	ids       *utils.UUIDGenerator
	clock     clock

	logger *logger.Logger
}

func NewLedgerService(log store.AppendLog, artifacts store.ArtifactStore, logger *logger.Logger) LedgerService {
	return &ledgerService{
		log:       log,
		artifacts: artifacts,
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

func (l *ledgerService) bundleHash(ctx context.Context, locator models.BundleLocator) (string, error) {
	if err := validators.ValidateNoteID(locator.NoteID); err != nil {
		return "", invalidInput(err)
	}
	if locator.Key == "" {
		return "", invalidInput(store.ErrInvalidKey)
	}

	raw, err := l.artifacts.Get(ctx, locator.Key)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrBundleNotFound
	}
	if err != nil {
		return "", storageError("read bundle", err)
	}
	return crypto.DigestHex(raw), nil
}

func (l *ledgerService) Publish(ctx context.Context, locator models.BundleLocator) (models.LedgerEntry, error) {
	hash, err := l.bundleHash(ctx, locator)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if locator.ContentHash != "" && locator.ContentHash != hash {
		return models.LedgerEntry{}, errLocatorHashMismatch
	}

	var entry models.LedgerEntry
	index, appended, err := l.log.AppendUnique(ctx, "hash/"+hash, func(index uint64) ([]byte, error) {
		entry = models.LedgerEntry{
			ID:         l.ids.Generate(),
			Index:      index,
			NoteID:     locator.NoteID,
			BundleHash: hash,
			Timestamp:  l.clock.now(),
		}
		return json.Marshal(entry)
	})
	if err != nil {
		l.logger.Err(err).Str("func", "*ledgerService.Publish").Str("note_id", locator.NoteID).Msg("failed to append ledger entry")
		return models.LedgerEntry{}, storageError("append ledger entry", err)
	}

	if !appended {
		raw, err := l.log.Get(ctx, index)
		if err != nil {
			return models.LedgerEntry{}, storageError("read ledger entry", err)
		}
		if err = json.Unmarshal(raw, &entry); err != nil {
			return models.LedgerEntry{}, storageError("decode ledger entry", err)
		}
		return entry, nil
	}

	l.logger.Info().Str("note_id", entry.NoteID).Uint64("index", entry.Index).Str("bundle_hash", hash).Msg("bundle published")
	return entry, nil
}

func (l *ledgerService) Verify(ctx context.Context, locator models.BundleLocator) (bool, error) {
	hash, err := l.bundleHash(ctx, locator)
	if err != nil {
		return false, err
	}
	return l.Contains(ctx, hash)
}

// Contains compares full digests only; a prefix never matches.
func (l *ledgerService) Contains(ctx context.Context, bundleHash string) (bool, error) {
	if !crypto.IsHexDigest(bundleHash) {
		return false, nil
	}

	found := false
	err := scanRecords(ctx, l.log, func(_ uint64, entry models.LedgerEntry) error {
		if entry.BundleHash == bundleHash {
			found = true
			return errStopScan
		}
		return nil
	})
	if err != nil {
		return false, storageError("scan ledger", err)
	}
	return found, nil
}

func (l *ledgerService) LatestEntry(ctx context.Context, noteID string) (models.LedgerEntry, error) {
	var (
		latest models.LedgerEntry
		found  bool
	)
	err := scanRecords(ctx, l.log, func(_ uint64, entry models.LedgerEntry) error {
		if entry.NoteID == noteID {
			latest, found = entry, true
		}
		return nil
	})
	if err != nil {
		return models.LedgerEntry{}, storageError("scan ledger", err)
	}
	if !found {
		return models.LedgerEntry{}, ErrLedgerEntryNotFound
	}
	return latest, nil
}

func (l *ledgerService) Entries(ctx context.Context) ([]models.LedgerEntry, error) {
	return readRecords[models.LedgerEntry](ctx, l.log)
}

// VerifyLog walks the whole ledger and reports every structural problem
// instead of stopping at the first one.
func (l *ledgerService) VerifyLog(ctx context.Context) (models.LedgerAudit, error) {
	audit := models.LedgerAudit{Valid: true}
	seen := make(map[string]uint64)

	err := l.log.Scan(ctx, func(index uint64, raw []byte) error {
		audit.Entries++

		var entry models.LedgerEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			audit.Issues = append(audit.Issues, fmt.Sprintf("entry %d: undecodable: %v", index, err))
			return nil
		}
		if entry.Index != index {
			audit.Issues = append(audit.Issues, fmt.Sprintf("entry %d: recorded index %d", index, entry.Index))
		}
		if prev, ok := seen[entry.ID]; ok {
			audit.Issues = append(audit.Issues, fmt.Sprintf("entry %d: id %q already used by entry %d", index, entry.ID, prev))
		} else if entry.ID == "" {
			audit.Issues = append(audit.Issues, fmt.Sprintf("entry %d: empty id", index))
		}
		seen[entry.ID] = index
		if !crypto.IsHexDigest(entry.BundleHash) {
			audit.Issues = append(audit.Issues, fmt.Sprintf("entry %d: malformed bundle hash", index))
		}
		return nil
	})
	if err != nil {
		return models.LedgerAudit{}, storageError("scan ledger", err)
	}

	audit.Valid = len(audit.Issues) == 0
	if !audit.Valid {
		l.logger.Warn().Int("issues", len(audit.Issues)).Msg("public ledger failed verification")
	}
	return audit, nil
}
