// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

var errProofMismatch = wrapClass(ErrInvalidInput, "proof does not match the stored proof")

type evidenceService struct {
	proofs    ProofService
	artifacts store.ArtifactStore
	validator validators.Validator

	logger *logger.Logger
}

func NewEvidenceService(proofs ProofService, artifacts store.ArtifactStore, logger *logger.Logger) EvidenceService {
	return &evidenceService{
		proofs:    proofs,
		artifacts: artifacts,
		validator: validators.NewNoteValidator(),
		logger:    logger,
	}
}

// CreateBundle stores evidence/<noteId>/bundle.json and summary.txt. The
// bundle is a pure function of proof and trail, so a retry writes the same
// bytes and keeps the same content hash.
func (e *evidenceService) CreateBundle(ctx context.Context, proof models.ProofRecord, trail []models.AuditEvent) (models.BundleLocator, error) {
	if err := validators.ValidateNoteID(proof.NoteID); err != nil {
		return models.BundleLocator{}, invalidInput(err)
	}
	if err := e.validator.Validate(ctx, trail); err != nil {
		return models.BundleLocator{}, invalidInput(err)
	}

	stored, err := e.proofs.GetProof(ctx, proof.NoteID)
	if err != nil {
		return models.BundleLocator{}, err
	}
	if stored.Signature != proof.Signature {
		return models.BundleLocator{}, errProofMismatch
	}

	if trail == nil {
		trail = []models.AuditEvent{}
	}
	bundle := models.EvidenceBundle{
		NoteID:     stored.NoteID,
		Proof:      stored,
		AuditTrail: trail,
		CreatedAt:  latestEvent(stored.Timestamp, trail),
	}
	bundle.Summary = renderEvidenceSummary(bundle)

	raw, err := crypto.Canonicalize(bundle)
	if err != nil {
		return models.BundleLocator{}, fmt.Errorf("canonicalize bundle: %w", err)
	}

	key := noteKey(evidenceDir, bundle.NoteID, bundleFile)
	if err = e.artifacts.Put(ctx, key, raw); err != nil {
		e.logger.Err(err).Str("func", "*evidenceService.CreateBundle").Str("note_id", bundle.NoteID).Msg("failed to write bundle")
		return models.BundleLocator{}, storageError("write bundle", err)
	}
	if err = e.artifacts.Put(ctx, noteKey(evidenceDir, bundle.NoteID, summaryFile), []byte(bundle.Summary)); err != nil {
		return models.BundleLocator{}, storageError("write summary", err)
	}

	return models.BundleLocator{
		NoteID:      bundle.NoteID,
		Key:         key,
		ContentHash: crypto.DigestHex(raw),
	}, nil
}

func (e *evidenceService) VerifyBundleExists(ctx context.Context, noteID string) (bool, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return false, invalidInput(err)
	}
	ok, err := e.artifacts.Exists(ctx, noteKey(evidenceDir, noteID, bundleFile))
	if err != nil {
		return false, storageError("stat bundle", err)
	}
	return ok, nil
}

func (e *evidenceService) LoadBundle(ctx context.Context, noteID string) (models.EvidenceBundle, models.BundleLocator, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.EvidenceBundle{}, models.BundleLocator{}, invalidInput(err)
	}

	key := noteKey(evidenceDir, noteID, bundleFile)
	var bundle models.EvidenceBundle
	raw, err := readArtifactJSON(ctx, e.artifacts, key, &bundle)
	if errors.Is(err, store.ErrNotFound) {
		return models.EvidenceBundle{}, models.BundleLocator{}, ErrBundleNotFound
	}
	if err != nil {
		return models.EvidenceBundle{}, models.BundleLocator{}, storageError("read bundle", err)
	}

	return bundle, models.BundleLocator{NoteID: noteID, Key: key, ContentHash: crypto.DigestHex(raw)}, nil
}

func latestEvent(start time.Time, trail []models.AuditEvent) time.Time {
	latest := start
	for _, ev := range trail {
		if ev.Timestamp.After(latest) {
			latest = ev.Timestamp
		}
	}
	return latest.UTC()
}

func renderEvidenceSummary(bundle models.EvidenceBundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Evidence bundle for note %s\n", bundle.NoteID)
	fmt.Fprintf(&b, "User: %s\n", bundle.Proof.UserID)
	fmt.Fprintf(&b, "Consent version: %s\n", bundle.Proof.ConsentVersion)
	fmt.Fprintf(&b, "Integrity hash: %s\n", bundle.Proof.IntegrityHash)
	fmt.Fprintf(&b, "Proof signed by %s at %s (verified: %t)\n",
		bundle.Proof.SignerID, models.FormatTimestamp(bundle.Proof.Timestamp), bundle.Proof.Verified)
	fmt.Fprintf(&b, "Signature: %s\n", crypto.Short(bundle.Proof.Signature, 32))

	fmt.Fprintf(&b, "\nAudit trail (%d events)\n", len(bundle.AuditTrail))
	for _, ev := range bundle.AuditTrail {
		fmt.Fprintf(&b, "- %s %s by %s", models.FormatTimestamp(ev.Timestamp), ev.Action, ev.Actor)
		if len(ev.Details) > 0 {
			keys := make([]string, 0, len(ev.Details))
			for k := range ev.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%s", k, ev.Details[k])
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
