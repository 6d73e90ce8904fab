// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

const artifactKindEvidence = "evidence_bundle"

type dashboardService struct {
	repository  store.ProofRepository
	proofs      ProofService
	reports     ReportService
	artifacts   store.ArtifactStore
	validations store.AppendLog
	insurance   store.AppendLog
	clock       clock

	logger *logger.Logger
}

func NewDashboardService(
	repository store.ProofRepository,
	proofs ProofService,
	reports ReportService,
	artifacts store.ArtifactStore,
	validations store.AppendLog,
	insurance store.AppendLog,
	logger *logger.Logger,
) DashboardService {
	return &dashboardService{
		repository:  repository,
		proofs:      proofs,
		reports:     reports,
		artifacts:   artifacts,
		validations: validations,
		insurance:   insurance,
		logger:      logger,
	}
}

// BuildDashboard joins proofs, compliance reports, evidence bundles, the
// latest regulator validation and the latest insurance record of every note
// known to any of those sources. A note missing an artifact still gets an
// entry with that field left nil.
func (d *dashboardService) BuildDashboard(ctx context.Context) (models.Dashboard, error) {
	entries := make(map[string]*models.DashboardEntry)
	entry := func(noteID string) *models.DashboardEntry {
		e, ok := entries[noteID]
		if !ok {
			e = &models.DashboardEntry{NoteID: noteID}
			entries[noteID] = e
		}
		return e
	}

	proofs, err := d.repository.ListProofs(ctx)
	if err != nil {
		d.logger.Err(err).Str("func", "*dashboardService.BuildDashboard").Msg("failed to list proofs")
		return models.Dashboard{}, storageError("list proofs", err)
	}
	for _, proof := range proofs {
		proof.Verified = d.proofs.VerifyProof(ctx, proof)
		entry(proof.NoteID).Proof = &proof
	}

	err = scanRecords(ctx, d.validations, func(_ uint64, record models.ValidationRecord) error {
		// later records win
		entry(record.NoteID).RegulatorValidation = &record
		return nil
	})
	if err != nil {
		return models.Dashboard{}, storageError("scan validations", err)
	}

	err = scanRecords(ctx, d.insurance, func(_ uint64, record models.InsuranceAuditEntry) error {
		entry(record.NoteID).InsuranceRecord = &record
		return nil
	})
	if err != nil {
		return models.Dashboard{}, storageError("scan insurance log", err)
	}

	for noteID, e := range entries {
		if err = d.attachArtifacts(ctx, noteID, e); err != nil {
			return models.Dashboard{}, err
		}
		e.Timestamp = entryTimestamp(e)
	}

	dashboard := models.Dashboard{
		GeneratedAt: d.clock.now(),
		Entries:     make([]models.DashboardEntry, 0, len(entries)),
	}
	for _, e := range entries {
		dashboard.Entries = append(dashboard.Entries, *e)
	}
	sort.Slice(dashboard.Entries, func(i, j int) bool {
		return dashboard.Entries[i].NoteID < dashboard.Entries[j].NoteID
	})

	if _, err = writeArtifactJSON(ctx, d.artifacts, dashboardKey, dashboard); err != nil {
		d.logger.Err(err).Str("func", "*dashboardService.BuildDashboard").Msg("failed to write dashboard")
		return models.Dashboard{}, err
	}

	d.logger.Info().Int("entries", len(dashboard.Entries)).Msg("dashboard built")
	return dashboard, nil
}

func (d *dashboardService) attachArtifacts(ctx context.Context, noteID string, e *models.DashboardEntry) error {
	report, err := d.reports.LoadReport(ctx, noteID)
	switch {
	case err == nil:
		e.ComplianceReport = &report.Report
	case !errors.Is(err, ErrReportNotFound):
		return err
	}

	key := noteKey(evidenceDir, noteID, bundleFile)
	raw, err := d.artifacts.Get(ctx, key)
	switch {
	case err == nil:
		e.AuditArtifactRef = &models.ArtifactRef{
			Kind:        artifactKindEvidence,
			Key:         key,
			ContentHash: crypto.DigestHex(raw),
		}
	case !errors.Is(err, store.ErrNotFound):
		return storageError("read "+key, err)
	}
	return nil
}

// entryTimestamp is the proof timestamp, or the earliest timestamp of the
// other artifacts when the note has no proof.
func entryTimestamp(e *models.DashboardEntry) time.Time {
	if e.Proof != nil {
		return e.Proof.Timestamp
	}

	var candidates []time.Time
	if e.ComplianceReport != nil {
		candidates = append(candidates, e.ComplianceReport.GeneratedAt)
	}
	if e.RegulatorValidation != nil {
		candidates = append(candidates, e.RegulatorValidation.Timestamp)
	}
	if e.InsuranceRecord != nil {
		candidates = append(candidates, e.InsuranceRecord.Timestamp)
	}

	var earliest time.Time
	for _, t := range candidates {
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

func (d *dashboardService) LoadDashboard(ctx context.Context) (models.Dashboard, error) {
	var dashboard models.Dashboard
	_, err := readArtifactJSON(ctx, d.artifacts, dashboardKey, &dashboard)
	if errors.Is(err, store.ErrNotFound) {
		return models.Dashboard{Entries: make([]models.DashboardEntry, 0)}, nil
	}
	if err != nil {
		return models.Dashboard{}, storageError("read dashboard", err)
	}
	return dashboard, nil
}
