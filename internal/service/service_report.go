// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type reportService struct {
	proofs    ProofService
	evidence  EvidenceService
	ledger    LedgerService
	sealer    Sealer
	artifacts store.ArtifactStore
	clock     clock

	logger *logger.Logger
}

func NewReportService(
	proofs ProofService,
	evidence EvidenceService,
	ledger LedgerService,
	sealer Sealer,
	artifacts store.ArtifactStore,
	logger *logger.Logger,
) ReportService {
	return &reportService{
		proofs:    proofs,
		evidence:  evidence,
		ledger:    ledger,
		sealer:    sealer,
		artifacts: artifacts,
		logger:    logger,
	}
}

// GenerateReport reads every input from the stores, so a report can only
// describe artifacts that exist.
func (r *reportService) GenerateReport(ctx context.Context, noteID string) (models.ReportArtifacts, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.ReportArtifacts{}, invalidInput(err)
	}

	proof, err := r.proofs.GetProof(ctx, noteID)
	if err != nil {
		return models.ReportArtifacts{}, err
	}
	bundle, locator, err := r.evidence.LoadBundle(ctx, noteID)
	if err != nil {
		return models.ReportArtifacts{}, err
	}
	entry, err := r.ledger.LatestEntry(ctx, noteID)
	if err != nil {
		return models.ReportArtifacts{}, err
	}
	ledgerVerified, err := r.ledger.Verify(ctx, locator)
	if err != nil {
		return models.ReportArtifacts{}, err
	}

	report := models.ComplianceReport{
		NoteID:            noteID,
		UserID:            proof.UserID,
		ConsentVersion:    proof.ConsentVersion,
		Proof:             proof,
		LedgerEntry:       entry,
		AuditTrail:        bundle.AuditTrail,
		IntegrityVerified: r.proofs.VerifyProof(ctx, proof),
		LedgerVerified:    ledgerVerified,
		GeneratedAt:       r.clock.now(),
	}
	body := renderComplianceReport(report)
	artifacts := models.ReportArtifacts{
		Report: report,
		Sealed: r.sealer.Seal(noteID, body),
	}

	if _, err = writeArtifactJSON(ctx, r.artifacts, noteKey(reportsDir, noteID, reportFile), artifacts.Report); err != nil {
		r.logger.Err(err).Str("func", "*reportService.GenerateReport").Str("note_id", noteID).Msg("failed to write report")
		return models.ReportArtifacts{}, err
	}
	if err = r.artifacts.Put(ctx, noteKey(reportsDir, noteID, reportText), []byte(body)); err != nil {
		return models.ReportArtifacts{}, storageError("write report text", err)
	}
	if _, err = writeArtifactJSON(ctx, r.artifacts, noteKey(reportsDir, noteID, sealedFile), artifacts.Sealed); err != nil {
		return models.ReportArtifacts{}, err
	}

	if !report.IntegrityVerified || !report.LedgerVerified {
		r.logger.Warn().
			Str("note_id", noteID).
			Bool("integrity_verified", report.IntegrityVerified).
			Bool("ledger_verified", report.LedgerVerified).
			Msg("compliance report generated with failed checks")
	}

	return artifacts, nil
}

func (r *reportService) LoadReport(ctx context.Context, noteID string) (models.ReportArtifacts, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.ReportArtifacts{}, invalidInput(err)
	}

	var out models.ReportArtifacts
	for key, dst := range map[string]any{
		noteKey(reportsDir, noteID, reportFile): &out.Report,
		noteKey(reportsDir, noteID, sealedFile): &out.Sealed,
	} {
		_, err := readArtifactJSON(ctx, r.artifacts, key, dst)
		if errors.Is(err, store.ErrNotFound) {
			return models.ReportArtifacts{}, ErrReportNotFound
		}
		if err != nil {
			return models.ReportArtifacts{}, storageError("read report", err)
		}
	}
	return out, nil
}

func checkMark(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func renderComplianceReport(r models.ComplianceReport) string {
	var b strings.Builder

	b.WriteString("COMPLIANCE REPORT\n")
	fmt.Fprintf(&b, "Note:             %s\n", r.NoteID)
	fmt.Fprintf(&b, "User:             %s\n", r.UserID)
	fmt.Fprintf(&b, "Consent version:  %s\n", r.ConsentVersion)
	fmt.Fprintf(&b, "Generated at:     %s\n\n", models.FormatTimestamp(r.GeneratedAt))

	fmt.Fprintf(&b, "Integrity proof   [%s]\n", checkMark(r.IntegrityVerified))
	fmt.Fprintf(&b, "  integrity hash  %s\n", r.Proof.IntegrityHash)
	fmt.Fprintf(&b, "  signed by       %s at %s\n", r.Proof.SignerID, models.FormatTimestamp(r.Proof.Timestamp))
	fmt.Fprintf(&b, "  signature       %s\n\n", crypto.Short(r.Proof.Signature, 32))

	fmt.Fprintf(&b, "Ledger entry      [%s]\n", checkMark(r.LedgerVerified))
	fmt.Fprintf(&b, "  entry           %s (#%d)\n", r.LedgerEntry.ID, r.LedgerEntry.Index)
	fmt.Fprintf(&b, "  bundle hash     %s\n", r.LedgerEntry.BundleHash)
	fmt.Fprintf(&b, "  published at    %s\n\n", models.FormatTimestamp(r.LedgerEntry.Timestamp))

	fmt.Fprintf(&b, "Audit trail (%d events)\n", len(r.AuditTrail))
	for _, ev := range r.AuditTrail {
		fmt.Fprintf(&b, "  %s  %-20s %s\n", models.FormatTimestamp(ev.Timestamp), ev.Action, ev.Actor)
	}

	return b.String()
}
