// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-proof-ledger/models"
)

// ProofService signs per-note attestations.
type ProofService interface {
	// GenerateProof signs the note input and stores the proof. A note has
	// at most one proof.
	GenerateProof(ctx context.Context, input models.NoteInput) (models.ProofRecord, error)

	// VerifyProof recomputes the signature from the record fields. The
	// stored Verified flag is ignored.
	VerifyProof(ctx context.Context, proof models.ProofRecord) bool

	// GetProof returns the stored proof with Verified recomputed.
	GetProof(ctx context.Context, noteID string) (models.ProofRecord, error)
}

// ProofServiceWrapper decorates a ProofService, e.g. with input validation.
type ProofServiceWrapper interface {
	Wrap(ProofService) ProofService
}

type EvidenceService interface {
	// CreateBundle packages proof, trail and a human-readable summary.
	// Re-running it for the same note overwrites the previous bundle.
	CreateBundle(ctx context.Context, proof models.ProofRecord, trail []models.AuditEvent) (models.BundleLocator, error)
	VerifyBundleExists(ctx context.Context, noteID string) (bool, error)
	LoadBundle(ctx context.Context, noteID string) (models.EvidenceBundle, models.BundleLocator, error)
}

type LedgerService interface {
	// Publish appends the hash of the bundle bytes to the public ledger.
	// Publishing identical bytes twice returns the existing entry.
	Publish(ctx context.Context, locator models.BundleLocator) (models.LedgerEntry, error)

	// Verify re-hashes the bundle and checks exact ledger membership.
	Verify(ctx context.Context, locator models.BundleLocator) (bool, error)

	// Contains reports whether bundleHash was published.
	Contains(ctx context.Context, bundleHash string) (bool, error)

	// LatestEntry returns the most recent entry for noteID.
	LatestEntry(ctx context.Context, noteID string) (models.LedgerEntry, error)

	Entries(ctx context.Context) ([]models.LedgerEntry, error)
	VerifyLog(ctx context.Context) (models.LedgerAudit, error)
}

type ReportService interface {
	// GenerateReport builds, seals and stores the compliance report of a
	// note. It refuses to run without proof, bundle and ledger entry.
	GenerateReport(ctx context.Context, noteID string) (models.ReportArtifacts, error)
	LoadReport(ctx context.Context, noteID string) (models.ReportArtifacts, error)
}

type Sealer interface {
	Seal(noteID, body string) models.SealedReport
	VerifySeal(sealed models.SealedReport) bool
}

type ExportService interface {
	// CreateExportBundle archives every artifact of the note together with
	// a manifest holding one content hash per archived file.
	CreateExportBundle(ctx context.Context, noteID string) (models.ExportBundle, error)

	// ValidateBundle re-verifies an export independently and appends the
	// outcome to the validation ledger. A failed check is returned as a
	// record with Verified=false, not as an error.
	ValidateBundle(ctx context.Context, noteID, regulatorName string) (models.ValidationRecord, error)

	History(ctx context.Context, noteID string) ([]models.ValidationRecord, error)
	Validations(ctx context.Context) ([]models.ValidationRecord, error)
}

type InsuranceService interface {
	// SyncAll delivers one claim-audit payload per validation record not yet
	// synced to insurer.
	SyncAll(ctx context.Context, insurer string) (models.InsuranceSyncResult, error)
	Entries(ctx context.Context) ([]models.InsuranceAuditEntry, error)
}

type DashboardService interface {
	// BuildDashboard joins every per-note artifact and overwrites the
	// stored dashboard.
	BuildDashboard(ctx context.Context) (models.Dashboard, error)

	// LoadDashboard returns the last built dashboard, or an empty one.
	LoadDashboard(ctx context.Context) (models.Dashboard, error)
}

type ChainService interface {
	// BuildLedger rebuilds the block chain from a fresh dashboard and swaps
	// it in atomically.
	BuildLedger(ctx context.Context) ([]models.LedgerBlock, error)
	ValidateLedger(ctx context.Context) (models.ChainValidation, error)
	Blocks(ctx context.Context) ([]models.LedgerBlock, error)
}

type ExchangeService interface {
	CreateBundle(ctx context.Context, request models.ExchangeRequest) (models.ExchangeLocator, error)
	VerifyBundle(ctx context.Context, locator models.ExchangeLocator, expectedSource string) (models.ExchangeBundle, error)

	// ReceiveBundle stores an envelope sent by a peer and verifies it.
	ReceiveBundle(ctx context.Context, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error)

	// Deliver sends a created bundle to its target node.
	Deliver(ctx context.Context, bundleID string) (models.ExchangeBundle, error)

	// SweepStale marks bundles not verified within the stale window.
	SweepStale(ctx context.Context, now time.Time) ([]models.ExchangeBundle, error)

	// Exchanges folds the exchange log into the current bundle states.
	Exchanges(ctx context.Context) ([]models.ExchangeBundle, error)
}

type PortalService interface {
	Regulator(ctx context.Context) (models.RegulatorPortal, error)
	Patient(ctx context.Context, noteID string) (models.PatientView, error)

	// RenderStatic writes regulator.html and one patient/<noteId>.html per
	// chained note below dir.
	RenderStatic(ctx context.Context, dir string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetNodeID(ctx context.Context) string
}
