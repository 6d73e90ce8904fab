package http

import (
	"context"
	"time"

	"github.com/MKhiriev/go-proof-ledger/models"
)

// Fn-field fakes of the service interfaces. A nil Fn returns zero values.

type fakeAppInfo struct {
	version string
	nodeID  string
}

func (f *fakeAppInfo) GetAppVersion(context.Context) string { return f.version }
func (f *fakeAppInfo) GetNodeID(context.Context) string     { return f.nodeID }

type fakeProofs struct {
	GenerateFn func(ctx context.Context, input models.NoteInput) (models.ProofRecord, error)
	GetFn      func(ctx context.Context, noteID string) (models.ProofRecord, error)
}

func (f *fakeProofs) GenerateProof(ctx context.Context, input models.NoteInput) (models.ProofRecord, error) {
	if f.GenerateFn == nil {
		return models.ProofRecord{}, nil
	}
	return f.GenerateFn(ctx, input)
}

func (f *fakeProofs) VerifyProof(context.Context, models.ProofRecord) bool { return true }

func (f *fakeProofs) GetProof(ctx context.Context, noteID string) (models.ProofRecord, error) {
	if f.GetFn == nil {
		return models.ProofRecord{NoteID: noteID}, nil
	}
	return f.GetFn(ctx, noteID)
}

type fakeEvidence struct {
	CreateFn func(ctx context.Context, proof models.ProofRecord, trail []models.AuditEvent) (models.BundleLocator, error)
	LoadFn   func(ctx context.Context, noteID string) (models.EvidenceBundle, models.BundleLocator, error)
}

func (f *fakeEvidence) CreateBundle(ctx context.Context, proof models.ProofRecord, trail []models.AuditEvent) (models.BundleLocator, error) {
	if f.CreateFn == nil {
		return models.BundleLocator{NoteID: proof.NoteID}, nil
	}
	return f.CreateFn(ctx, proof, trail)
}

func (f *fakeEvidence) VerifyBundleExists(context.Context, string) (bool, error) { return true, nil }

func (f *fakeEvidence) LoadBundle(ctx context.Context, noteID string) (models.EvidenceBundle, models.BundleLocator, error) {
	if f.LoadFn == nil {
		return models.EvidenceBundle{NoteID: noteID}, models.BundleLocator{NoteID: noteID}, nil
	}
	return f.LoadFn(ctx, noteID)
}

type fakeLedger struct {
	PublishFn func(ctx context.Context, locator models.BundleLocator) (models.LedgerEntry, error)
}

func (f *fakeLedger) Publish(ctx context.Context, locator models.BundleLocator) (models.LedgerEntry, error) {
	if f.PublishFn == nil {
		return models.LedgerEntry{NoteID: locator.NoteID}, nil
	}
	return f.PublishFn(ctx, locator)
}

func (f *fakeLedger) Verify(context.Context, models.BundleLocator) (bool, error) { return true, nil }
func (f *fakeLedger) Contains(context.Context, string) (bool, error)             { return true, nil }
func (f *fakeLedger) LatestEntry(_ context.Context, noteID string) (models.LedgerEntry, error) {
	return models.LedgerEntry{NoteID: noteID}, nil
}
func (f *fakeLedger) Entries(context.Context) ([]models.LedgerEntry, error) { return nil, nil }
func (f *fakeLedger) VerifyLog(context.Context) (models.LedgerAudit, error) {
	return models.LedgerAudit{}, nil
}

type fakeExports struct {
	ValidateFn func(ctx context.Context, noteID, regulatorName string) (models.ValidationRecord, error)
}

func (f *fakeExports) CreateExportBundle(_ context.Context, noteID string) (models.ExportBundle, error) {
	return models.ExportBundle{NoteID: noteID}, nil
}

func (f *fakeExports) ValidateBundle(ctx context.Context, noteID, regulatorName string) (models.ValidationRecord, error) {
	if f.ValidateFn == nil {
		return models.ValidationRecord{NoteID: noteID, RegulatorName: regulatorName}, nil
	}
	return f.ValidateFn(ctx, noteID, regulatorName)
}

func (f *fakeExports) History(context.Context, string) ([]models.ValidationRecord, error) {
	return nil, nil
}
func (f *fakeExports) Validations(context.Context) ([]models.ValidationRecord, error) {
	return nil, nil
}

type fakeInsurance struct {
	SyncFn func(ctx context.Context, insurer string) (models.InsuranceSyncResult, error)
}

func (f *fakeInsurance) SyncAll(ctx context.Context, insurer string) (models.InsuranceSyncResult, error) {
	if f.SyncFn == nil {
		return models.InsuranceSyncResult{Insurer: insurer}, nil
	}
	return f.SyncFn(ctx, insurer)
}

func (f *fakeInsurance) Entries(context.Context) ([]models.InsuranceAuditEntry, error) {
	return nil, nil
}

type fakeDashboard struct{}

func (fakeDashboard) BuildDashboard(context.Context) (models.Dashboard, error) {
	return models.Dashboard{}, nil
}
func (fakeDashboard) LoadDashboard(context.Context) (models.Dashboard, error) {
	return models.Dashboard{}, nil
}

type fakeChain struct {
	ValidateFn func(ctx context.Context) (models.ChainValidation, error)
}

func (f *fakeChain) BuildLedger(context.Context) ([]models.LedgerBlock, error) { return nil, nil }
func (f *fakeChain) Blocks(context.Context) ([]models.LedgerBlock, error)      { return nil, nil }
func (f *fakeChain) ValidateLedger(ctx context.Context) (models.ChainValidation, error) {
	if f.ValidateFn == nil {
		return models.ChainValidation{Valid: true, FailedIndex: -1}, nil
	}
	return f.ValidateFn(ctx)
}

type fakeExchanges struct {
	CreateFn  func(ctx context.Context, request models.ExchangeRequest) (models.ExchangeLocator, error)
	ReceiveFn func(ctx context.Context, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error)
	DeliverFn func(ctx context.Context, bundleID string) (models.ExchangeBundle, error)
}

func (f *fakeExchanges) CreateBundle(ctx context.Context, request models.ExchangeRequest) (models.ExchangeLocator, error) {
	if f.CreateFn == nil {
		return models.ExchangeLocator{}, nil
	}
	return f.CreateFn(ctx, request)
}

func (f *fakeExchanges) VerifyBundle(_ context.Context, locator models.ExchangeLocator, _ string) (models.ExchangeBundle, error) {
	return models.ExchangeBundle{ID: locator.BundleID}, nil
}

func (f *fakeExchanges) ReceiveBundle(ctx context.Context, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error) {
	if f.ReceiveFn == nil {
		return envelope.Bundle, nil
	}
	return f.ReceiveFn(ctx, envelope)
}

func (f *fakeExchanges) Deliver(ctx context.Context, bundleID string) (models.ExchangeBundle, error) {
	if f.DeliverFn == nil {
		return models.ExchangeBundle{ID: bundleID}, nil
	}
	return f.DeliverFn(ctx, bundleID)
}

func (f *fakeExchanges) SweepStale(context.Context, time.Time) ([]models.ExchangeBundle, error) {
	return nil, nil
}
func (f *fakeExchanges) Exchanges(context.Context) ([]models.ExchangeBundle, error) {
	return nil, nil
}

type fakePortal struct {
	PatientFn func(ctx context.Context, noteID string) (models.PatientView, error)
}

func (f *fakePortal) Regulator(context.Context) (models.RegulatorPortal, error) {
	return models.RegulatorPortal{NodeID: "clinic-a"}, nil
}

func (f *fakePortal) Patient(ctx context.Context, noteID string) (models.PatientView, error) {
	if f.PatientFn == nil {
		return models.PatientView{NoteID: noteID}, nil
	}
	return f.PatientFn(ctx, noteID)
}

func (f *fakePortal) RenderStatic(context.Context, string) error { return nil }

type fakeReports struct {
	GenerateFn func(ctx context.Context, noteID string) (models.ReportArtifacts, error)
}

func (f *fakeReports) GenerateReport(ctx context.Context, noteID string) (models.ReportArtifacts, error) {
	if f.GenerateFn == nil {
		return models.ReportArtifacts{}, nil
	}
	return f.GenerateFn(ctx, noteID)
}

func (f *fakeReports) LoadReport(context.Context, string) (models.ReportArtifacts, error) {
	return models.ReportArtifacts{}, nil
}
