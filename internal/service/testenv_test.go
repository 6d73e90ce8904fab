// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// memProofRepository is an in-memory [store.ProofRepository]. The Fn fields
// override the default behaviour when set.
type memProofRepository struct {
	mu     sync.Mutex
	proofs map[string]models.ProofRecord

	CreateProofFn func(ctx context.Context, proof models.ProofRecord) error
	ListProofsFn  func(ctx context.Context) ([]models.ProofRecord, error)
}

func newMemProofRepository() *memProofRepository {
	return &memProofRepository{proofs: make(map[string]models.ProofRecord)}
}

func (m *memProofRepository) CreateProof(ctx context.Context, proof models.ProofRecord) error {
	if m.CreateProofFn != nil {
		return m.CreateProofFn(ctx, proof)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.proofs[proof.NoteID]; ok {
		return store.ErrAlreadyExists
	}
	proof.Verified = false
	m.proofs[proof.NoteID] = proof
	return nil
}

func (m *memProofRepository) FindProofByNoteID(_ context.Context, noteID string) (models.ProofRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	proof, ok := m.proofs[noteID]
	if !ok {
		return models.ProofRecord{}, store.ErrNotFound
	}
	return proof, nil
}

func (m *memProofRepository) ListProofs(ctx context.Context) ([]models.ProofRecord, error) {
	if m.ListProofsFn != nil {
		return m.ListProofsFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proofs := make([]models.ProofRecord, 0, len(m.proofs))
	for _, p := range m.proofs {
		proofs = append(proofs, p)
	}
	sort.Slice(proofs, func(i, j int) bool { return proofs[i].NoteID < proofs[j].NoteID })
	return proofs, nil
}

// tamper rewrites a stored proof behind the service's back.
func (m *memProofRepository) tamper(noteID string, fn func(*models.ProofRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.proofs[noteID]
	fn(&p)
	m.proofs[noteID] = p
}

// memLog is an in-memory [store.AppendLog]. A non-nil AppendErr fails every
// append.
type memLog struct {
	mu      sync.Mutex
	name    string
	records [][]byte
	keys    map[string]uint64

	AppendErr error
}

func newMemLog(name string) *memLog {
	return &memLog{name: name, keys: make(map[string]uint64)}
}

func (m *memLog) Name() string { return m.name }

func (m *memLog) Append(ctx context.Context, build store.RecordBuilder) (uint64, error) {
	index, _, err := m.AppendUnique(ctx, "", build)
	return index, err
}

func (m *memLog) AppendUnique(_ context.Context, key string, build store.RecordBuilder) (uint64, bool, error) {
	if m.AppendErr != nil {
		return 0, false, m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if index, ok := m.keys[key]; ok && key != "" {
		return index, false, nil
	}
	index := uint64(len(m.records))
	record, err := build(index)
	if err != nil {
		return 0, false, err
	}
	m.records = append(m.records, record)
	if key != "" {
		m.keys[key] = index
	}
	return index, true, nil
}

func (m *memLog) Get(_ context.Context, index uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index >= uint64(len(m.records)) {
		return nil, store.ErrNotFound
	}
	return m.records[index], nil
}

func (m *memLog) Len(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.records)), nil
}

func (m *memLog) Scan(_ context.Context, fn func(index uint64, record []byte) error) error {
	m.mu.Lock()
	records := append([][]byte(nil), m.records...)
	m.mu.Unlock()
	for i, r := range records {
		if err := fn(uint64(i), r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memLog) HasKey(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[key]
	return ok, nil
}

// steppingClock advances one second on every read, so records written in
// sequence have distinct, ordered timestamps.
func steppingClock(start time.Time) clock {
	var ticks atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

func newTestIdentity(t *testing.T, nodeID string, seedByte byte) *crypto.Identity {
	t.Helper()
	id, err := crypto.NewIdentityFromSeed(nodeID, bytes.Repeat([]byte{seedByte}, 32))
	require.NoError(t, err)
	return id
}

type testNode struct {
	identity  *crypto.Identity
	registry  *crypto.Registry
	proofs    *memProofRepository
	artifacts *store.FileStore
	storages  *store.Storages
	services  *Services
}

type nodeOptions struct {
	insurer  adapter.InsurerTransport
	peer     adapter.PeerTransport
	registry *crypto.Registry
	seed     byte
	nodeID   string
}

// newTestNode wires a full service graph over a LevelDB and a file artifact
// store in t.TempDir().
func newTestNode(t *testing.T, opts nodeOptions) *testNode {
	t.Helper()

	if opts.nodeID == "" {
		opts.nodeID = "clinic-a"
	}
	if opts.seed == 0 {
		opts.seed = 1
	}
	if opts.insurer == nil {
		opts.insurer = adapter.NewLoopbackInsurer()
	}
	if opts.registry == nil {
		opts.registry = crypto.NewRegistry()
	}

	identity := newTestIdentity(t, opts.nodeID, opts.seed)

	db, err := store.OpenLevelDB(t.TempDir(), nil, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	artifacts, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	proofs := newMemProofRepository()
	storages := &store.Storages{
		ProofRepository:  proofs,
		Artifacts:        artifacts,
		PublicLedger:     db.Log(store.LogPublicLedger),
		ValidationLedger: db.Log(store.LogValidationLedger),
		InsuranceLog:     db.Log(store.LogInsurance),
		ExchangeLog:      db.Log(store.LogExchange),
		Chain:            db.Chain(),
	}

	cfg := config.StructuredConfig{
		App:        config.App{NodeID: opts.nodeID, RegulatorName: "state-board", Version: "test"},
		Signing:    config.Signing{TokenTTL: time.Hour},
		Federation: config.Federation{StaleAfter: 10 * time.Minute},
	}

	services, err := NewServices(storages, identity, opts.registry, opts.insurer, opts.peer, cfg, logger.Nop())
	require.NoError(t, err)
	pinClock(services, steppingClock(testEpoch))

	return &testNode{
		identity:  identity,
		registry:  opts.registry,
		proofs:    proofs,
		artifacts: artifacts,
		storages:  storages,
		services:  services,
	}
}

func pinClock(s *Services, c clock) {
	s.ProofService.(*ProofValidationService).inner.(*proofService).clock = c
	s.LedgerService.(*ledgerService).clock = c
	s.ReportService.(*reportService).clock = c
	s.ReportService.(*reportService).sealer.(*sealer).clock = c
	s.ExportService.(*exportService).clock = c
	s.InsuranceService.(*insuranceService).clock = c
	s.DashboardService.(*dashboardService).clock = c
	s.ExchangeService.(*exchangeService).clock = c
	s.PortalService.(*portalService).clock = c
}

func sampleTrail() []models.AuditEvent {
	return []models.AuditEvent{
		{Action: "note.finalized", Actor: "dr-lee", Timestamp: testEpoch},
		{Action: "note.signed", Actor: "dr-lee", Timestamp: testEpoch.Add(time.Minute)},
	}
}

// proveNote runs proof -> evidence bundle -> ledger publish.
func (n *testNode) proveNote(t *testing.T, noteID string) (models.ProofRecord, models.BundleLocator) {
	t.Helper()
	ctx := context.Background()

	proof, err := n.services.ProofService.GenerateProof(ctx, models.NoteInput{
		UserID:         "u-" + noteID,
		NoteID:         noteID,
		IntegrityHash:  "h-" + noteID,
		ConsentVersion: "1.1",
	})
	require.NoError(t, err)

	locator, err := n.services.EvidenceService.CreateBundle(ctx, proof, sampleTrail())
	require.NoError(t, err)

	_, err = n.services.LedgerService.Publish(ctx, locator)
	require.NoError(t, err)

	return proof, locator
}

// exportNote continues proveNote through report and regulator export.
func (n *testNode) exportNote(t *testing.T, noteID string) models.ExportBundle {
	t.Helper()
	ctx := context.Background()

	n.proveNote(t, noteID)
	_, err := n.services.ReportService.GenerateReport(ctx, noteID)
	require.NoError(t, err)

	export, err := n.services.ExportService.CreateExportBundle(ctx, noteID)
	require.NoError(t, err)
	return export
}

// validateNote runs the full per-note pipeline up to the validation ledger.
func (n *testNode) validateNote(t *testing.T, noteID string) models.ValidationRecord {
	t.Helper()

	n.exportNote(t, noteID)
	record, err := n.services.ExportService.ValidateBundle(context.Background(), noteID, "")
	require.NoError(t, err)
	return record
}
