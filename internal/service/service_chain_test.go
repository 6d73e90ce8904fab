// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// memChain is an in-memory [store.ChainStore].
type memChain struct {
	mu     sync.Mutex
	blocks [][]byte
}

func (m *memChain) ReplaceChain(_ context.Context, blocks [][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = append([][]byte(nil), blocks...)
	return nil
}

func (m *memChain) Blocks(_ context.Context) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.blocks...), nil
}

func (m *memChain) Block(_ context.Context, index uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index >= uint64(len(m.blocks)) {
		return nil, store.ErrNotFound
	}
	return m.blocks[index], nil
}

func (m *memChain) Len(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.blocks)), nil
}

func proveOnly(t *testing.T, node *testNode, noteIDs ...string) {
	t.Helper()
	for _, id := range noteIDs {
		_, err := node.services.ProofService.GenerateProof(context.Background(), models.NoteInput{
			UserID: "u1", NoteID: id, IntegrityHash: "h-" + id, ConsentVersion: "1.1",
		})
		require.NoError(t, err)
	}
}

// corruptBlock rewrites block k of the persisted chain through mutate.
func corruptBlock(t *testing.T, chain store.ChainStore, k int, mutate func(*models.LedgerBlock)) {
	t.Helper()
	ctx := context.Background()

	raw, err := chain.Blocks(ctx)
	require.NoError(t, err)

	var block models.LedgerBlock
	require.NoError(t, json.Unmarshal(raw[k], &block))
	mutate(&block)
	raw[k], err = json.Marshal(block)
	require.NoError(t, err)

	require.NoError(t, chain.ReplaceChain(ctx, raw))
}

// ─────────────────────────────────────────────
// DashboardService
// ─────────────────────────────────────────────

func TestBuildDashboard_JoinsArtifactsPerNote(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()

	node.validateNote(t, "n2")
	node.proveNote(t, "n1")
	proveOnly(t, node, "n3")
	_, err := node.services.InsuranceService.SyncAll(ctx, "acme")
	require.NoError(t, err)

	dashboard, err := node.services.DashboardService.BuildDashboard(ctx)
	require.NoError(t, err)
	require.Len(t, dashboard.Entries, 3)

	assert.Equal(t, "n1", dashboard.Entries[0].NoteID)
	assert.Equal(t, "n2", dashboard.Entries[1].NoteID)
	assert.Equal(t, "n3", dashboard.Entries[2].NoteID)

	full := dashboard.Entries[1]
	require.NotNil(t, full.Proof)
	assert.True(t, full.Proof.Verified)
	require.NotNil(t, full.ComplianceReport)
	require.NotNil(t, full.AuditArtifactRef)
	assert.Equal(t, "evidence/n2/bundle.json", full.AuditArtifactRef.Key)
	require.NotNil(t, full.RegulatorValidation)
	assert.True(t, full.RegulatorValidation.Verified)
	require.NotNil(t, full.InsuranceRecord)
	assert.Equal(t, full.Proof.Timestamp, full.Timestamp)

	partial := dashboard.Entries[0]
	assert.NotNil(t, partial.AuditArtifactRef)
	assert.Nil(t, partial.ComplianceReport)
	assert.Nil(t, partial.RegulatorValidation)
	assert.Nil(t, partial.InsuranceRecord)

	bare := dashboard.Entries[2]
	assert.NotNil(t, bare.Proof)
	assert.Nil(t, bare.AuditArtifactRef)

	loaded, err := node.services.DashboardService.LoadDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Entries, loaded.Entries)
}

func TestBuildDashboard_FailedProofIsPresentNotAbsent(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()
	proveOnly(t, node, "n1")
	node.proofs.tamper("n1", func(p *models.ProofRecord) { p.ConsentVersion = "9.9" })

	dashboard, err := node.services.DashboardService.BuildDashboard(ctx)
	require.NoError(t, err)

	require.Len(t, dashboard.Entries, 1)
	require.NotNil(t, dashboard.Entries[0].Proof)
	assert.False(t, dashboard.Entries[0].Proof.Verified)
}

func TestBuildDashboard_LatestValidationWins(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()
	node.validateNote(t, "n1")

	latest, err := node.services.ExportService.ValidateBundle(ctx, "n1", "second-board")
	require.NoError(t, err)

	dashboard, err := node.services.DashboardService.BuildDashboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Entries[0].RegulatorValidation)
	assert.Equal(t, latest.ID, dashboard.Entries[0].RegulatorValidation.ID)
}

func TestLoadDashboard_EmptyBeforeFirstBuild(t *testing.T) {
	node := newTestNode(t, nodeOptions{})

	dashboard, err := node.services.DashboardService.LoadDashboard(context.Background())

	require.NoError(t, err)
	assert.Empty(t, dashboard.Entries)
}

func TestEntryTimestamp_WithoutProofUsesEarliestArtifact(t *testing.T) {
	entry := &models.DashboardEntry{
		RegulatorValidation: &models.ValidationRecord{Timestamp: testEpoch.Add(2 * time.Minute)},
		InsuranceRecord:     &models.InsuranceAuditEntry{Timestamp: testEpoch.Add(time.Minute)},
	}

	assert.Equal(t, testEpoch.Add(time.Minute), entryTimestamp(entry))
}

// ─────────────────────────────────────────────
// ChainService
// ─────────────────────────────────────────────

func TestBuildLedger_ScenarioC(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()
	proveOnly(t, node, "n3", "n1", "n2")

	blocks, err := node.services.ChainService.BuildLedger(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, models.ZeroHash, blocks[0].PrevHash)
	assert.Equal(t, blocks[0].BlockHash, blocks[1].PrevHash)
	assert.Equal(t, blocks[1].BlockHash, blocks[2].PrevHash)
	assert.Equal(t, []string{"n1", "n2", "n3"}, []string{blocks[0].NoteID, blocks[1].NoteID, blocks[2].NoteID})

	result, err := node.services.ChainService.ValidateLedger(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Length)
	assert.Equal(t, int64(-1), result.FailedIndex)

	stored, err := node.services.ChainService.Blocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, blocks, stored)
}

func TestBuildLedger_RecordHashCommitsToDashboardEntry(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()
	proveOnly(t, node, "n1")

	blocks, err := node.services.ChainService.BuildLedger(ctx)
	require.NoError(t, err)
	dashboard, err := node.services.DashboardService.LoadDashboard(ctx)
	require.NoError(t, err)

	want, err := crypto.CanonicalHash(dashboard.Entries[0])
	require.NoError(t, err)
	assert.Equal(t, want, blocks[0].RecordHash)
	assert.True(t, node.identity.Verify([]byte(blocks[0].BlockHash), blocks[0].Signature))
}

func TestBuildLedger_RebuildIsStable(t *testing.T) {
	node := newTestNode(t, nodeOptions{})
	ctx := context.Background()
	proveOnly(t, node, "n1", "n2")

	first, err := node.services.ChainService.BuildLedger(ctx)
	require.NoError(t, err)
	second, err := node.services.ChainService.BuildLedger(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateLedger_EmptyChainIsValid(t *testing.T) {
	node := newTestNode(t, nodeOptions{})

	result, err := node.services.ChainService.ValidateLedger(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Zero(t, result.Length)
}

func TestValidateLedger_DetectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		k      int
		mutate func(*models.LedgerBlock)
		reason string
	}{
		{name: "record hash", k: 1, mutate: func(b *models.LedgerBlock) { b.RecordHash = strings.Repeat("f", 64) }, reason: "block hash"},
		{name: "broken link", k: 2, mutate: func(b *models.LedgerBlock) { b.PrevHash = models.ZeroHash }, reason: "prev hash"},
		{name: "index", k: 0, mutate: func(b *models.LedgerBlock) { b.Index = 7 }, reason: "index"},
		{name: "signature", k: 2, mutate: func(b *models.LedgerBlock) { b.Signature = strings.Repeat("00", 64) }, reason: "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := newTestNode(t, nodeOptions{})
			ctx := context.Background()
			proveOnly(t, node, "n1", "n2", "n3")
			_, err := node.services.ChainService.BuildLedger(ctx)
			require.NoError(t, err)

			corruptBlock(t, node.storages.Chain, tt.k, tt.mutate)

			result, err := node.services.ChainService.ValidateLedger(ctx)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Equal(t, int64(tt.k), result.FailedIndex)
			assert.Contains(t, result.Reason, tt.reason)
		})
	}
}

func TestChainProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	identity := newTestIdentity(t, "clinic-a", 1)
	artifacts, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	build := func(n int) (ChainService, *memChain) {
		repo := newMemProofRepository()
		proofs := NewProofService(repo, identity, nil, logger.Nop())
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("note-%03d", i)
			_, err := proofs.GenerateProof(ctx, models.NoteInput{NoteID: id, IntegrityHash: "h" + id})
			require.NoError(t, err)
		}
		reports := NewReportService(proofs, NewEvidenceService(proofs, artifacts, logger.Nop()), nil, nil, artifacts, logger.Nop())
		dashboard := NewDashboardService(repo, proofs, reports, artifacts, newMemLog("v"), newMemLog("i"), logger.Nop())
		chain := &memChain{}
		return NewChainService(dashboard, chain, identity, logger.Nop()), chain
	}

	properties.Property("build then validate round trips", prop.ForAll(
		func(n int) bool {
			svc, _ := build(n)
			blocks, err := svc.BuildLedger(ctx)
			if err != nil || len(blocks) != n {
				return false
			}
			result, err := svc.ValidateLedger(ctx)
			return err == nil && result.Valid && result.Length == n
		},
		gen.IntRange(0, 8),
	))

	properties.Property("corrupting record hash k fails at k", prop.ForAll(
		func(n, k int) bool {
			k %= n
			svc, chain := build(n)
			if _, err := svc.BuildLedger(ctx); err != nil {
				return false
			}
			corruptBlock(t, chain, k, func(b *models.LedgerBlock) {
				b.RecordHash = crypto.DigestHex([]byte(b.RecordHash))
			})
			result, err := svc.ValidateLedger(ctx)
			return err == nil && !result.Valid && result.FailedIndex == int64(k)
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t)
}
