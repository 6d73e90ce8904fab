// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// chainService derives the signed hash chain from the dashboard. The chain
// is rebuilt as a whole; nothing else writes it.
type chainService struct {
	dashboard DashboardService
	chain     store.ChainStore
	signer    crypto.Signer

	logger *logger.Logger
}

func NewChainService(dashboard DashboardService, chain store.ChainStore, signer crypto.Signer, logger *logger.Logger) ChainService {
	return &chainService{
		dashboard: dashboard,
		chain:     chain,
		signer:    signer,
		logger:    logger,
	}
}

// BuildLedger rebuilds the dashboard and links one block per entry, in
// ascending note id order.
func (c *chainService) BuildLedger(ctx context.Context) ([]models.LedgerBlock, error) {
	dashboard, err := c.dashboard.BuildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]models.LedgerBlock, 0, len(dashboard.Entries))
	raw := make([][]byte, 0, len(dashboard.Entries))
	prevHash := models.ZeroHash

	for i, entry := range dashboard.Entries {
		recordHash, err := crypto.CanonicalHash(entry)
		if err != nil {
			return nil, fmt.Errorf("hash dashboard entry %s: %w", entry.NoteID, err)
		}

		block := models.LedgerBlock{
			Index:      uint64(i),
			NoteID:     entry.NoteID,
			RecordHash: recordHash,
			PrevHash:   prevHash,
			Timestamp:  entry.Timestamp.UTC(),
		}
		block.BlockHash = blockHash(block)
		block.Signature = c.signer.Sign([]byte(block.BlockHash))

		encoded, err := json.Marshal(block)
		if err != nil {
			return nil, fmt.Errorf("encode block %d: %w", i, err)
		}
		blocks = append(blocks, block)
		raw = append(raw, encoded)
		prevHash = block.BlockHash
	}

	if err = c.chain.ReplaceChain(ctx, raw); err != nil {
		c.logger.Err(err).Str("func", "*chainService.BuildLedger").Msg("failed to replace chain")
		return nil, storageError("replace chain", err)
	}

	c.logger.Info().Int("blocks", len(blocks)).Str("head", prevHash).Msg("chain rebuilt")
	return blocks, nil
}

func (c *chainService) ValidateLedger(ctx context.Context) (models.ChainValidation, error) {
	blocks, err := c.Blocks(ctx)
	if err != nil {
		return models.ChainValidation{}, err
	}

	result := validateBlocks(blocks, models.ZeroHash, 0, c.signer.PublicKey())
	if !result.Valid {
		c.logger.Warn().Int64("failed_index", result.FailedIndex).Str("reason", result.Reason).Msg("chain failed validation")
	}
	return result, nil
}

func (c *chainService) Blocks(ctx context.Context) ([]models.LedgerBlock, error) {
	raw, err := c.chain.Blocks(ctx)
	if err != nil {
		return nil, storageError("read chain", err)
	}

	blocks := make([]models.LedgerBlock, 0, len(raw))
	for i, r := range raw {
		var block models.LedgerBlock
		if err = json.Unmarshal(r, &block); err != nil {
			return nil, storageError("decode chain", fmt.Errorf("%w: block %d: %w", store.ErrLogCorrupted, i, err))
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func blockHash(b models.LedgerBlock) string {
	return crypto.DigestFields(
		strconv.FormatUint(b.Index, 10),
		b.NoteID,
		b.RecordHash,
		b.PrevHash,
		models.FormatTimestamp(b.Timestamp),
	)
}

// validateBlocks walks blocks expecting the first one at startIndex linked
// to prevHash. It stops at the first defect and reports its index.
func validateBlocks(blocks []models.LedgerBlock, prevHash string, startIndex uint64, pub ed25519.PublicKey) models.ChainValidation {
	fail := func(i int, format string, args ...any) models.ChainValidation {
		return models.ChainValidation{
			Valid:       false,
			Length:      len(blocks),
			FailedIndex: int64(startIndex) + int64(i),
			Reason:      fmt.Sprintf(format, args...),
		}
	}

	for i, b := range blocks {
		want := startIndex + uint64(i)
		switch {
		case b.Index != want:
			return fail(i, "block index is %d, want %d", b.Index, want)
		case b.PrevHash != prevHash:
			return fail(i, "prev hash does not link to block %d", int64(want)-1)
		case blockHash(b) != b.BlockHash:
			return fail(i, "block hash does not match its contents")
		case !crypto.VerifyWithKey(pub, []byte(b.BlockHash), b.Signature):
			return fail(i, "block signature is invalid")
		}
		prevHash = b.BlockHash
	}

	return models.ChainValidation{Valid: true, Length: len(blocks), FailedIndex: -1}
}
