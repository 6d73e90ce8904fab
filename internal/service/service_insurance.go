// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type insuranceService struct {
	validations store.AppendLog
	entries     store.AppendLog
	transport   adapter.InsurerTransport
	ids         *utils.UUIDGenerator
	clock       clock

	logger *logger.Logger
}

func NewInsuranceService(
	validations store.AppendLog,
	entries store.AppendLog,
	transport adapter.InsurerTransport,
	logger *logger.Logger,
) InsuranceService {
	return &insuranceService{
		validations: validations,
		entries:     entries,
		transport:   transport,
		ids:         utils.NewUUIDGenerator(),
		logger:      logger,
	}
}

// SyncAll delivers one claim-audit payload per regulator validation that has
// not been delivered to insurer yet. Entries are appended only after the
// insurer answered, so a failed delivery is retried by the next run. Failed
// deliveries do not stop the run; their errors are joined and returned next
// to the partial result.
func (s *insuranceService) SyncAll(ctx context.Context, insurer string) (models.InsuranceSyncResult, error) {
	insurer = strings.TrimSpace(insurer)
	if insurer == "" {
		return models.InsuranceSyncResult{}, ErrEmptyInsurer
	}

	records, err := readRecords[models.ValidationRecord](ctx, s.validations)
	if err != nil {
		return models.InsuranceSyncResult{}, err
	}

	result := models.InsuranceSyncResult{Insurer: insurer, Appended: make([]models.InsuranceAuditEntry, 0)}
	var errs []error

	for _, record := range records {
		if err = ctx.Err(); err != nil {
			return result, errors.Join(append(errs, err)...)
		}
		result.Processed++

		key := insuranceKey(insurer, record.ID)
		seen, err := s.entries.HasKey(ctx, key)
		if err != nil {
			return result, errors.Join(append(errs, storageError("read insurance log", err))...)
		}
		if seen {
			result.Skipped++
			continue
		}

		payload := claimPayload(insurer, record)
		ack, err := s.transport.SendClaimAudit(ctx, insurer, payload)
		if err != nil {
			s.logger.Err(err).
				Str("func", "*insuranceService.SyncAll").
				Str("insurer", insurer).
				Str("regulator_record_id", record.ID).
				Msg("claim audit delivery failed")
			result.Failed++
			errs = append(errs, fmt.Errorf("%w: record %s: %w", ErrTransport, record.ID, err))
			continue
		}

		entry, appended, err := s.appendEntry(ctx, key, insurer, record, payload, ack)
		if err != nil {
			return result, errors.Join(append(errs, err)...)
		}
		if !appended {
			// another sync run delivered it concurrently
			result.Skipped++
			continue
		}
		result.Appended = append(result.Appended, entry)
	}

	s.logger.Info().
		Str("insurer", insurer).
		Int("processed", result.Processed).
		Int("appended", len(result.Appended)).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("insurance sync finished")

	return result, errors.Join(errs...)
}

func (s *insuranceService) appendEntry(
	ctx context.Context,
	key, insurer string,
	record models.ValidationRecord,
	payload models.ClaimAuditPayload,
	ack models.InsuranceAck,
) (models.InsuranceAuditEntry, bool, error) {
	signature, err := crypto.CanonicalHash(payload)
	if err != nil {
		return models.InsuranceAuditEntry{}, false, fmt.Errorf("hash claim payload: %w", err)
	}

	var entry models.InsuranceAuditEntry
	_, appended, err := s.entries.AppendUnique(ctx, key, func(index uint64) ([]byte, error) {
		entry = models.InsuranceAuditEntry{
			ID:                s.ids.Generate(),
			Index:             index,
			RegulatorRecordID: record.ID,
			NoteID:            record.NoteID,
			Insurer:           insurer,
			ClaimID:           payload.ClaimID,
			Payload:           payload,
			Acknowledged:      ack.Acknowledged,
			Reference:         ack.Reference,
			Timestamp:         s.clock.now(),
			Signature:         signature,
		}
		return json.Marshal(entry)
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*insuranceService.appendEntry").Str("regulator_record_id", record.ID).Msg("failed to append insurance entry")
		return models.InsuranceAuditEntry{}, false, storageError("append insurance entry", err)
	}
	return entry, appended, nil
}

func (s *insuranceService) Entries(ctx context.Context) ([]models.InsuranceAuditEntry, error) {
	return readRecords[models.InsuranceAuditEntry](ctx, s.entries)
}

func insuranceKey(insurer, regulatorRecordID string) string {
	return insurer + "/" + regulatorRecordID
}

// claimPayload is a pure function of its inputs, so a retried delivery
// carries the same claim id and the same bytes.
func claimPayload(insurer string, record models.ValidationRecord) models.ClaimAuditPayload {
	status := models.ClaimStatusPartial
	if record.Verified {
		status = models.ClaimStatusSuccess
	}

	return models.ClaimAuditPayload{
		ClaimID:           "claim-" + crypto.Short(crypto.DigestFields(insurer, record.ID), 24),
		NoteID:            record.NoteID,
		RegulatorRecordID: record.ID,
		Regulator:         record.RegulatorName,
		BundleHash:        record.BundleHash,
		Status:            status,
		ValidatedAt:       record.Timestamp,
	}
}
