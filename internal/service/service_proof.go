// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type proofService struct {
	repository store.ProofRepository
	signer     crypto.Signer
	keys       keyResolver
	clock      clock

	logger *logger.Logger
}

func NewProofService(repository store.ProofRepository, signer crypto.Signer, registry *crypto.Registry, logger *logger.Logger) ProofService {
	return &proofService{
		repository: repository,
		signer:     signer,
		keys:       keyResolver{signer: signer, registry: registry},
		logger:     logger,
	}
}

// proofMessage is the signed part of a proof: the content hash, the consent
// version and the timestamp, length-prefixed so fields cannot run together.
func proofMessage(proof models.ProofRecord) []byte {
	return crypto.FieldsMessage(proof.IntegrityHash, proof.ConsentVersion, models.FormatTimestamp(proof.Timestamp))
}

func (p *proofService) GenerateProof(ctx context.Context, input models.NoteInput) (models.ProofRecord, error) {
	proof := models.ProofRecord{
		NoteID:         input.NoteID,
		UserID:         input.UserID,
		ConsentVersion: input.ConsentVersion,
		IntegrityHash:  input.IntegrityHash,
		Timestamp:      p.clock.now(),
		SignerID:       p.signer.NodeID(),
	}
	proof.Signature = p.signer.Sign(proofMessage(proof))

	err := p.repository.CreateProof(ctx, proof)
	if errors.Is(err, store.ErrAlreadyExists) {
		// a retried request for the same note content gets the stored proof
		existing, findErr := p.repository.FindProofByNoteID(ctx, input.NoteID)
		if findErr != nil {
			return models.ProofRecord{}, storageError("find proof", findErr)
		}
		if existing.IntegrityHash != input.IntegrityHash || existing.ConsentVersion != input.ConsentVersion {
			return models.ProofRecord{}, ErrProofExists
		}
		existing.Verified = p.VerifyProof(ctx, existing)
		return existing, nil
	}
	if err != nil {
		p.logger.Err(err).Str("func", "*proofService.GenerateProof").Str("note_id", input.NoteID).Msg("failed to store proof")
		return models.ProofRecord{}, storageError("create proof", err)
	}

	proof.Verified = p.VerifyProof(ctx, proof)
	p.logger.Debug().Str("note_id", proof.NoteID).Str("signer", proof.SignerID).Msg("proof generated")

	return proof, nil
}

func (p *proofService) VerifyProof(_ context.Context, proof models.ProofRecord) bool {
	pub, err := p.keys.publicKey(proof.SignerID)
	if err != nil {
		p.logger.Warn().Err(err).Str("note_id", proof.NoteID).Str("signer", proof.SignerID).Msg("proof signer is not trusted")
		return false
	}
	return crypto.VerifyWithKey(pub, proofMessage(proof), proof.Signature)
}

func (p *proofService) GetProof(ctx context.Context, noteID string) (models.ProofRecord, error) {
	proof, err := p.repository.FindProofByNoteID(ctx, noteID)
	if errors.Is(err, store.ErrNotFound) {
		return models.ProofRecord{}, ErrProofNotFound
	}
	if err != nil {
		p.logger.Err(err).Str("func", "*proofService.GetProof").Str("note_id", noteID).Msg("failed to read proof")
		return models.ProofRecord{}, storageError("find proof", err)
	}

	proof.Verified = p.VerifyProof(ctx, proof)
	if !proof.Verified {
		p.logger.Warn().Str("note_id", noteID).Msg("stored proof failed verification")
	}
	return proof, nil
}
