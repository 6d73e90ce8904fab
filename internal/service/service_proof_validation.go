// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type ProofValidationService struct {
	inner     ProofService
	validator validators.Validator
}

func NewProofValidationService() ProofServiceWrapper {
	return &ProofValidationService{
		validator: validators.NewNoteValidator(),
	}
}

func (v *ProofValidationService) GenerateProof(ctx context.Context, input models.NoteInput) (models.ProofRecord, error) {
	if err := v.validator.Validate(ctx, input); err != nil {
		return models.ProofRecord{}, invalidInput(err)
	}
	return v.inner.GenerateProof(ctx, input)
}

func (v *ProofValidationService) VerifyProof(ctx context.Context, proof models.ProofRecord) bool {
	return v.inner.VerifyProof(ctx, proof)
}

func (v *ProofValidationService) GetProof(ctx context.Context, noteID string) (models.ProofRecord, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.ProofRecord{}, invalidInput(err)
	}
	return v.inner.GetProof(ctx, noteID)
}

func (v *ProofValidationService) Wrap(inner ProofService) ProofService {
	v.inner = inner
	return v
}
