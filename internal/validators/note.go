// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-proof-ledger/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldNoteID targets the clinical note identifier. Note ids become part
	// of artifact keys, so only a conservative character set is accepted.
	FieldNoteID = "note_id"

	// FieldIntegrityHash targets the upstream content hash of the note.
	FieldIntegrityHash = "integrity_hash"

	FieldUserID         = "user_id"
	FieldConsentVersion = "consent_version"

	// FieldAuditTrail validates every event of an audit trail.
	FieldAuditTrail = "audit_trail"

	FieldAction = "action"
	FieldActor  = "actor"
)

const maxNoteIDLength = 128

// NoteValidator implements [Validator] for the inputs handed to the proof
// chain by upstream collaborators: NoteInput, AuditEvent, audit trails and
// BlockRange.
type NoteValidator struct {
}

// NewNoteValidator returns a [Validator] for note inputs.
func NewNoteValidator() Validator {
	return &NoteValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Returns ErrUnsupportedType for anything else.
//
// By default a NoteInput is checked for note_id and integrity_hash only;
// user_id and consent_version are validated when named explicitly.
func (v *NoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.NoteInput:
		return v.validateNoteInput(ctx, value, fields...)
	case *models.NoteInput:
		return v.validateNoteInput(ctx, *value, fields...)

	case models.AuditEvent:
		return v.validateAuditEvent(ctx, value, fields...)
	case *models.AuditEvent:
		return v.validateAuditEvent(ctx, *value, fields...)

	case []models.AuditEvent:
		return v.validateAuditTrail(ctx, value)

	case models.BlockRange:
		return v.validateBlockRange(value)
	case *models.BlockRange:
		return v.validateBlockRange(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *NoteValidator) validateNoteInput(_ context.Context, input models.NoteInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNoteID, FieldIntegrityHash}
	}

	for _, f := range fields {
		switch f {
		case FieldNoteID:
			if err := ValidateNoteID(input.NoteID); err != nil {
				return err
			}
		case FieldIntegrityHash:
			if input.IntegrityHash == "" {
				return ErrEmptyIntegrityHash
			}
		case FieldUserID:
			if input.UserID == "" {
				return ErrEmptyUserID
			}
		case FieldConsentVersion:
			if input.ConsentVersion == "" {
				return ErrEmptyConsentVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *NoteValidator) validateAuditEvent(_ context.Context, event models.AuditEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAction}
	}

	for _, f := range fields {
		switch f {
		case FieldAction:
			if event.Action == "" {
				return ErrEmptyAuditAction
			}
		case FieldActor:
			if event.Actor == "" {
				return ErrEmptyAuditActor
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *NoteValidator) validateAuditTrail(ctx context.Context, trail []models.AuditEvent) error {
	for i, event := range trail {
		if err := v.validateAuditEvent(ctx, event); err != nil {
			return fmt.Errorf("audit event at index %d: %w", i, err)
		}
	}
	return nil
}

func (v *NoteValidator) validateBlockRange(r models.BlockRange) error {
	if r.Start > r.End {
		return ErrInvalidBlockRange
	}
	return nil
}

// ValidateNoteID reports whether id is usable as a note identifier and as
// an artifact key segment.
func ValidateNoteID(id string) error {
	if id == "" {
		return ErrEmptyNoteID
	}
	if len(id) > maxNoteIDLength || id == "." || id == ".." {
		return ErrInvalidNoteID
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return ErrInvalidNoteID
		}
	}
	return nil
}
