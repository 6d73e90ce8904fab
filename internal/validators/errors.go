// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyNoteID         = errors.New("note id is required")
	ErrInvalidNoteID       = errors.New("note id may only contain letters, digits, '.', '_' and '-'")
	ErrEmptyIntegrityHash  = errors.New("integrity hash is required")
	ErrEmptyUserID         = errors.New("user id is required")
	ErrEmptyConsentVersion = errors.New("consent version is required")
	ErrEmptyAuditAction    = errors.New("audit event action is required")
	ErrEmptyAuditActor     = errors.New("audit event actor is required")
	ErrInvalidBlockRange   = errors.New("block range start must not exceed end")
)
