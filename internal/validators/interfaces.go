// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the inputs that upstream collaborators hand to
// the proof chain: note inputs, audit trails and exchange block ranges.
//
// Services hold a [Validator] and call it before touching storage, so a
// malformed note id never becomes part of an artifact key. Validation can be
// narrowed to named fields, e.g. only [FieldNoteID] for a lookup.
package validators

import "context"

// Validator validates a value, optionally only the named fields. Unknown
// types fail with [ErrUnsupportedType].
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
