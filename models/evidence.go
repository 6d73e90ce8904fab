// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuditEvent is one line of a note's raw audit trail as recorded by the
// upstream workflow (who did what, when).
type AuditEvent struct {
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

// EvidenceBundle packages a proof, its raw audit trail and a human-readable
// summary into one unit keyed by NoteID.
type EvidenceBundle struct {
	NoteID     string       `json:"note_id"`
	Proof      ProofRecord  `json:"proof"`
	AuditTrail []AuditEvent `json:"audit_trail"`

	// Summary is the human-readable rendition of the proof and trail.
	Summary string `json:"summary"`

	CreatedAt time.Time `json:"created_at"`
}

// BundleLocator points at a stored evidence bundle. ContentHash is the
// digest of the stored bytes at the time the bundle was written.
type BundleLocator struct {
	NoteID      string `json:"note_id"`
	Key         string `json:"key"`
	ContentHash string `json:"content_hash"`
}

// ArtifactRef references any stored artifact by key and content digest.
type ArtifactRef struct {
	Kind        string `json:"kind"`
	Key         string `json:"key"`
	ContentHash string `json:"content_hash"`
}
