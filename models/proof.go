// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// NoteInput is what upstream collaborators hand to the proof generator for
// each finalized clinical note.
type NoteInput struct {
	// UserID identifies the clinician who finalized the note.
	UserID string `json:"user_id"`

	// NoteID is the stable identifier of the clinical note. Required.
	NoteID string `json:"note_id"`

	// IntegrityHash is the content hash of the finalized note produced
	// upstream. Required.
	IntegrityHash string `json:"integrity_hash"`

	// ConsentVersion is the consent form version the note was processed under.
	ConsentVersion string `json:"consent_version"`
}

// ProofRecord is a signed attestation binding a note's content hash, the
// consent version and the signing time.
//
// Signature = Sign(integrityHash ‖ consentVersion ‖ timestamp). Verified is a
// derived field: it is recomputed on every read and never trusted from
// storage.
type ProofRecord struct {
	NoteID         string    `json:"note_id"`
	UserID         string    `json:"user_id"`
	ConsentVersion string    `json:"consent_version"`
	IntegrityHash  string    `json:"integrity_hash"`
	Timestamp      time.Time `json:"timestamp"`

	// Signature is the hex ed25519 signature of the signer identity.
	Signature string `json:"signature"`

	// SignerID is the node id whose key produced Signature.
	SignerID string `json:"signer_id"`

	Verified bool `json:"verified"`
}
