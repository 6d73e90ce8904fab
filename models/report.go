// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ComplianceReport aggregates everything known about one note. The two
// verification flags are recomputed when the report is generated.
type ComplianceReport struct {
	NoteID         string       `json:"note_id"`
	UserID         string       `json:"user_id"`
	ConsentVersion string       `json:"consent_version"`
	Proof          ProofRecord  `json:"proof"`
	LedgerEntry    LedgerEntry  `json:"ledger_entry"`
	AuditTrail     []AuditEvent `json:"audit_trail"`

	IntegrityVerified bool `json:"integrity_verified"`
	LedgerVerified    bool `json:"ledger_verified"`

	GeneratedAt time.Time `json:"generated_at"`
}

// SealedReport is the signed human-readable rendition of a compliance
// report. ContentSeal = H(Body); Signature signs the seal.
type SealedReport struct {
	NoteID      string    `json:"note_id"`
	Body        string    `json:"body"`
	ContentSeal string    `json:"content_seal"`
	ShortSeal   string    `json:"short_seal"`
	SignerID    string    `json:"signer_id"`
	PublicKey   string    `json:"public_key"`
	SealedAt    time.Time `json:"sealed_at"`
	Signature   string    `json:"signature"`
}

// ReportArtifacts is returned by report generation.
type ReportArtifacts struct {
	Report ComplianceReport `json:"report"`
	Sealed SealedReport     `json:"sealed"`
}
