// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DashboardEntry is a left-join of every artifact known for one note.
// A nil pointer means "absent"; a present artifact carries its own verified
// flags, so readers can tell absent from failed.
type DashboardEntry struct {
	NoteID              string               `json:"note_id"`
	Proof               *ProofRecord         `json:"proof,omitempty"`
	ComplianceReport    *ComplianceReport    `json:"compliance_report,omitempty"`
	AuditArtifactRef    *ArtifactRef         `json:"audit_artifact_ref,omitempty"`
	RegulatorValidation *ValidationRecord    `json:"regulator_validation,omitempty"`
	InsuranceRecord     *InsuranceAuditEntry `json:"insurance_record,omitempty"`
	Timestamp           time.Time            `json:"timestamp"`
}

// Dashboard is the whole aggregated view, ordered by NoteID.
type Dashboard struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Entries     []DashboardEntry `json:"entries"`
}
