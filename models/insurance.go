// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

const (
	ClaimStatusSuccess = "success"
	ClaimStatusPartial = "partial"
)

// ClaimAuditPayload is the canonical body delivered to an insurer for one
// regulator validation.
type ClaimAuditPayload struct {
	ClaimID           string    `json:"claim_id"`
	NoteID            string    `json:"note_id"`
	RegulatorRecordID string    `json:"regulator_record_id"`
	Regulator         string    `json:"regulator"`
	BundleHash        string    `json:"bundle_hash"`
	Status            string    `json:"status"`
	ValidatedAt       time.Time `json:"validated_at"`
}

// InsuranceAck is the insurer's answer to a delivered payload.
type InsuranceAck struct {
	Acknowledged bool   `json:"acknowledged"`
	Reference    string `json:"reference,omitempty"`
}

// InsuranceAuditEntry is one record of the insurance log. At most one entry
// exists per (Insurer, RegulatorRecordID).
type InsuranceAuditEntry struct {
	ID                string            `json:"id"`
	Index             uint64            `json:"index"`
	RegulatorRecordID string            `json:"regulator_record_id"`
	NoteID            string            `json:"note_id"`
	Insurer           string            `json:"insurer"`
	ClaimID           string            `json:"claim_id"`
	Payload           ClaimAuditPayload `json:"payload"`
	Acknowledged      bool              `json:"acknowledged"`
	Reference         string            `json:"reference,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`

	// Signature = H(canonical payload).
	Signature string `json:"signature"`
}

// InsuranceSyncResult summarises one syncAll run.
type InsuranceSyncResult struct {
	Insurer   string                `json:"insurer"`
	Processed int                   `json:"processed"`
	Skipped   int                   `json:"skipped"`
	Failed    int                   `json:"failed"`
	Appended  []InsuranceAuditEntry `json:"appended"`
}
