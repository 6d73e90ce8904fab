// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LedgerEntry is a published hash commitment of an evidence bundle.
// Entries are append-only: never mutated or deleted once written.
type LedgerEntry struct {
	ID         string    `json:"id"`
	Index      uint64    `json:"index"`
	NoteID     string    `json:"note_id"`
	BundleHash string    `json:"bundle_hash"`
	Timestamp  time.Time `json:"timestamp"`
}

// LedgerAudit is the outcome of re-walking the public ledger.
type LedgerAudit struct {
	Entries int      `json:"entries"`
	Valid   bool     `json:"valid"`
	Issues  []string `json:"issues,omitempty"`
}
