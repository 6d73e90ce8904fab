// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ExportManifestEntry records the digest of one archived file.
type ExportManifestEntry struct {
	FileName    string `json:"file_name"`
	ContentHash string `json:"content_hash"`
	Size        int64  `json:"size"`
}

// ExportManifest lists every archived file of an export; coverage is exact,
// one entry per file and no entry without a file.
type ExportManifest struct {
	NoteID    string                `json:"note_id"`
	CreatedAt time.Time             `json:"created_at"`
	Entries   []ExportManifestEntry `json:"entries"`
}

// ExportBundle describes a regulator export for a note.
type ExportBundle struct {
	NoteID      string         `json:"note_id"`
	ArchiveKey  string         `json:"archive_key"`
	ArchiveHash string         `json:"archive_hash"`
	ManifestKey string         `json:"manifest_key"`
	Manifest    ExportManifest `json:"manifest"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ValidationRecord is one entry of the regulator validation ledger. It is
// appended whatever the outcome: a failed verification is data.
type ValidationRecord struct {
	ID            string    `json:"id"`
	Index         uint64    `json:"index"`
	NoteID        string    `json:"note_id"`
	BundleHash    string    `json:"bundle_hash"`
	ManifestOK    bool      `json:"manifest_ok"`
	LedgerOK      bool      `json:"ledger_ok"`
	Verified      bool      `json:"verified"`
	Reasons       []string  `json:"reasons,omitempty"`
	RegulatorName string    `json:"regulator_name"`
	Timestamp     time.Time `json:"timestamp"`
}
