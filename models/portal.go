// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RegulatorPortal is the regulator-facing read-only view of this node.
type RegulatorPortal struct {
	NodeID      string           `json:"node_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Chain       ChainValidation  `json:"chain"`
	HeadHash    string           `json:"head_hash"`
	Blocks      []LedgerBlock    `json:"blocks"`
	Dashboard   []DashboardEntry `json:"dashboard"`
	Exchanges   []ExchangeBundle `json:"exchanges"`
}

// PatientView is the patient-facing subset for one note.
type PatientView struct {
	NoteID            string `json:"note_id"`
	ConsentVersion    string `json:"consent_version"`
	ProofHash         string `json:"proof_hash"`
	BlockHash         string `json:"block_hash"`
	VerificationToken string `json:"verification_token"`
}
