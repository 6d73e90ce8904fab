// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// ZeroHash is the prevHash of the genesis block.
var ZeroHash = strings.Repeat("0", 64)

// LedgerBlock links one dashboard entry into the hash chain.
//
//	BlockHash = H(Index ‖ NoteID ‖ RecordHash ‖ PrevHash ‖ Timestamp)
//	PrevHash[i] = BlockHash[i-1], PrevHash[0] = ZeroHash
type LedgerBlock struct {
	Index      uint64    `json:"index"`
	NoteID     string    `json:"note_id"`
	RecordHash string    `json:"record_hash"`
	PrevHash   string    `json:"prev_hash"`
	BlockHash  string    `json:"block_hash"`
	Timestamp  time.Time `json:"timestamp"`
	Signature  string    `json:"signature"`
}

// ChainValidation reports the result of walking a chain. FailedIndex is -1
// when Valid is true.
type ChainValidation struct {
	Valid       bool   `json:"valid"`
	Length      int    `json:"length"`
	FailedIndex int64  `json:"failed_index"`
	Reason      string `json:"reason,omitempty"`
}
