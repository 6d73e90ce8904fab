// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Exchange statuses as folded from the exchange log.
const (
	ExchangeCreated   = "created"
	ExchangeDelivered = "delivered"
	ExchangeFailed    = "failed"
	ExchangeReceived  = "received"
	ExchangeVerified  = "verified"
	ExchangeRejected  = "rejected"
	ExchangeStale     = "stale"

	// ExchangeSelfChecked is the event kind of a sender re-checking its own
	// outbound slice. It leaves the bundle status untouched.
	ExchangeSelfChecked = "self_checked"
)

// Directions of a bundle relative to the local node. Inbound and outbound
// bundles are tracked separately even when their ids collide.
const (
	ExchangeOutbound = "outbound"
	ExchangeInbound  = "inbound"
)

// BlockRange is an inclusive range of chain indexes.
type BlockRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// ExchangeBundle describes a chain slice replicated from SourceNode to
// TargetNode. On an inbound bundle Verified is true only after this node
// recomputed the payload hash, checked the signature against the registry
// and re-walked the slice links. On an outbound bundle it reports the
// sender's last self-check.
type ExchangeBundle struct {
	ID          string     `json:"id"`
	SourceNode  string     `json:"source_node"`
	TargetNode  string     `json:"target_node"`
	BlockRange  BlockRange `json:"block_range"`
	PayloadHash string     `json:"payload_hash"`
	Signature   string     `json:"signature"`
	Timestamp   time.Time  `json:"timestamp"`
	Verified    bool       `json:"verified"`
	Status      string     `json:"status"`
	Direction   string     `json:"direction,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExchangeEnvelope is what travels between nodes.
type ExchangeEnvelope struct {
	Bundle ExchangeBundle `json:"bundle"`
	Blocks []LedgerBlock  `json:"blocks"`
}

// ExchangeEvent is one append to the exchange log. The current state of a
// bundle is the fold of its events in log order. Status is the event kind,
// which for a self-check differs from the bundle status it carries.
type ExchangeEvent struct {
	Index     uint64         `json:"index"`
	BundleID  string         `json:"bundle_id"`
	Status    string         `json:"status"`
	Bundle    ExchangeBundle `json:"bundle"`
	Reason    string         `json:"reason,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ExchangeLocator points at a persisted slice.
type ExchangeLocator struct {
	BundleID string `json:"bundle_id"`
	Key      string `json:"key"`
}

type ExchangeRequest struct {
	// SourceNode defaults to the local node when empty.
	SourceNode string     `json:"source_node"`
	TargetNode string     `json:"target_node"`
	BlockRange BlockRange `json:"block_range"`
}
