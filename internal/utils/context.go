// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the node.
// Includes tools for working with context, type-safe keys, body hashing,
// HTTP response writing, HTTP client initialization and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// PeerNodeCtxKey is the key under which the peer ingest middleware stores
// the node id announced by the sending peer.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.PeerNodeCtxKey, "clinic-b")
var PeerNodeCtxKey = contextKey("peerNode")

// GetPeerNodeFromContext retrieves the sending peer's node id.
//
// Returns the node id and an ok flag:
//   - ok == true : value is found, is a string and is not empty
//   - ok == false: value is missing or has an unexpected type
func GetPeerNodeFromContext(ctx context.Context) (string, bool) {
	nodeID, ok := ctx.Value(PeerNodeCtxKey).(string)
	return nodeID, ok && nodeID != ""
}
