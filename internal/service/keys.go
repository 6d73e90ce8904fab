// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"crypto/ed25519"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
)

// keyResolver finds the public key of a signer: the local identity for its
// own node id, the registry for everybody else.
type keyResolver struct {
	signer   crypto.Signer
	registry *crypto.Registry
}

func (k keyResolver) publicKey(nodeID string) (ed25519.PublicKey, error) {
	if nodeID == "" {
		return nil, crypto.ErrEmptyNodeID
	}
	if nodeID == k.signer.NodeID() {
		return k.signer.PublicKey(), nil
	}
	if k.registry == nil {
		return nil, crypto.ErrUnknownNode
	}
	return k.registry.PublicKey(nodeID)
}
