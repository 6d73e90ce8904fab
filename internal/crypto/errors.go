// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	ErrInvalidSeedSize   = errors.New("invalid ed25519 seed size")
	ErrInvalidKeyFile    = errors.New("invalid signing key file")
	ErrSealedKeyLocked   = errors.New("sealed signing key requires a passphrase")
	ErrUnsealFailed      = errors.New("failed to unseal signing key")
	ErrEmptyNodeID       = errors.New("node id is required")
	ErrUnknownNode       = errors.New("node is not in the registry")
	ErrRevokedNode       = errors.New("node key has been revoked")
	ErrInvalidPublicKey  = errors.New("invalid ed25519 public key")
	ErrUnknownTrustEvent = errors.New("unknown trust event")
)
