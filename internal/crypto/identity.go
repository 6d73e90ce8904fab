// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"time"
)

// Signer is the signing capability injected into services. The node id is
// part of the identity so every signature can be attributed and looked up
// in a [Registry].
type Signer interface {
	// NodeID returns the federation identity of the signing node.
	NodeID() string

	// Sign signs SHA-256(message) and returns the hex signature.
	Sign(message []byte) string

	// Verify checks a hex signature produced by Sign with this identity.
	Verify(message []byte, signatureHex string) bool

	// PublicKey returns the ed25519 public key.
	PublicKey() ed25519.PublicKey

	// PublicKeyHex returns the hex-encoded public key.
	PublicKeyHex() string

	// IssueVerificationToken signs a patient verification token binding
	// noteID to blockHash.
	IssueVerificationToken(noteID, blockHash string, issuedAt time.Time, ttl time.Duration) (string, error)
}

// Identity is an ed25519 key pair bound to a node id.
type Identity struct {
	nodeID string
	priv   ed25519.PrivateKey
	pub    ed25519.PublicKey
}

// NewIdentity binds priv to nodeID.
func NewIdentity(nodeID string, priv ed25519.PrivateKey) (*Identity, error) {
	if nodeID == "" {
		return nil, ErrEmptyNodeID
	}
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: private key has %d bytes", ErrInvalidKeyFile, len(priv))
	}

	return &Identity{
		nodeID: nodeID,
		priv:   priv,
		pub:    priv.Public().(ed25519.PublicKey),
	}, nil
}

// NewIdentityFromSeed derives the key pair from a 32-byte seed.
func NewIdentityFromSeed(nodeID string, seed []byte) (*Identity, error) {
	priv, _, err := KeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return NewIdentity(nodeID, priv)
}

func (i *Identity) NodeID() string { return i.nodeID }

func (i *Identity) PublicKey() ed25519.PublicKey { return i.pub }

func (i *Identity) PublicKeyHex() string { return hex.EncodeToString(i.pub) }

func (i *Identity) Sign(message []byte) string {
	return hex.EncodeToString(ed25519.Sign(i.priv, DigestBytes(message)))
}

func (i *Identity) Verify(message []byte, signatureHex string) bool {
	return VerifyWithKey(i.pub, message, signatureHex)
}

// VerifyWithKey checks a hex signature over SHA-256(message) against pub.
// Malformed input yields false, never an error: a bad signature is an
// integrity outcome.
func VerifyWithKey(pub ed25519.PublicKey, message []byte, signatureHex string) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, DigestBytes(message), sig)
}

// ParsePublicKeyHex decodes a hex ed25519 public key.
func ParsePublicKeyHex(s string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}
