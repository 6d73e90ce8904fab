// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationClaims is the payload of a patient verification token. It
// binds a note to the hash of the block that commits to it, and is signed
// by the issuing node so a patient can check it against the registry.
type VerificationClaims struct {
	NoteID    string `json:"note_id"`
	BlockHash string `json:"block_hash"`
	jwt.RegisteredClaims
}

// IssueVerificationToken creates an EdDSA JWT for noteID and blockHash.
//
// The token includes the following standard claims:
//   - Issuer    (iss): the node id of this identity
//   - Subject   (sub): the note id
//   - IssuedAt  (iat): issuedAt
//   - ExpiresAt (exp): issuedAt plus ttl, omitted when ttl is zero
func (i *Identity) IssueVerificationToken(noteID, blockHash string, issuedAt time.Time, ttl time.Duration) (string, error) {
	if noteID == "" || blockHash == "" {
		return "", errors.New("invalid params for generating verification token")
	}

	claims := VerificationClaims{
		NoteID:    noteID,
		BlockHash: blockHash,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   i.nodeID,
			Subject:  noteID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(i.priv)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing verification token: %w", err)
	}

	return signed, nil
}

// ParseVerificationToken validates tokenString against pub and the expected
// issuer and returns its claims.
//
// Validation includes:
//   - EdDSA signature verification
//   - Issuer (iss) claim check
//   - Expiration (exp) claim check when present
//   - presence of note_id and block_hash
func ParseVerificationToken(tokenString string, pub ed25519.PublicKey, issuer string) (VerificationClaims, error) {
	var claims VerificationClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			return pub, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return VerificationClaims{}, fmt.Errorf("invalid verification token: %w", err)
	}

	if claims.NoteID == "" || claims.BlockHash == "" {
		return VerificationClaims{}, errors.New("verification token has no note_id or block_hash")
	}

	return claims, nil
}
