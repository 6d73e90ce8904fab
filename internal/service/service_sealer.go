// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"crypto/ed25519"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// shortSealLength is the number of hex characters printed on a sealed report.
const shortSealLength = 16

type sealer struct {
	signer crypto.Signer
	keys   keyResolver
	clock  clock
}

func NewSealer(signer crypto.Signer, registry *crypto.Registry) Sealer {
	return &sealer{
		signer: signer,
		keys:   keyResolver{signer: signer, registry: registry},
	}
}

func sealMessage(s models.SealedReport) []byte {
	return crypto.FieldsMessage(s.NoteID, s.ContentSeal, s.SignerID, models.FormatTimestamp(s.SealedAt))
}

func (s *sealer) Seal(noteID, body string) models.SealedReport {
	contentSeal := crypto.DigestHex([]byte(body))

	sealed := models.SealedReport{
		NoteID:      noteID,
		Body:        body,
		ContentSeal: contentSeal,
		ShortSeal:   crypto.Short(contentSeal, shortSealLength),
		SignerID:    s.signer.NodeID(),
		PublicKey:   s.signer.PublicKeyHex(),
		SealedAt:    s.clock.now(),
	}
	sealed.Signature = s.signer.Sign(sealMessage(sealed))
	return sealed
}

// VerifySeal recomputes the seal from the body and checks the signature
// against the signer's trusted key. The embedded public key must match it.
func (s *sealer) VerifySeal(sealed models.SealedReport) bool {
	if crypto.DigestHex([]byte(sealed.Body)) != sealed.ContentSeal {
		return false
	}
	if sealed.ShortSeal != crypto.Short(sealed.ContentSeal, shortSealLength) {
		return false
	}

	trusted, err := s.keys.publicKey(sealed.SignerID)
	if err != nil {
		return false
	}
	embedded, err := crypto.ParsePublicKeyHex(sealed.PublicKey)
	if err != nil || !ed25519.PublicKey(embedded).Equal(trusted) {
		return false
	}

	return crypto.VerifyWithKey(trusted, sealMessage(sealed), sealed.Signature)
}
