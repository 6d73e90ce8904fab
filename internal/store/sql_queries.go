// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-proof-ledger/models"
)

const proofsTable = "proofs"

// proofColumns is the column order shared by every SELECT and by scanProof.
var proofColumns = []string{
	"note_id",
	"user_id",
	"consent_version",
	"integrity_hash",
	"signed_at",
	"signature",
	"signer_id",
}

func buildInsertProofQuery(b sq.StatementBuilderType, proof models.ProofRecord) (string, []any, error) {
	return b.Insert(proofsTable).
		Columns(proofColumns...).
		Values(
			proof.NoteID,
			proof.UserID,
			proof.ConsentVersion,
			proof.IntegrityHash,
			models.FormatTimestamp(proof.Timestamp),
			proof.Signature,
			proof.SignerID,
		).
		ToSql()
}

func buildFindProofQuery(b sq.StatementBuilderType, noteID string) (string, []any, error) {
	return b.Select(proofColumns...).
		From(proofsTable).
		Where(sq.Eq{"note_id": noteID}).
		ToSql()
}

func buildListProofsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select(proofColumns...).
		From(proofsTable).
		OrderBy("note_id ASC").
		ToSql()
}
