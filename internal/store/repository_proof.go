// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// proofRepository is the SQL-backed implementation of [ProofRepository].
// It works against both PostgreSQL and SQLite; the dialect differences live
// in [DB].
type proofRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewProofRepository constructs a [ProofRepository] on top of db.
func NewProofRepository(db *DB, logger *logger.Logger) ProofRepository {
	logger.Debug().Msg("creating proof repository")
	return &proofRepository{
		db:     db,
		logger: logger,
	}
}

// CreateProof inserts proof. The stored timestamp is the exact string the
// signature was computed over.
//
// Error handling:
//   - unique violation on note_id → [ErrAlreadyExists].
//   - any other driver-level error → [ErrExecutingStatement].
func (r *proofRepository) CreateProof(ctx context.Context, proof models.ProofRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertProofQuery(r.db.builder, proof)
	if err != nil {
		log.Err(err).Str("func", "*proofRepository.CreateProof").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if r.isUniqueViolation(err) {
			return ErrAlreadyExists
		}

		log.Err(err).
			Str("func", "*proofRepository.CreateProof").
			Str("note_id", proof.NoteID).
			Bool("retryable", r.db.errorClassificator.Classify(err) == Retryable).
			Msg("failed to insert proof")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindProofByNoteID returns the stored proof for noteID or [ErrNotFound].
func (r *proofRepository) FindProofByNoteID(ctx context.Context, noteID string) (models.ProofRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindProofQuery(r.db.builder, noteID)
	if err != nil {
		log.Err(err).Str("func", "*proofRepository.FindProofByNoteID").Msg("failed to build query")
		return models.ProofRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	proof, err := scanProof(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProofRecord{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*proofRepository.FindProofByNoteID").
			Str("note_id", noteID).
			Msg("failed to scan proof")
		return models.ProofRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return proof, nil
}

// ListProofs returns every stored proof ordered by note id.
func (r *proofRepository) ListProofs(ctx context.Context) ([]models.ProofRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListProofsQuery(r.db.builder)
	if err != nil {
		log.Err(err).Str("func", "*proofRepository.ListProofs").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*proofRepository.ListProofs").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	proofs := make([]models.ProofRecord, 0, 16)
	for rows.Next() {
		proof, scanErr := scanProof(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*proofRepository.ListProofs").Msg("failed to scan proof row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		proofs = append(proofs, proof)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*proofRepository.ListProofs").Msg("rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return proofs, nil
}

func (r *proofRepository) isUniqueViolation(err error) bool {
	if postgresError(err) == pgerrcode.UniqueViolation {
		return true
	}
	return isSQLiteUniqueViolation(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProof(row rowScanner) (models.ProofRecord, error) {
	var (
		proof    models.ProofRecord
		signedAt string
	)
	err := row.Scan(
		&proof.NoteID,
		&proof.UserID,
		&proof.ConsentVersion,
		&proof.IntegrityHash,
		&signedAt,
		&proof.Signature,
		&proof.SignerID,
	)
	if err != nil {
		return models.ProofRecord{}, err
	}

	proof.Timestamp, err = models.ParseTimestamp(signedAt)
	if err != nil {
		return models.ProofRecord{}, fmt.Errorf("invalid signed_at %q: %w", signedAt, err)
	}

	return proof, nil
}
