// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
)

// Storages bundles every persistence dependency of the service layer.
type Storages struct {
	ProofRepository  ProofRepository
	Artifacts        ArtifactStore
	PublicLedger     AppendLog
	ValidationLedger AppendLog
	InsuranceLog     AppendLog
	ExchangeLog      AppendLog
	Chain            ChainStore

	closers []io.Closer
}

// NewStorages opens the proof database (running migrations), the LevelDB
// logs and the artifact store described by cfg.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	s := &Storages{}

	db, err := NewDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, db)
	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("failed to migrate proof database")
		return nil, errors.Join(err, s.Close())
	}

	var locker Locker
	if cfg.Redis.Address != "" {
		locker = NewRedisLocker(cfg.Redis.Address, cfg.Redis.LockTTL)
		log.Info().Str("func", "NewStorages").Str("redis", cfg.Redis.Address).Msg("using redis append lock")
	}

	ldb, err := OpenLevelDB(cfg.Logs.Dir, locker, log)
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}
	s.closers = append(s.closers, ldb)

	artifacts, err := NewArtifactStore(ctx, cfg.Artifacts)
	if err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("failed to create artifact store")
		return nil, errors.Join(fmt.Errorf("artifact store: %w", err), s.Close())
	}
	if closer, ok := artifacts.(io.Closer); ok {
		s.closers = append(s.closers, closer)
	}

	s.ProofRepository = NewProofRepository(db, log)
	s.Artifacts = artifacts
	s.PublicLedger = ldb.Log(LogPublicLedger)
	s.ValidationLedger = ldb.Log(LogValidationLedger)
	s.InsuranceLog = ldb.Log(LogInsurance)
	s.ExchangeLog = ldb.Log(LogExchange)
	s.Chain = ldb.Chain()

	return s, nil
}

// Close releases every opened backend in reverse order.
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
