// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-proof-ledger/models"
)

// ProofRepository persists integrity proofs. Proofs are insert-only: a
// second proof for the same note id fails with [ErrAlreadyExists].
type ProofRepository interface {
	CreateProof(ctx context.Context, proof models.ProofRecord) error
	// FindProofByNoteID returns [ErrNotFound] when no proof exists.
	FindProofByNoteID(ctx context.Context, noteID string) (models.ProofRecord, error)
	// ListProofs returns every proof ordered by note id.
	ListProofs(ctx context.Context) ([]models.ProofRecord, error)
}

// ArtifactStore is a flat key/value blob store. Keys are slash separated
// relative paths such as "evidence/n1/bundle.json".
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns [ErrNotFound] for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// List returns every key under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// RecordBuilder produces the serialized record that will be stored at index.
// It runs while the log is locked, so index is final.
type RecordBuilder func(index uint64) ([]byte, error)

// AppendLog is a durable, ordered, append-only sequence of records.
// Records are never rewritten or removed.
type AppendLog interface {
	Name() string
	// Append stores the record produced by build at the next index.
	Append(ctx context.Context, build RecordBuilder) (uint64, error)
	// AppendUnique appends only when uniqueKey has not been recorded yet.
	// The boolean is false when the key already exists and nothing was
	// written.
	AppendUnique(ctx context.Context, uniqueKey string, build RecordBuilder) (uint64, bool, error)
	// Get returns [ErrNotFound] for an index past the end.
	Get(ctx context.Context, index uint64) ([]byte, error)
	Len(ctx context.Context) (uint64, error)
	// Scan visits records in index order until fn returns an error.
	Scan(ctx context.Context, fn func(index uint64, record []byte) error) error
	HasKey(ctx context.Context, uniqueKey string) (bool, error)
}

// ChainStore holds the derived block chain. The chain is replaced as a
// whole, so readers always observe either the old or the new chain.
type ChainStore interface {
	ReplaceChain(ctx context.Context, blocks [][]byte) error
	// Blocks returns a consistent snapshot of every block.
	Blocks(ctx context.Context) ([][]byte, error)
	// Block returns [ErrNotFound] for an index past the end.
	Block(ctx context.Context, index uint64) ([]byte, error)
	Len(ctx context.Context) (uint64, error)
}

// Locker serializes writers of a named resource. The returned unlock
// function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}
