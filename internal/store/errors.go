// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repositories and stores to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrNotFound is returned when a queried record, log entry, block or
	// artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an insert-only record collides with an
	// existing one (a second proof for the same note id).
	ErrAlreadyExists = errors.New("already exists")

	// ErrLogCorrupted is returned when an append-only log is missing a record
	// below its recorded length.
	ErrLogCorrupted = errors.New("append-only log is corrupted")

	// ErrUnknownDriver is returned for a database driver other than postgres
	// or sqlite.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrUnknownBackend is returned for an artifact backend other than file,
	// s3 or gcs.
	ErrUnknownBackend = errors.New("unknown artifact backend")

	// ErrInvalidKey is returned for artifact keys that are empty, absolute
	// or escape the store root.
	ErrInvalidKey = errors.New("invalid artifact key")

	// ErrLockNotAcquired is returned when a distributed lock could not be
	// taken before the context expired.
	ErrLockNotAcquired = errors.New("lock not acquired")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single row fails.
	ErrScanningRow = errors.New("failed to scan proof row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan proof rows")
)
