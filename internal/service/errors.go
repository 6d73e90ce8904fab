// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by a service wraps exactly one of
// them, so handlers and the CLI can decide on retries with [errors.Is].
var (
	// ErrInvalidInput: a required field is missing or malformed. Retrying
	// without fixing the request will not help.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingPrerequisite: an artifact an operation depends on does not
	// exist yet. Retryable once the dependency has been produced.
	ErrMissingPrerequisite = errors.New("missing prerequisite artifact")

	// ErrTransport: insurer or peer delivery failed after retries.
	ErrTransport = errors.New("transport failure")

	// ErrStorage: a store read or write failed.
	ErrStorage = errors.New("storage failure")
)

// Missing prerequisites. Each wraps [ErrMissingPrerequisite].
var (
	ErrProofNotFound       = wrapClass(ErrMissingPrerequisite, "proof not found")
	ErrBundleNotFound      = wrapClass(ErrMissingPrerequisite, "evidence bundle not found")
	ErrLedgerEntryNotFound = wrapClass(ErrMissingPrerequisite, "ledger entry not found")
	ErrReportNotFound      = wrapClass(ErrMissingPrerequisite, "compliance report not found")
	ErrExportNotFound      = wrapClass(ErrMissingPrerequisite, "regulator export input missing")
	ErrChainEmpty          = wrapClass(ErrMissingPrerequisite, "block chain is empty")
	ErrBlockNotFound       = wrapClass(ErrMissingPrerequisite, "no block for note")
	ErrExchangeNotFound    = wrapClass(ErrMissingPrerequisite, "exchange bundle not found")
)

// Invalid inputs specific to services. Field validation errors come from
// the validators package and are wrapped with [ErrInvalidInput].
var (
	ErrProofExists       = wrapClass(ErrInvalidInput, "proof already exists for note")
	ErrEmptyInsurer      = wrapClass(ErrInvalidInput, "insurer name is required")
	ErrEmptyTargetNode   = wrapClass(ErrInvalidInput, "target node is required")
	ErrForeignSource     = wrapClass(ErrInvalidInput, "bundles can only be created for the local node")
	ErrRangeOutsideChain = wrapClass(ErrInvalidInput, "block range is outside the chain")
	ErrBundleNotSendable = wrapClass(ErrInvalidInput, "exchange bundle cannot be delivered in its current state")
)

var ErrVersionIsNotSpecified = errors.New("app version is not specified")

type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }

func wrapClass(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
