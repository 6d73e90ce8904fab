// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the peer ingest endpoint.
var (
	// ErrEmptyNodeHeader is returned when a peer request carries no
	// X-Node-ID header.
	ErrEmptyNodeHeader = errors.New("empty `X-Node-ID` header")

	// ErrPeerMismatch is returned when the announcing node is not the
	// source named inside the envelope.
	ErrPeerMismatch = errors.New("envelope source does not match the sending node")

	// ErrIntegrityCheckFailed is returned when the HashSHA256 header does
	// not match the request body.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrInvalidJSON is returned for request bodies that cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")
)
