// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound transports of a proof ledger node:
// delivery of claim-audit payloads to an insurer and delivery of exchange
// envelopes to peer nodes.
//
// Both transports are interfaces so that services stay transport-agnostic
// and can be tested with generated mocks (see internal/mock). The HTTP
// implementations use resty, retry transient failures with exponential
// backoff and deterministic jitter ([RetryPolicy]), and sign request bodies
// into the HashSHA256 header when a hash key is configured.
//
// HTTP status codes are mapped to the sentinel errors in errors.go by
// mapHTTPError so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-proof-ledger/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// InsurerTransport delivers claim-audit payloads to an insurer.
type InsurerTransport interface {
	// SendClaimAudit delivers payload to insurer and returns its
	// acknowledgement. A returned error means no definitive outcome was
	// reached, even after retries.
	SendClaimAudit(ctx context.Context, insurer string, payload models.ClaimAuditPayload) (models.InsuranceAck, error)
}

// PeerTransport transfers chain slices to other federation nodes.
type PeerTransport interface {
	// SendEnvelope posts envelope to the peer reachable at peerURL and
	// returns the peer's view of the bundle after it verified it.
	SendEnvelope(ctx context.Context, peerURL string, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error)
}
