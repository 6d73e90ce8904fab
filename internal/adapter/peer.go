// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// ExchangePath is the peer ingest endpoint for exchange envelopes.
const ExchangePath = "/api/federation/exchanges"

type httpPeer struct {
	client *utils.HTTPClient
	hasher *utils.Hasher
	nodeID string
	retry  RetryPolicy

	logger *logger.Logger
}

// NewHTTPPeerTransport returns a resty transport that posts envelopes to
// peers as nodeID.
func NewHTTPPeerTransport(nodeID string, cfg config.Federation, log *logger.Logger) PeerTransport {
	return &httpPeer{
		client: utils.NewHTTPClient("", cfg.RequestTimeout),
		hasher: utils.NewHasher(cfg.HashKey),
		nodeID: nodeID,
		retry:  NewRetryPolicy(cfg),
		logger: log,
	}
}

func (p *httpPeer) SendEnvelope(ctx context.Context, peerURL string, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error) {
	peerURL = strings.TrimRight(strings.TrimSpace(peerURL), "/")
	if peerURL == "" {
		return models.ExchangeBundle{}, fmt.Errorf("%w: %s", ErrNoPeerURL, envelope.Bundle.TargetNode)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return models.ExchangeBundle{}, fmt.Errorf("marshal envelope: %w", err)
	}

	var remote models.ExchangeBundle
	err = p.retry.Do(ctx, envelope.Bundle.ID, func(ctx context.Context) error {
		req := p.client.R().
			SetContext(ctx).
			SetHeader(utils.NodeHeader, p.nodeID).
			SetBody(body).
			SetResult(&remote)
		if p.hasher != nil {
			req.SetHeader(utils.HashHeader, p.hasher.HashHex(body))
		}

		resp, err := req.Post(peerURL + ExchangePath)
		if err != nil {
			return fmt.Errorf("exchange request: %w", err)
		}
		return mapHTTPError(resp)
	})
	if err != nil {
		p.logger.Err(err).
			Str("func", "*httpPeer.SendEnvelope").
			Str("bundle_id", envelope.Bundle.ID).
			Str("peer", envelope.Bundle.TargetNode).
			Msg("exchange delivery failed")
		return models.ExchangeBundle{}, err
	}

	return remote, nil
}
