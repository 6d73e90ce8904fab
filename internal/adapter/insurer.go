// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// ClaimAuditPath is the insurer endpoint receiving claim-audit payloads.
const ClaimAuditPath = "/claims/audit"

type httpInsurer struct {
	client  *utils.HTTPClient
	limiter *rate.Limiter
	hasher  *utils.Hasher
	retry   RetryPolicy

	logger *logger.Logger
}

// NewInsurerTransport returns the HTTP insurer transport for cfg, or a
// loopback transport that acknowledges locally when no base URL is set.
func NewInsurerTransport(cfg config.Insurer, retry RetryPolicy, log *logger.Logger) InsurerTransport {
	if cfg.BaseURL == "" {
		log.Info().Str("func", "NewInsurerTransport").Msg("insurer base url is empty, claim audits are acknowledged locally")
		return NewLoopbackInsurer()
	}
	return NewHTTPInsurer(cfg, retry, log)
}

// NewHTTPInsurer builds a rate-limited resty transport towards cfg.BaseURL.
func NewHTTPInsurer(cfg config.Insurer, retry RetryPolicy, log *logger.Logger) InsurerTransport {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &httpInsurer{
		client:  utils.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		hasher:  utils.NewHasher(cfg.HashKey),
		retry:   retry,
		logger:  log,
	}
}

func (h *httpInsurer) SendClaimAudit(ctx context.Context, insurer string, payload models.ClaimAuditPayload) (models.InsuranceAck, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.InsuranceAck{}, fmt.Errorf("marshal claim audit: %w", err)
	}

	var ack models.InsuranceAck
	err = h.retry.Do(ctx, payload.ClaimID, func(ctx context.Context) error {
		if err := h.limiter.Wait(ctx); err != nil {
			return err
		}

		req := h.client.R().
			SetContext(ctx).
			SetQueryParam("insurer", insurer).
			SetBody(body).
			SetResult(&ack)
		if h.hasher != nil {
			req.SetHeader(utils.HashHeader, h.hasher.HashHex(body))
		}

		resp, err := req.Post(ClaimAuditPath)
		if err != nil {
			return fmt.Errorf("claim audit request: %w", err)
		}
		return mapHTTPError(resp)
	})
	if err != nil {
		h.logger.Err(err).
			Str("func", "*httpInsurer.SendClaimAudit").
			Str("insurer", insurer).
			Str("claim_id", payload.ClaimID).
			Msg("claim audit delivery failed")
		return models.InsuranceAck{}, err
	}

	return ack, nil
}

type loopbackInsurer struct{}

// NewLoopbackInsurer returns a transport that acknowledges every payload
// without leaving the process.
func NewLoopbackInsurer() InsurerTransport {
	return loopbackInsurer{}
}

func (loopbackInsurer) SendClaimAudit(ctx context.Context, insurer string, payload models.ClaimAuditPayload) (models.InsuranceAck, error) {
	if err := ctx.Err(); err != nil {
		return models.InsuranceAck{}, err
	}
	return models.InsuranceAck{Acknowledged: true, Reference: "loopback:" + insurer + ":" + payload.ClaimID}, nil
}
