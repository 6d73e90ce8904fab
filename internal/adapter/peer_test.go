// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

func newTestPeer() PeerTransport {
	return NewHTTPPeerTransport("clinic-a", config.Federation{
		RequestTimeout:   2 * time.Second,
		RetryMaxAttempts: 2,
		RetryBaseDelay:   time.Millisecond,
		RetryMaxDelay:    2 * time.Millisecond,
		HashKey:          "federation-secret",
	}, logger.Nop())
}

func testEnvelope() models.ExchangeEnvelope {
	return models.ExchangeEnvelope{
		Bundle: models.ExchangeBundle{
			ID:         "bundle-1",
			SourceNode: "clinic-a",
			TargetNode: "clinic-b",
			BlockRange: models.BlockRange{Start: 0, End: 0},
		},
		Blocks: []models.LedgerBlock{{Index: 0, NoteID: "n1"}},
	}
}

func TestHTTPPeer_SendEnvelope_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ExchangePath, r.URL.Path)
		assert.Equal(t, "clinic-a", r.Header.Get(utils.NodeHeader))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.True(t, utils.NewHasher("federation-secret").Equal(body, r.Header.Get(utils.HashHeader)))

		var env models.ExchangeEnvelope
		assert.NoError(t, json.Unmarshal(body, &env))

		bundle := env.Bundle
		bundle.Verified = true
		bundle.Status = models.ExchangeVerified
		_, _ = utils.WriteJSON(w, bundle, http.StatusAccepted)
	}))
	defer srv.Close()

	got, err := newTestPeer().SendEnvelope(context.Background(), srv.URL+"/", testEnvelope())

	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, "bundle-1", got.ID)
}

func TestHTTPPeer_SendEnvelope_NoURL(t *testing.T) {
	_, err := newTestPeer().SendEnvelope(context.Background(), " ", testEnvelope())
	assert.ErrorIs(t, err, ErrNoPeerURL)
}

func TestHTTPPeer_SendEnvelope_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := newTestPeer().SendEnvelope(context.Background(), srv.URL, testEnvelope())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHTTPPeer_SendEnvelope_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestPeer().SendEnvelope(context.Background(), url, testEnvelope())
	assert.ErrorIs(t, err, ErrRetriesExhausted)
}
