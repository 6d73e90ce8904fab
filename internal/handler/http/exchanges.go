package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type verifyExchangeRequest struct {
	Locator        models.ExchangeLocator `json:"locator"`
	ExpectedSource string                 `json:"expected_source"`
}

func (h *Handler) exchanges(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.services.ExchangeService.Exchanges(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.exchanges", err)
		return
	}
	utils.WriteJSON(w, bundles, http.StatusOK)
}

func (h *Handler) createExchange(w http.ResponseWriter, r *http.Request) {
	var req models.ExchangeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, "*Handler.createExchange", err)
		return
	}

	locator, err := h.services.ExchangeService.CreateBundle(r.Context(), req)
	if err != nil {
		writeError(w, r, "*Handler.createExchange", err)
		return
	}
	utils.WriteJSON(w, locator, http.StatusCreated)
}

func (h *Handler) verifyExchange(w http.ResponseWriter, r *http.Request) {
	var req verifyExchangeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, "*Handler.verifyExchange", err)
		return
	}

	bundle, err := h.services.ExchangeService.VerifyBundle(r.Context(), req.Locator, req.ExpectedSource)
	if err != nil {
		writeError(w, r, "*Handler.verifyExchange", err)
		return
	}
	utils.WriteJSON(w, bundle, http.StatusOK)
}

func (h *Handler) deliverExchange(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.services.ExchangeService.Deliver(r.Context(), chi.URLParam(r, "bundleID"))
	if err != nil {
		writeError(w, r, "*Handler.deliverExchange", err)
		return
	}
	utils.WriteJSON(w, bundle, http.StatusOK)
}

func (h *Handler) sweepExchanges(w http.ResponseWriter, r *http.Request) {
	swept, err := h.services.ExchangeService.SweepStale(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, r, "*Handler.sweepExchanges", err)
		return
	}
	utils.WriteJSON(w, swept, http.StatusOK)
}

// receiveExchange is the peer ingest endpoint. The sending node must be the
// source named in the envelope; everything else is up to verification.
func (h *Handler) receiveExchange(w http.ResponseWriter, r *http.Request) {
	var envelope models.ExchangeEnvelope
	if err := decodeJSON(r, &envelope, false); err != nil {
		writeError(w, r, "*Handler.receiveExchange", err)
		return
	}

	peer, _ := utils.GetPeerNodeFromContext(r.Context())
	if envelope.Bundle.SourceNode != peer {
		writeError(w, r, "*Handler.receiveExchange",
			fmt.Errorf("%w: %q sent a bundle of %q", ErrPeerMismatch, peer, envelope.Bundle.SourceNode))
		return
	}

	bundle, err := h.services.ExchangeService.ReceiveBundle(r.Context(), envelope)
	if err != nil {
		writeError(w, r, "*Handler.receiveExchange", err)
		return
	}

	logger.FromRequest(r).Info().
		Str("bundle_id", bundle.ID).
		Str("peer", peer).
		Str("status", bundle.Status).
		Msg("exchange bundle received")
	utils.WriteJSON(w, bundle, http.StatusOK)
}
