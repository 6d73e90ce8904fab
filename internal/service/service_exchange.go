// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

const (
	outboxDir = exchangeDir + "/outbox"
	inboxDir  = exchangeDir + "/inbox"
)

var errMisaddressed = wrapClass(ErrInvalidInput, "exchange bundle is addressed to another node")

// exchangeService replicates chain slices between nodes. The exchange log
// only ever grows: each status change is a new event and the current state
// of a bundle is the fold of its events.
type exchangeService struct {
	chain      ChainService
	artifacts  store.ArtifactStore
	log        store.AppendLog
	signer     crypto.Signer
	registry   *crypto.Registry
	keys       keyResolver
	transport  adapter.PeerTransport
	validator  validators.Validator
	schema     *jsonschema.Schema
	ids        *utils.UUIDGenerator
	staleAfter time.Duration
	clock      clock

	logger *logger.Logger
}

func NewExchangeService(
	chain ChainService,
	artifacts store.ArtifactStore,
	log store.AppendLog,
	signer crypto.Signer,
	registry *crypto.Registry,
	transport adapter.PeerTransport,
	staleAfter time.Duration,
	logger *logger.Logger,
) ExchangeService {
	return &exchangeService{
		chain:      chain,
		artifacts:  artifacts,
		log:        log,
		signer:     signer,
		registry:   registry,
		keys:       keyResolver{signer: signer, registry: registry},
		transport:  transport,
		validator:  validators.NewNoteValidator(),
		schema:     compileSchema(envelopeSchemaFile),
		ids:        utils.NewUUIDGenerator(),
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// bundleMessage is what the source node signs. Status fields are local
// bookkeeping and deliberately left out.
func bundleMessage(b models.ExchangeBundle) []byte {
	return crypto.FieldsMessage(
		b.ID,
		b.SourceNode,
		b.TargetNode,
		strconv.FormatUint(b.BlockRange.Start, 10),
		strconv.FormatUint(b.BlockRange.End, 10),
		b.PayloadHash,
		models.FormatTimestamp(b.Timestamp),
	)
}

func slicePayloadHash(blocks []models.LedgerBlock) (string, error) {
	return crypto.CanonicalHash(blocks)
}

func (e *exchangeService) CreateBundle(ctx context.Context, request models.ExchangeRequest) (models.ExchangeLocator, error) {
	self := e.signer.NodeID()
	source := strings.TrimSpace(request.SourceNode)
	if source == "" {
		source = self
	}
	if source != self {
		return models.ExchangeLocator{}, ErrForeignSource
	}
	target := strings.TrimSpace(request.TargetNode)
	if target == "" {
		return models.ExchangeLocator{}, ErrEmptyTargetNode
	}
	if err := e.validator.Validate(ctx, request.BlockRange); err != nil {
		return models.ExchangeLocator{}, invalidInput(err)
	}

	blocks, err := e.chain.Blocks(ctx)
	if err != nil {
		return models.ExchangeLocator{}, err
	}
	if len(blocks) == 0 {
		return models.ExchangeLocator{}, ErrChainEmpty
	}
	if request.BlockRange.End >= uint64(len(blocks)) {
		return models.ExchangeLocator{}, fmt.Errorf("%w: chain has %d blocks", ErrRangeOutsideChain, len(blocks))
	}
	slice := blocks[request.BlockRange.Start : request.BlockRange.End+1]

	payloadHash, err := slicePayloadHash(slice)
	if err != nil {
		return models.ExchangeLocator{}, fmt.Errorf("hash chain slice: %w", err)
	}

	now := e.clock.now()
	bundle := models.ExchangeBundle{
		ID:          e.ids.Generate(),
		SourceNode:  source,
		TargetNode:  target,
		BlockRange:  request.BlockRange,
		PayloadHash: payloadHash,
		Timestamp:   now,
	}
	bundle.Signature = e.signer.Sign(bundleMessage(bundle))

	key := path.Join(outboxDir, bundle.ID, envelopeFile)
	envelope := models.ExchangeEnvelope{Bundle: bundle, Blocks: slice}
	if _, err = writeArtifactJSON(ctx, e.artifacts, key, envelope); err != nil {
		e.logger.Err(err).Str("func", "*exchangeService.CreateBundle").Str("bundle_id", bundle.ID).Msg("failed to persist slice")
		return models.ExchangeLocator{}, err
	}

	if _, err = e.appendEvent(ctx, bundle, models.ExchangeOutbound, models.ExchangeCreated, ""); err != nil {
		return models.ExchangeLocator{}, err
	}

	e.logger.Info().
		Str("bundle_id", bundle.ID).
		Str("target", target).
		Uint64("start", request.BlockRange.Start).
		Uint64("end", request.BlockRange.End).
		Msg("exchange bundle created")
	return models.ExchangeLocator{BundleID: bundle.ID, Key: key}, nil
}

// VerifyBundle re-checks a persisted slice: envelope schema, claimed source,
// the source's registered key, payload hash and the internal links and
// signatures of every block. The outcome is appended to the exchange log
// whether it passed or not.
func (e *exchangeService) VerifyBundle(ctx context.Context, locator models.ExchangeLocator, expectedSource string) (models.ExchangeBundle, error) {
	direction, ok := locatorDirection(locator.Key)
	if !ok {
		return models.ExchangeBundle{}, invalidInput(store.ErrInvalidKey)
	}

	raw, err := e.artifacts.Get(ctx, locator.Key)
	if errors.Is(err, store.ErrNotFound) {
		return models.ExchangeBundle{}, ErrExchangeNotFound
	}
	if err != nil {
		return models.ExchangeBundle{}, storageError("read exchange envelope", err)
	}

	envelope, reason := e.checkEnvelope(raw, expectedSource)
	bundle := envelope.Bundle
	if bundle.ID == "" {
		bundle.ID = locator.BundleID
	}
	if reason == "" && locator.BundleID != "" && locator.BundleID != bundle.ID {
		reason = fmt.Sprintf("envelope holds bundle %s, not %s", bundle.ID, locator.BundleID)
	}

	if direction == models.ExchangeOutbound {
		id := bundle.ID
		if locator.BundleID != "" {
			id = locator.BundleID
		}
		return e.selfCheck(ctx, id, reason)
	}

	status := models.ExchangeVerified
	if reason != "" {
		status = models.ExchangeRejected
	}
	bundle, err = e.appendEvent(ctx, bundle, direction, status, reason)
	if err != nil {
		return models.ExchangeBundle{}, err
	}

	if !bundle.Verified {
		e.logger.Warn().Str("bundle_id", bundle.ID).Str("source", expectedSource).Str("reason", reason).Msg("exchange bundle rejected")
	} else {
		e.logger.Info().Str("bundle_id", bundle.ID).Str("source", expectedSource).Msg("exchange bundle verified")
	}
	return bundle, nil
}

// selfCheck records the sender re-checking its own outbound slice. The
// bundle keeps its delivery status either way: only the target decides
// whether a slice is verified, and a pending bundle must stay deliverable
// and sweepable.
func (e *exchangeService) selfCheck(ctx context.Context, bundleID, reason string) (models.ExchangeBundle, error) {
	current, found, err := e.state(ctx, models.ExchangeOutbound, bundleID)
	if err != nil {
		return models.ExchangeBundle{}, err
	}
	if !found {
		return models.ExchangeBundle{}, ErrExchangeNotFound
	}

	current.Verified = reason == ""
	current.Reason = "self-check passed"
	if reason != "" {
		current.Reason = "self-check failed: " + reason
		e.logger.Warn().Str("bundle_id", bundleID).Str("reason", reason).Msg("outbound exchange bundle failed self-check")
	}
	return e.record(ctx, models.ExchangeSelfChecked, current)
}

func locatorDirection(key string) (string, bool) {
	switch {
	case strings.HasPrefix(key, outboxDir+"/"):
		return models.ExchangeOutbound, true
	case strings.HasPrefix(key, inboxDir+"/"):
		return models.ExchangeInbound, true
	}
	return "", false
}

// checkEnvelope returns the decoded envelope and the first reason it cannot
// be trusted, or "" when every check passed.
func (e *exchangeService) checkEnvelope(raw []byte, expectedSource string) (models.ExchangeEnvelope, string) {
	var envelope models.ExchangeEnvelope
	if err := validateSchema(e.schema, raw); err != nil {
		_ = json.Unmarshal(raw, &envelope)
		return envelope, fmt.Sprintf("envelope does not match its schema: %v", err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return envelope, fmt.Sprintf("envelope is not decodable: %v", err)
	}

	b := envelope.Bundle
	if b.SourceNode != expectedSource {
		return envelope, fmt.Sprintf("bundle claims source %q, expected %q", b.SourceNode, expectedSource)
	}
	pub, err := e.keys.publicKey(b.SourceNode)
	if err != nil {
		return envelope, fmt.Sprintf("no trusted key for source: %v", err)
	}
	if !crypto.VerifyWithKey(pub, bundleMessage(b), b.Signature) {
		return envelope, "bundle signature is invalid"
	}

	payloadHash, err := slicePayloadHash(envelope.Blocks)
	if err != nil {
		return envelope, fmt.Sprintf("slice is not hashable: %v", err)
	}
	if payloadHash != b.PayloadHash {
		return envelope, "payload hash does not match the slice"
	}
	if b.BlockRange.Start > b.BlockRange.End || uint64(len(envelope.Blocks)) != b.BlockRange.End-b.BlockRange.Start+1 {
		return envelope, fmt.Sprintf("slice has %d blocks, range %d..%d", len(envelope.Blocks), b.BlockRange.Start, b.BlockRange.End)
	}

	// the link into the first block can only be checked at genesis
	prevHash := envelope.Blocks[0].PrevHash
	if b.BlockRange.Start == 0 {
		prevHash = models.ZeroHash
	}
	if result := validateBlocks(envelope.Blocks, prevHash, b.BlockRange.Start, pub); !result.Valid {
		return envelope, fmt.Sprintf("block %d: %s", result.FailedIndex, result.Reason)
	}
	return envelope, ""
}

// ReceiveBundle is the peer side of a delivery. A bundle that already
// verified is returned as is, so redeliveries do not grow the log.
func (e *exchangeService) ReceiveBundle(ctx context.Context, envelope models.ExchangeEnvelope) (models.ExchangeBundle, error) {
	id := envelope.Bundle.ID
	if err := validators.ValidateNoteID(id); err != nil {
		return models.ExchangeBundle{}, invalidInput(fmt.Errorf("bundle id: %w", err))
	}
	if envelope.Bundle.TargetNode != e.signer.NodeID() {
		return models.ExchangeBundle{}, errMisaddressed
	}

	current, found, err := e.state(ctx, models.ExchangeInbound, id)
	if err != nil {
		return models.ExchangeBundle{}, err
	}
	if found && current.Status == models.ExchangeVerified {
		return current, nil
	}

	// local bookkeeping of the sender is not ours to keep
	envelope.Bundle.Verified = false
	envelope.Bundle.Status = ""
	envelope.Bundle.Direction = ""
	envelope.Bundle.Reason = ""
	envelope.Bundle.UpdatedAt = time.Time{}

	key := path.Join(inboxDir, id, envelopeFile)
	if _, err = writeArtifactJSON(ctx, e.artifacts, key, envelope); err != nil {
		e.logger.Err(err).Str("func", "*exchangeService.ReceiveBundle").Str("bundle_id", id).Msg("failed to persist received slice")
		return models.ExchangeBundle{}, err
	}
	if _, err = e.appendEvent(ctx, envelope.Bundle, models.ExchangeInbound, models.ExchangeReceived, ""); err != nil {
		return models.ExchangeBundle{}, err
	}

	return e.VerifyBundle(ctx, models.ExchangeLocator{BundleID: id, Key: key}, envelope.Bundle.SourceNode)
}

// Deliver sends an outbound bundle to its target. Nothing is appended while
// the outcome is unknown: a delivery cut short by cancellation leaves the
// bundle in its previous state.
func (e *exchangeService) Deliver(ctx context.Context, bundleID string) (models.ExchangeBundle, error) {
	bundle, found, err := e.state(ctx, models.ExchangeOutbound, bundleID)
	if err != nil {
		return models.ExchangeBundle{}, err
	}
	if !found {
		return models.ExchangeBundle{}, ErrExchangeNotFound
	}
	switch bundle.Status {
	case models.ExchangeCreated, models.ExchangeFailed, models.ExchangeStale:
	default:
		return models.ExchangeBundle{}, fmt.Errorf("%w: %s is %s", ErrBundleNotSendable, bundleID, bundle.Status)
	}

	var envelope models.ExchangeEnvelope
	if _, err = readArtifactJSON(ctx, e.artifacts, path.Join(outboxDir, bundleID, envelopeFile), &envelope); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ExchangeBundle{}, ErrExchangeNotFound
		}
		return models.ExchangeBundle{}, storageError("read exchange envelope", err)
	}

	remote, sendErr := e.transport.SendEnvelope(ctx, e.peerURL(bundle.TargetNode), envelope)
	if sendErr != nil && ctx.Err() != nil {
		return bundle, fmt.Errorf("%w: delivery of %s interrupted: %w", ErrTransport, bundleID, sendErr)
	}

	if sendErr != nil {
		e.logger.Err(sendErr).
			Str("func", "*exchangeService.Deliver").
			Str("bundle_id", bundleID).
			Str("target", bundle.TargetNode).
			Msg("exchange delivery failed")
		bundle, err = e.appendEvent(ctx, bundle, models.ExchangeOutbound, models.ExchangeFailed, sendErr.Error())
		if err != nil {
			return models.ExchangeBundle{}, errors.Join(fmt.Errorf("%w: %w", ErrTransport, sendErr), err)
		}
		return bundle, fmt.Errorf("%w: %w", ErrTransport, sendErr)
	}

	bundle, err = e.appendEvent(ctx, bundle, models.ExchangeOutbound, models.ExchangeDelivered, "peer status: "+remote.Status)
	if err != nil {
		return models.ExchangeBundle{}, err
	}
	e.logger.Info().Str("bundle_id", bundleID).Str("target", bundle.TargetNode).Str("peer_status", remote.Status).Msg("exchange bundle delivered")
	return bundle, nil
}

func (e *exchangeService) peerURL(nodeID string) string {
	if e.registry == nil {
		return ""
	}
	node, ok := e.registry.Node(nodeID)
	if !ok || node.Revoked {
		return ""
	}
	return node.URL
}

// SweepStale marks bundles that never reached a terminal state within
// staleAfter of their creation.
func (e *exchangeService) SweepStale(ctx context.Context, now time.Time) ([]models.ExchangeBundle, error) {
	swept := make([]models.ExchangeBundle, 0)
	if e.staleAfter <= 0 {
		return swept, nil
	}

	bundles, err := e.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	for _, bundle := range bundles {
		if !isPending(bundle.Status) || now.Sub(bundle.Timestamp) < e.staleAfter {
			continue
		}
		reason := fmt.Sprintf("not verified within %s", e.staleAfter)
		stale, err := e.appendEvent(ctx, bundle, bundle.Direction, models.ExchangeStale, reason)
		if err != nil {
			return swept, err
		}
		swept = append(swept, stale)
	}

	if len(swept) > 0 {
		e.logger.Warn().Int("bundles", len(swept)).Msg("exchange bundles marked stale")
	}
	return swept, nil
}

func isPending(status string) bool {
	switch status {
	case models.ExchangeCreated, models.ExchangeFailed, models.ExchangeReceived:
		return true
	}
	return false
}

// Exchanges folds the exchange log into the current state of every bundle,
// in the order bundles first appeared. An inbound and an outbound bundle
// sharing an id are listed separately.
func (e *exchangeService) Exchanges(ctx context.Context) ([]models.ExchangeBundle, error) {
	var order []string
	latest := make(map[string]models.ExchangeBundle)

	err := scanRecords(ctx, e.log, func(_ uint64, event models.ExchangeEvent) error {
		bundle := e.withDirection(event.Bundle)
		key := bundle.Direction + "/" + bundle.ID
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = bundle
		return nil
	})
	if err != nil {
		return nil, storageError("scan exchange log", err)
	}

	bundles := make([]models.ExchangeBundle, 0, len(order))
	for _, key := range order {
		bundles = append(bundles, latest[key])
	}
	return bundles, nil
}

func (e *exchangeService) state(ctx context.Context, direction, bundleID string) (models.ExchangeBundle, bool, error) {
	var (
		bundle models.ExchangeBundle
		found  bool
	)
	err := scanRecords(ctx, e.log, func(_ uint64, event models.ExchangeEvent) error {
		if event.BundleID != bundleID {
			return nil
		}
		if b := e.withDirection(event.Bundle); b.Direction == direction {
			bundle, found = b, true
		}
		return nil
	})
	if err != nil {
		return models.ExchangeBundle{}, false, storageError("scan exchange log", err)
	}
	return bundle, found, nil
}

// withDirection fills the direction of events written before bundles
// carried one.
func (e *exchangeService) withDirection(bundle models.ExchangeBundle) models.ExchangeBundle {
	if bundle.Direction != "" {
		return bundle
	}
	bundle.Direction = models.ExchangeInbound
	if bundle.SourceNode == e.signer.NodeID() {
		bundle.Direction = models.ExchangeOutbound
	}
	return bundle
}

func (e *exchangeService) appendEvent(ctx context.Context, bundle models.ExchangeBundle, direction, status, reason string) (models.ExchangeBundle, error) {
	bundle.Direction = direction
	bundle.Status = status
	bundle.Reason = reason
	bundle.Verified = status == models.ExchangeVerified
	return e.record(ctx, status, bundle)
}

// record appends an event of the given kind carrying bundle as its new state.
func (e *exchangeService) record(ctx context.Context, kind string, bundle models.ExchangeBundle) (models.ExchangeBundle, error) {
	now := e.clock.now()
	bundle.UpdatedAt = now

	_, err := e.log.Append(ctx, func(index uint64) ([]byte, error) {
		return json.Marshal(models.ExchangeEvent{
			Index:     index,
			BundleID:  bundle.ID,
			Status:    kind,
			Bundle:    bundle,
			Reason:    bundle.Reason,
			Timestamp: now,
		})
	})
	if err != nil {
		e.logger.Err(err).Str("func", "*exchangeService.record").Str("bundle_id", bundle.ID).Str("status", kind).Msg("failed to append exchange event")
		return models.ExchangeBundle{}, storageError("append exchange event", err)
	}
	return bundle, nil
}
