package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
)

// Node is a fully wired node. Close must be called to release storage.
type Node struct {
	Config   *config.StructuredConfig
	Identity *crypto.Identity
	Registry *crypto.Registry
	Storages *store.Storages
	Services *service.Services
}

// NewNode opens every backend named by cfg and builds the service graph.
// On failure whatever was opened is closed again.
func NewNode(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Node, error) {
	identity, err := LoadIdentity(cfg.App.NodeID, cfg.Signing)
	if err != nil {
		log.Err(err).Str("func", "NewNode").Msg("failed to load signing identity")
		return nil, err
	}

	registry, err := LoadRegistry(cfg.Federation.RegistryFile, identity)
	if err != nil {
		log.Err(err).Str("func", "NewNode").Msg("failed to load node registry")
		return nil, err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("open storages: %w", err)
	}

	retry := adapter.NewRetryPolicy(cfg.Federation)
	insurer := adapter.NewInsurerTransport(cfg.Insurer, retry, log)
	peer := adapter.NewHTTPPeerTransport(identity.NodeID(), cfg.Federation, log)

	services, err := service.NewServices(storages, identity, registry, insurer, peer, *cfg, log)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build services: %w", err), storages.Close())
	}

	log.Info().
		Str("func", "NewNode").
		Str("public_key", crypto.Short(identity.PublicKeyHex(), 16)).
		Int("trusted_nodes", len(registry.Nodes())).
		Msg("node assembled")

	return &Node{
		Config:   cfg,
		Identity: identity,
		Registry: registry,
		Storages: storages,
		Services: services,
	}, nil
}

// Close releases the storage backends.
func (n *Node) Close() error {
	return n.Storages.Close()
}

// LoadIdentity resolves the node's ed25519 identity. A key file wins over
// a passphrase; the passphrase then only unseals the file.
func LoadIdentity(nodeID string, cfg config.Signing) (*crypto.Identity, error) {
	switch {
	case cfg.KeyFile != "":
		return crypto.LoadIdentity(nodeID, cfg.KeyFile, cfg.Passphrase)
	case cfg.Passphrase != "":
		return crypto.NewIdentityFromSeed(nodeID, crypto.DeriveSeed(cfg.Passphrase, cfg.Salt))
	default:
		return nil, ErrNoKeySource
	}
}

// LoadRegistry reads the trusted node registry and makes sure this node is
// in it. A missing path yields a registry holding only this node.
func LoadRegistry(path string, identity *crypto.Identity) (*crypto.Registry, error) {
	registry := crypto.NewRegistry()
	if path != "" {
		var err error
		if registry, err = crypto.LoadRegistry(path); err != nil {
			return nil, err
		}
	}

	self, ok := registry.Node(identity.NodeID())
	if !ok {
		if err := registry.Add(identity.NodeID(), identity.PublicKey(), ""); err != nil {
			return nil, err
		}
		return registry, nil
	}
	if !bytes.Equal(self.PublicKey, identity.PublicKey()) {
		return nil, fmt.Errorf("%w: %s", ErrIdentityMismatch, identity.NodeID())
	}

	return registry, nil
}
