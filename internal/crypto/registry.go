// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Trust event types applied to a [Registry].
const (
	KeyAdded   = "KEY_ADDED"
	KeyRevoked = "KEY_REVOKED"
	KeyRotated = "KEY_ROTATED"
)

// TrustEvent is a key lifecycle change for one node.
type TrustEvent struct {
	EventType string
	NodeID    string
	PublicKey ed25519.PublicKey
	URL       string
}

// NodeInfo is the registry's current view of a node.
type NodeInfo struct {
	NodeID    string
	PublicKey ed25519.PublicKey
	URL       string
	Revoked   bool
}

// Registry maps federation node ids to their current public keys. It is
// event-sourced: the current view is the result of applying every event in
// order. A revoked node keeps its entry so that lookups can tell "revoked"
// from "never known".
type Registry struct {
	mu     sync.RWMutex
	events []TrustEvent
	nodes  map[string]NodeInfo
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]NodeInfo)}
}

// Apply processes one trust event.
func (r *Registry) Apply(event TrustEvent) error {
	if event.NodeID == "" {
		return ErrEmptyNodeID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.EventType {
	case KeyAdded, KeyRotated:
		if len(event.PublicKey) != ed25519.PublicKeySize {
			return fmt.Errorf("%w: %s for node %s", ErrInvalidPublicKey, event.EventType, event.NodeID)
		}
		url := event.URL
		if url == "" {
			url = r.nodes[event.NodeID].URL
		}
		r.nodes[event.NodeID] = NodeInfo{NodeID: event.NodeID, PublicKey: event.PublicKey, URL: url}
	case KeyRevoked:
		info, ok := r.nodes[event.NodeID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, event.NodeID)
		}
		info.Revoked = true
		r.nodes[event.NodeID] = info
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTrustEvent, event.EventType)
	}

	r.events = append(r.events, event)
	return nil
}

// Add registers (or replaces) a node key.
func (r *Registry) Add(nodeID string, pub ed25519.PublicKey, url string) error {
	return r.Apply(TrustEvent{EventType: KeyAdded, NodeID: nodeID, PublicKey: pub, URL: url})
}

// Revoke marks a node's key as no longer trusted.
func (r *Registry) Revoke(nodeID string) error {
	return r.Apply(TrustEvent{EventType: KeyRevoked, NodeID: nodeID})
}

// PublicKey returns the trusted key of nodeID.
func (r *Registry) PublicKey(nodeID string) (ed25519.PublicKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.nodes[nodeID]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	case info.Revoked:
		return nil, fmt.Errorf("%w: %s", ErrRevokedNode, nodeID)
	}
	return info.PublicKey, nil
}

// Node returns the registry entry for nodeID.
func (r *Registry) Node(nodeID string) (NodeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.nodes[nodeID]
	return info, ok
}

// Nodes lists every known node ordered by id.
func (r *Registry) Nodes() []NodeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]NodeInfo, 0, len(r.nodes))
	for _, info := range r.nodes {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// Events returns a copy of the applied event history.
func (r *Registry) Events() []TrustEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TrustEvent(nil), r.events...)
}

type registryFile struct {
	Nodes []struct {
		ID        string `yaml:"id"`
		PublicKey string `yaml:"public_key"`
		URL       string `yaml:"url"`
		Revoked   bool   `yaml:"revoked"`
	} `yaml:"nodes"`
}

// LoadRegistry reads a YAML registry file:
//
//	nodes:
//	  - id: clinic-a
//	    public_key: <hex ed25519 key>
//	    url: https://clinic-a.example
//	    revoked: false
func LoadRegistry(path string) (*Registry, error) {
	// #nosec G304 -- path is operator-configured.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read node registry: %w", err)
	}
	return ParseRegistry(raw)
}

// ParseRegistry builds a registry from YAML content.
func ParseRegistry(raw []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode node registry: %w", err)
	}

	reg := NewRegistry()
	for _, n := range file.Nodes {
		pub, err := ParsePublicKeyHex(n.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if err := reg.Add(n.ID, pub, n.URL); err != nil {
			return nil, err
		}
		if n.Revoked {
			if err := reg.Revoke(n.ID); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}
