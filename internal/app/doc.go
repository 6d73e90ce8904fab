// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles a proof ledger node from its configuration: the
// signing identity, the trusted node registry, every storage backend, the
// outbound transports and the service graph.
//
// Both the HTTP node (cmd/server) and the operator CLI (cmd/proofctl) start
// from [NewNode], so they always see the same wiring.
package app
