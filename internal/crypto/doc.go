// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds every primitive the proof ledger signs or hashes with:
//
//   - canonical JSON (RFC 8785 after NFC normalisation) for hashed records;
//   - SHA-256 digests, including the length-prefixed field digest used for
//     proof signatures and block hashes;
//   - the node signing [Identity] (ed25519), injected into services and
//     never held in a package-level variable;
//   - key files, optionally sealed with an argon2id-derived key;
//   - the per-node public key [Registry] used to verify federation bundles;
//   - EdDSA verification tokens handed to patients.
package crypto
