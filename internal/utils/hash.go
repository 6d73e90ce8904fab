// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request body between nodes
// and towards the insurer.
const HashHeader = "HashSHA256"

// Hasher computes keyed HMAC-SHA256 digests over request bodies. Each
// Hasher owns a pool of HMAC instances bound to its key, so the insurer
// and the federation can use different secrets in one process.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher for hashKey. An empty key yields nil; callers
// treat a nil *Hasher as "body hashing disabled".
//
// Example usage:
//
//	h := utils.NewHasher("my-secret-key")
//	header := h.HashHex(body)
func NewHasher(hashKey string) *Hasher {
	if hashKey == "" {
		return nil
	}

	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a pooled hasher.
func (h *Hasher) Hash(data []byte) []byte {
	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashHex is Hash rendered as lowercase hex.
func (h *Hasher) HashHex(data []byte) string {
	return hex.EncodeToString(h.Hash(data))
}

// Equal reports whether expectedHex is the HMAC of data. The comparison is
// constant time.
func (h *Hasher) Equal(data []byte, expectedHex string) bool {
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Hash(data), expected)
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Unlike Hasher.Hash it creates a new HMAC instance on each call. Suitable
// for one-off hashing.
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
