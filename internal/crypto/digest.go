// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DigestBytes returns the raw SHA-256 digest of data.
func DigestBytes(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DigestHex returns the SHA-256 digest of data as lowercase hex.
func DigestHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FieldsMessage encodes parts as a sequence of (uint64 big-endian length,
// bytes) pairs. Two different field lists never share an encoding, unlike a
// plain concatenation.
func FieldsMessage(parts ...string) []byte {
	size := 0
	for _, p := range parts {
		size += 8 + len(p)
	}

	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(p)))
		buf = append(buf, p...)
	}
	return buf
}

// DigestFields returns the hex SHA-256 of FieldsMessage(parts...).
func DigestFields(parts ...string) string {
	return DigestHex(FieldsMessage(parts...))
}

// IsHexDigest reports whether s is a 64-character lowercase hex string.
func IsHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Short returns the first n characters of a digest for display.
func Short(digest string, n int) string {
	if len(digest) <= n {
		return digest
	}
	return digest[:n]
}
