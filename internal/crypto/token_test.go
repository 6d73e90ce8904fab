// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationToken_RoundTrip(t *testing.T) {
	id := testIdentity(t, "clinic-a", 7)
	blockHash := DigestHex([]byte("block"))

	token, err := id.IssueVerificationToken("n1", blockHash, time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := ParseVerificationToken(token, id.PublicKey(), "clinic-a")
	require.NoError(t, err)

	assert.Equal(t, "n1", claims.NoteID)
	assert.Equal(t, "n1", claims.Subject)
	assert.Equal(t, blockHash, claims.BlockHash)
	assert.Equal(t, "clinic-a", claims.Issuer)
}

func TestVerificationToken_NoTTL(t *testing.T) {
	id := testIdentity(t, "clinic-a", 7)

	token, err := id.IssueVerificationToken("n1", "abc", time.Now().Add(-48*time.Hour), 0)
	require.NoError(t, err)

	claims, err := ParseVerificationToken(token, id.PublicKey(), "clinic-a")
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestVerificationToken_Rejects(t *testing.T) {
	id := testIdentity(t, "clinic-a", 7)
	other := testIdentity(t, "clinic-b", 9)

	token, err := id.IssueVerificationToken("n1", "abc", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = ParseVerificationToken(token, other.PublicKey(), "clinic-a")
	assert.Error(t, err, "wrong key")

	_, err = ParseVerificationToken(token, id.PublicKey(), "clinic-b")
	assert.Error(t, err, "wrong issuer")

	expired, err := id.IssueVerificationToken("n1", "abc", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = ParseVerificationToken(expired, id.PublicKey(), "clinic-a")
	assert.Error(t, err, "expired")

	_, err = ParseVerificationToken("not-a-token", id.PublicKey(), "clinic-a")
	assert.Error(t, err)
}

func TestIssueVerificationToken_InvalidParams(t *testing.T) {
	id := testIdentity(t, "clinic-a", 7)

	_, err := id.IssueVerificationToken("", "abc", time.Now(), time.Hour)
	assert.Error(t, err)

	_, err = id.IssueVerificationToken("n1", "", time.Now(), time.Hour)
	assert.Error(t, err)
}
