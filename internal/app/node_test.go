package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/models"
)

func seed(b byte) []byte {
	return []byte(strings.Repeat(string(rune(b)), 32))
}

func writeKeyFile(t *testing.T, s []byte, passphrase string) string {
	t.Helper()
	content, err := crypto.EncodeKeyFile(s, passphrase)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "node.key")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeRegistry(t *testing.T, entries map[string]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("nodes:\n")
	for id, pub := range entries {
		fmt.Fprintf(&b, "  - id: %s\n    public_key: %s\n    url: http://%s.example\n", id, pub, id)
	}
	path := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestLoadIdentity(t *testing.T) {
	want, err := crypto.NewIdentityFromSeed("clinic-a", seed('a'))
	require.NoError(t, err)

	t.Run("plain key file", func(t *testing.T) {
		id, err := LoadIdentity("clinic-a", config.Signing{KeyFile: writeKeyFile(t, seed('a'), "")})
		require.NoError(t, err)
		assert.Equal(t, want.PublicKeyHex(), id.PublicKeyHex())
		assert.Equal(t, "clinic-a", id.NodeID())
	})

	t.Run("sealed key file", func(t *testing.T) {
		id, err := LoadIdentity("clinic-a", config.Signing{
			KeyFile:    writeKeyFile(t, seed('a'), "secret"),
			Passphrase: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, want.PublicKeyHex(), id.PublicKeyHex())
	})

	t.Run("passphrase is deterministic", func(t *testing.T) {
		cfg := config.Signing{Passphrase: "pp", Salt: "clinic-a-salt"}
		first, err := LoadIdentity("clinic-a", cfg)
		require.NoError(t, err)
		second, err := LoadIdentity("clinic-a", cfg)
		require.NoError(t, err)
		assert.Equal(t, first.PublicKeyHex(), second.PublicKeyHex())
	})

	t.Run("no source", func(t *testing.T) {
		_, err := LoadIdentity("clinic-a", config.Signing{})
		assert.ErrorIs(t, err, ErrNoKeySource)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadIdentity("clinic-a", config.Signing{KeyFile: "/no/such.key"})
		assert.ErrorIs(t, err, crypto.ErrInvalidKeyFile)
	})
}

func TestLoadRegistry(t *testing.T) {
	self, err := crypto.NewIdentityFromSeed("clinic-a", seed('a'))
	require.NoError(t, err)
	peer, err := crypto.NewIdentityFromSeed("clinic-b", seed('b'))
	require.NoError(t, err)

	t.Run("no file holds only self", func(t *testing.T) {
		reg, err := LoadRegistry("", self)
		require.NoError(t, err)
		require.Len(t, reg.Nodes(), 1)
		assert.Equal(t, "clinic-a", reg.Nodes()[0].NodeID)
	})

	t.Run("self is added to file entries", func(t *testing.T) {
		reg, err := LoadRegistry(writeRegistry(t, map[string]string{"clinic-b": peer.PublicKeyHex()}), self)
		require.NoError(t, err)
		assert.Len(t, reg.Nodes(), 2)

		info, ok := reg.Node("clinic-b")
		require.True(t, ok)
		assert.Equal(t, "http://clinic-b.example", info.URL)
	})

	t.Run("matching self entry", func(t *testing.T) {
		_, err := LoadRegistry(writeRegistry(t, map[string]string{"clinic-a": self.PublicKeyHex()}), self)
		assert.NoError(t, err)
	})

	t.Run("conflicting self entry", func(t *testing.T) {
		_, err := LoadRegistry(writeRegistry(t, map[string]string{"clinic-a": peer.PublicKeyHex()}), self)
		assert.ErrorIs(t, err, ErrIdentityMismatch)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"), self)
		assert.Error(t, err)
	})
}

func testConfig(t *testing.T) *config.StructuredConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.StructuredConfig{
		App: config.App{NodeID: "clinic-a", RegulatorName: "cpso", Version: "test"},
		Storage: config.Storage{
			DB:        config.DB{Driver: config.DriverSQLite, DSN: filepath.Join(dir, "proofs.db")},
			Logs:      config.Logs{Dir: filepath.Join(dir, "logs")},
			Artifacts: config.Artifacts{Backend: config.BackendFile, Dir: filepath.Join(dir, "artifacts")},
		},
		Signing: config.Signing{Passphrase: "pp", Salt: "salt"},
		Federation: config.Federation{
			RetryMaxAttempts: 1,
		},
	}
}

func TestNewNode_ProvesAndChains(t *testing.T) {
	ctx := context.Background()
	node, err := NewNode(ctx, testConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, node.Close()) })

	proof, err := node.Services.ProofService.GenerateProof(ctx, models.NoteInput{
		UserID:         "dr-1",
		NoteID:         "n1",
		IntegrityHash:  strings.Repeat("ab", 32),
		ConsentVersion: "v1",
	})
	require.NoError(t, err)
	assert.True(t, proof.Verified)
	assert.Equal(t, "clinic-a", proof.SignerID)

	blocks, err := node.Services.ChainService.BuildLedger(ctx)
	require.NoError(t, err)
	assert.Len(t, blocks, 1)

	assert.Equal(t, "clinic-a", node.Services.AppInfoService.GetNodeID(ctx))
}

func TestNewNode_BadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.DB.Driver = "oracle"

	_, err := NewNode(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestNewNode_NoKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Signing = config.Signing{}

	_, err := NewNode(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, ErrNoKeySource)
}
