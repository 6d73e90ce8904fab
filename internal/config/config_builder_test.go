// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func minimalValid() *StructuredConfig {
	return &StructuredConfig{
		App:     App{NodeID: "clinic-a"},
		Signing: Signing{KeyFile: "/etc/node.key"},
	}
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.ErrorIs(t, err, ErrInvalidSigningConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_DefaultsFillGaps(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, minimalValid())

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "clinic-a", cfg.App.NodeID)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
	assert.Equal(t, BackendFile, cfg.Storage.Artifacts.Backend)
	assert.Equal(t, 5, cfg.Federation.RetryMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Federation.StaleAfter)
}

func TestBuild_EarlierSourceWins(t *testing.T) {
	first := minimalValid()
	first.Server.HTTPAddress = "127.0.0.1:9000"
	second := &StructuredConfig{
		App:    App{NodeID: "ignored", RegulatorName: "cpso"},
		Server: Server{HTTPAddress: "127.0.0.1:1"},
	}

	b := newConfigBuilder()
	b.configs = append(b.configs, first, second)
	cfg, err := b.withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "clinic-a", cfg.App.NodeID)
	assert.Equal(t, "cpso", cfg.App.RegulatorName)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
}

// ── withEnv / withFlagSet / withJSON ──────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{"APP_NODE_ID": "env-node"})

	b := newConfigBuilder().withEnv()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-node", b.configs[0].App.NodeID)
}

func TestWithFlagSet_SetsErrorOnBadFlag(t *testing.T) {
	b := newConfigBuilder().withFlagSet(newTestFlagSet(), []string{"-unknown"})

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app": map[string]any{"node_id": "json-node"},
	})
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	b.withJSON()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-node", b.configs[1].App.NodeID)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/no/such/file.json"})

	b.withJSON()
	assert.Error(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_UsesLastPath(t *testing.T) {
	first := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"node_id": "first"}})
	second := writeTempJSONConfig(t, map[string]any{"app": map[string]any{"node_id": "second"}})

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: first},
		&StructuredConfig{JSONFilePath: second},
	)

	b.withJSON()
	require.NoError(t, b.err)
	assert.Equal(t, "second", b.configs[len(b.configs)-1].App.NodeID)
}

func TestWithJSON_DoesNotAppend_WhenErrorAlreadySet(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{})
	b := newConfigBuilder()
	b.err = assert.AnError
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	b.withJSON()
	assert.Len(t, b.configs, 1)
}
