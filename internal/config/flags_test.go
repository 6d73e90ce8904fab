// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("proof-node", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "IP address with port", addr: NetAddress{Host: "127.0.0.1", Port: 9090}, expected: "127.0.0.1:9090"},
		{name: "only port no host", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		errorMsg     string
		expectedAddr NetAddress
	}{
		{name: "valid localhost", input: "localhost:8080", expectedAddr: NetAddress{Host: "localhost", Port: 8080}},
		{name: "valid IPv4", input: "127.0.0.1:9090", expectedAddr: NetAddress{Host: "127.0.0.1", Port: 9090}},
		{name: "all interfaces", input: ":8443", expectedAddr: NetAddress{Port: 8443}},
		{name: "missing colon", input: "localhost8080", errorMsg: "need address in a form `host:port`"},
		{name: "multiple colons", input: "host:port:extra", errorMsg: "need address in a form `host:port`"},
		{name: "non-numeric port", input: "localhost:abc", errorMsg: "invalid syntax"},
		{name: "zero port", input: "localhost:0", errorMsg: "port number must be in range"},
		{name: "port too large", input: "localhost:70000", errorMsg: "port number must be in range"},
		{name: "invalid IP address", input: "invalid.host:8080", errorMsg: "incorrect IP-address provided"},
		{name: "empty string", input: "", errorMsg: "need address in a form `host:port`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)

			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAddr, *addr)
		})
	}
}

// ── parseFlags ────────────────────────────────────────────────────────────────

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := parseFlags(newTestFlagSet(), []string{
		"-a", "127.0.0.1:9000",
		"-node", "clinic-b",
		"-d", "postgres://u:p@db/proofs",
		"-db-driver", "postgres",
		"-logs-dir", "/data/logs",
		"-artifacts-dir", "/data/artifacts",
		"-key", "/etc/node.key",
		"-registry", "/etc/nodes.yaml",
		"-insurer", "https://insurer.example",
		"-request-timeout", "45s",
		"-log-level", "warn",
		"-config", "/etc/node.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "clinic-b", cfg.App.NodeID)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "postgres://u:p@db/proofs", cfg.Storage.DB.DSN)
	assert.Equal(t, "postgres", cfg.Storage.DB.Driver)
	assert.Equal(t, "/data/logs", cfg.Storage.Logs.Dir)
	assert.Equal(t, "/data/artifacts", cfg.Storage.Artifacts.Dir)
	assert.Equal(t, "/etc/node.key", cfg.Signing.KeyFile)
	assert.Equal(t, "/etc/nodes.yaml", cfg.Federation.RegistryFile)
	assert.Equal(t, "https://insurer.example", cfg.Insurer.BaseURL)
	assert.Equal(t, "/etc/node.json", cfg.JSONFilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(newTestFlagSet(), nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.App.NodeID)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseFlags_InvalidAddress(t *testing.T) {
	for _, args := range [][]string{
		{"-a", "invalid"},
		{"-a", "localhost:abc"},
		{"-request-timeout", "soon"},
	} {
		_, err := parseFlags(newTestFlagSet(), args)
		assert.Error(t, err, "args %v", args)
	}
}
