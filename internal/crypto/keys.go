// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// sealedPrefix marks a key file whose seed is encrypted:
// "sealed:" + base64(salt ‖ nonce ‖ AES-256-GCM(seed)).
const sealedPrefix = "sealed:"

const saltSize = 16

// Argon2id parameters (OWASP 2024): 1 pass, 64 MiB, 4 lanes, 32-byte key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// KeyPairFromSeed derives an Ed25519 keypair from a 32-byte seed.
func KeyPairFromSeed(seed []byte) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, nil, ErrInvalidSeedSize
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, priv.Public().(ed25519.PublicKey), nil
}

// GenerateSeed reads a fresh 32-byte seed from the OS CSPRNG.
func GenerateSeed() ([]byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// DeriveSeed stretches a passphrase into a deterministic seed with Argon2id.
// The same passphrase and salt always yield the same node identity.
func DeriveSeed(passphrase, salt string) []byte {
	return argon2.IDKey([]byte(passphrase), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
}

// LoadIdentity reads a key file and binds it to nodeID. Plain files hold a
// seed or private key in hex or base64; sealed files need passphrase.
func LoadIdentity(nodeID, path, passphrase string) (*Identity, error) {
	// #nosec G304 -- path is operator-configured.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyFile, err)
	}

	data, err := DecodeKeyFile(raw, passphrase)
	if err != nil {
		return nil, err
	}

	switch len(data) {
	case ed25519.PrivateKeySize:
		return NewIdentity(nodeID, ed25519.PrivateKey(data))
	case ed25519.SeedSize:
		return NewIdentityFromSeed(nodeID, data)
	default:
		return nil, fmt.Errorf("%w: unsupported key length %d", ErrInvalidKeyFile, len(data))
	}
}

// DecodeKeyFile decodes the textual content of a key file.
func DecodeKeyFile(raw []byte, passphrase string) ([]byte, error) {
	trim := strings.TrimSpace(string(raw))
	if trim == "" {
		return nil, fmt.Errorf("%w: empty key file", ErrInvalidKeyFile)
	}

	if strings.HasPrefix(trim, sealedPrefix) {
		if passphrase == "" {
			return nil, ErrSealedKeyLocked
		}
		blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(trim, sealedPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKeyFile, err)
		}
		return unseal(blob, passphrase)
	}

	if out, err := hex.DecodeString(trim); err == nil {
		return out, nil
	}
	if out, err := base64.StdEncoding.DecodeString(trim); err == nil {
		return out, nil
	}
	return nil, fmt.Errorf("%w: unrecognized key encoding", ErrInvalidKeyFile)
}

// EncodeKeyFile renders seed for writing to disk. With a passphrase the seed
// is sealed; without one it is written as hex.
func EncodeKeyFile(seed []byte, passphrase string) (string, error) {
	if len(seed) != ed25519.SeedSize {
		return "", ErrInvalidSeedSize
	}
	if passphrase == "" {
		return hex.EncodeToString(seed) + "\n", nil
	}

	blob, err := seal(seed, passphrase)
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(blob) + "\n", nil
}

func seal(seed []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(seed)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, seed, nil), nil
}

func unseal(blob []byte, passphrase string) ([]byte, error) {
	if len(blob) < saltSize {
		return nil, fmt.Errorf("%w: blob too short", ErrUnsealFailed)
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("%w: blob too short", ErrUnsealFailed)
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	seed, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// wrong passphrase or a corrupted file
		return nil, fmt.Errorf("%w: %w", ErrUnsealFailed, err)
	}
	return seed, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	kek := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
