// Package service provides the stateless cryptographic building blocks of field
// encryption: AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the envelope cipher
// that turns a raw key and a string into a self-describing payload, and access to
// external KMS keepers used to unwrap seed material.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Seal encrypts plaintext under a freshly generated random nonce and returns
	// the ciphertext (tag appended) together with that nonce.
	Seal(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Open verifies and decrypts ciphertext. Any failure is reported as
	// ErrDecryptionFailed and no plaintext is returned.
	Open(ciphertext, nonce []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// EnvelopeCipher seals strings into versioned payloads and opens them again.
type EnvelopeCipher interface {
	// Encrypt seals plaintext under key and returns the serialized envelope.
	Encrypt(key []byte, plaintext string) (string, error)

	// Decrypt parses payload, dispatches on its version tag and opens it with key.
	Decrypt(key []byte, payload string) (string, error)

	// Algorithm returns the algorithm used for new payloads.
	Algorithm() cryptoDomain.Algorithm
}

// KMSService opens keepers for an external key management service.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
