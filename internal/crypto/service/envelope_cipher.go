package service

import (
	"fmt"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// EnvelopeCipherService implements EnvelopeCipher on top of an AEADManager.
//
// New payloads are written with the configured algorithm. Decryption always
// follows the payload's own version tag, so switching the configured algorithm
// never makes existing payloads unreadable.
type EnvelopeCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
	version     cryptoDomain.PayloadVersion
}

// NewEnvelopeCipher creates an EnvelopeCipherService writing payloads with alg.
// Returns ErrUnsupportedAlgorithm when alg has no payload version.
func NewEnvelopeCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) (*EnvelopeCipherService, error) {
	version, ok := cryptoDomain.VersionForAlgorithm(alg)
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	return &EnvelopeCipherService{
		aeadManager: aeadManager,
		algorithm:   alg,
		version:     version,
	}, nil
}

// Algorithm returns the algorithm used for new payloads.
func (e *EnvelopeCipherService) Algorithm() cryptoDomain.Algorithm {
	return e.algorithm
}

// Encrypt seals the UTF-8 bytes of plaintext under key.
func (e *EnvelopeCipherService) Encrypt(key []byte, plaintext string) (string, error) {
	if len(key) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}
	if !utf8.ValidString(plaintext) {
		return "", cryptoDomain.ErrInvalidPlaintext
	}

	aead, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := aead.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}

	return cryptoDomain.Envelope{
		Version:    e.version,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}.String(), nil
}

// Decrypt opens payload with key.
//
// Returns ErrInvalidKeySize for a key that is not 32 bytes, ErrInvalidPayload for
// a malformed payload or a verified plaintext that is not UTF-8, and
// ErrDecryptionFailed when authentication fails.
func (e *EnvelopeCipherService) Decrypt(key []byte, payload string) (string, error) {
	if len(key) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}

	env, err := cryptoDomain.ParseEnvelope(payload)
	if err != nil {
		return "", err
	}
	alg, _ := cryptoDomain.AlgorithmForVersion(env.Version)

	aead, err := e.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(env.Ciphertext, env.Nonce)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		cryptoDomain.Zero(plaintext)
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", cryptoDomain.ErrInvalidPayload)
	}

	return string(plaintext), nil
}
