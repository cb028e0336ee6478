package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

var b64 = base64.RawURLEncoding

// Envelope is the parsed form of a field payload.
//
// It serializes to "version:base64url(nonce):base64url(ciphertext||tag)" so the
// payload is self-describing and round-trips without external metadata.
type Envelope struct {
	Version    PayloadVersion
	Nonce      []byte
	Ciphertext []byte // AEAD output with the authentication tag appended
}

// ParseEnvelope parses a payload string.
//
// Returns ErrInvalidPayload when the payload does not have exactly three
// colon-separated parts, carries an unknown version tag, holds invalid
// base64url data or a nonce that is not NonceSize bytes.
func ParseEnvelope(payload string) (Envelope, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return Envelope{}, fmt.Errorf(
			"%w: expected format 'version:nonce:ciphertext', got %d parts",
			ErrInvalidPayload,
			len(parts),
		)
	}

	version := PayloadVersion(parts[0])
	if _, ok := AlgorithmForVersion(version); !ok {
		return Envelope{}, fmt.Errorf("%w: unknown version %q", ErrInvalidPayload, parts[0])
	}

	nonce, err := b64.DecodeString(parts[1])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: nonce: %v", ErrInvalidPayload, err)
	}
	if len(nonce) != NonceSize {
		return Envelope{}, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrInvalidPayload, NonceSize, len(nonce))
	}

	ciphertext, err := b64.DecodeString(parts[2])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: ciphertext: %v", ErrInvalidPayload, err)
	}

	return Envelope{
		Version:    version,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// String serializes the envelope to its payload form.
func (e Envelope) String() string {
	return fmt.Sprintf("%s:%s:%s", e.Version, b64.EncodeToString(e.Nonce), b64.EncodeToString(e.Ciphertext))
}
