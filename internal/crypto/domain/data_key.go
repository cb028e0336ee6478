// Package domain defines the field-encryption domain: data keys, the keyring
// that tracks which key is active, the serialized envelope format and the
// (key id, payload) pair stored next to every encrypted column.
package domain

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DataKey is one generation of symmetric key material used to seal field values.
//
// A DataKey is created once, never mutated and never deleted: old keys stay in
// the keyring so that ciphertext written under them remains readable.
type DataKey struct {
	ID        string    // Opaque identifier, compared only for equality
	CreatedAt time.Time // Creation time, used to decide whether rotation is due
	Key       []byte    // 32 bytes of AES-256 / ChaCha20 key material
}

// NewDataKey builds a DataKey from existing material after validating it.
// The key bytes are copied so the caller may zero its buffer afterwards.
func NewDataKey(id string, createdAt time.Time, key []byte) (*DataKey, error) {
	if id == "" || id == LegacyKeyID {
		return nil, fmt.Errorf("%w: %q", ErrReservedKeyID, id)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: data key %s must be %d bytes, got %d", ErrInvalidKeySize, id, KeySize, len(key))
	}
	material := make([]byte, KeySize)
	copy(material, key)
	return &DataKey{
		ID:        id,
		CreatedAt: createdAt.UTC().Truncate(time.Second),
		Key:       material,
	}, nil
}

// GenerateDataKey creates a fresh random DataKey with a UUIDv7 id.
func GenerateDataKey(now time.Time) (*DataKey, error) {
	material := make([]byte, KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate data key id: %w", err)
	}
	return &DataKey{
		ID:        id.String(),
		CreatedAt: now.UTC().Truncate(time.Second),
		Key:       material,
	}, nil
}

// Age returns how long ago the key was created relative to now.
func (k *DataKey) Age(now time.Time) time.Duration {
	return now.Sub(k.CreatedAt)
}
