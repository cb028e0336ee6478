// Package usecase defines the business logic interfaces for field encryption.
//
// The keyring use case owns the process-wide keyring snapshot and its
// persistence; the field use case is the only entry point the storage layer
// uses to seal and open sensitive column values.
package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// KeyringRepository defines the interface for durable keyring custody.
//
// Available implementations:
//   - FileKeyringRepository: JSON file written with temp-file-then-rename
type KeyringRepository interface {
	// Load reads the persisted keyring.
	//
	// Returns ErrKeyringNotFound when there is no usable keyring (ErrKeyringCorrupt
	// when a file exists but is structurally defective) and ErrActiveKeyNotFound
	// when the active id does not refer to any stored key. A partially valid
	// keyring is never returned.
	Load(ctx context.Context) (*cryptoDomain.Keyring, error)

	// Save persists the full keyring so that a crash at any point leaves either
	// the previous or the new keyring in place, never a truncated one.
	Save(ctx context.Context, keyring *cryptoDomain.Keyring) error

	// Quarantine moves an unusable keyring aside and returns where it went.
	Quarantine(ctx context.Context) (string, error)

	// Lock serializes keyring writers across processes. The returned function
	// releases the lock.
	Lock(ctx context.Context) (func() error, error)
}

// KeyringUseCase defines the interface for keyring lifecycle operations.
//
// The keyring is held as an immutable snapshot that is replaced as a whole on
// every mutation. Readers load the snapshot without locking and always observe
// a consistent (active id, keys) pair; writers are serialized.
type KeyringUseCase interface {
	// Bootstrap loads the persisted keyring, or creates and persists one from
	// seed when none exists. Calling it again once a keyring exists only loads
	// it. An empty or fully invalid seed results in one freshly generated key.
	Bootstrap(ctx context.Context, seed string) (*cryptoDomain.Keyring, error)

	// Current returns the published snapshot, or ErrKeyringNotLoaded before
	// Bootstrap has succeeded.
	Current() (*cryptoDomain.Keyring, error)

	// Rotate generates a new data key, appends it, makes it active and persists
	// the result before publishing it. Returns the new key.
	Rotate(ctx context.Context) (*cryptoDomain.DataKey, error)

	// RotateIfDue rotates when the active key is at least intervalDays old at
	// now. A non-positive interval disables rotation. Reports whether a
	// rotation happened.
	RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error)
}

// KeyRotator is the rotation trigger invoked by the rotation worker.
type KeyRotator interface {
	RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error)
}

// FieldUseCase defines the field encryption facade used by the storage layer.
//
// A payload is only meaningful together with the key id it was produced under;
// callers store both in adjacent columns and pass both back on read.
type FieldUseCase interface {
	// ActiveKeyID returns the id of the key new writes are sealed with, or ""
	// before the keyring is loaded.
	ActiveKeyID() string

	// Encrypt seals plaintext under the active key and returns the key id and
	// payload as one EncryptedField.
	Encrypt(ctx context.Context, plaintext string) (cryptoDomain.EncryptedField, error)

	// EncryptWithKeyID seals plaintext under a specific, not necessarily active,
	// key. Returns ErrKeyNotFound for an unknown id.
	EncryptWithKeyID(ctx context.Context, keyID, plaintext string) (string, error)

	// Decrypt opens payload with the key recorded next to it.
	//
	// Returns ErrKeyNotFound when keyID is not in the keyring (including the
	// legacy sentinel), ErrInvalidPayload for malformed payloads and
	// ErrDecryptionFailed when authentication fails. None of these are retryable.
	Decrypt(ctx context.Context, keyID, payload string) (string, error)

	// RotateIfDue delegates to the keyring use case.
	RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error)
}
