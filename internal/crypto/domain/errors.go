package domain

import (
	"github.com/allisson/pastecrypt/internal/errors"
)

// Field encryption and keyring error definitions.
//
// Every sentinel wraps a base category from internal/errors. None of these
// conditions is transient, so callers must not retry on them.
var (
	// ErrInvalidKeySize indicates key material that is not exactly 32 bytes.
	// Keys are never truncated or padded. This is a programming or
	// configuration error and is fatal at startup.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates an algorithm with no payload version.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidPlaintext indicates a plaintext that is not valid UTF-8.
	ErrInvalidPlaintext = errors.Wrap(errors.ErrInvalidInput, "plaintext is not valid utf-8")

	// ErrInvalidPayload indicates a malformed payload string: wrong number of
	// parts, unknown version tag, bad base64 or a nonce of the wrong size.
	// It points at corrupted storage or a bug and must be surfaced, never ignored.
	ErrInvalidPayload = errors.Wrap(errors.ErrIntegrity, "invalid payload format")

	// ErrDecryptionFailed indicates the AEAD tag did not verify.
	//
	// The cause may be a wrong key, a truncated or corrupted ciphertext, or
	// tampering. The specific cause is deliberately not reported.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrKeyNotFound indicates a key id that is absent from the keyring. The data
	// encrypted under that id is permanently unrecoverable.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "data key not found")

	// ErrKeyringNotFound indicates there is no usable persisted keyring: the file
	// is missing, unreadable or structurally defective.
	ErrKeyringNotFound = errors.Wrap(errors.ErrNotFound, "keyring not found")

	// ErrActiveKeyNotFound indicates the keyring's active id does not refer to any
	// of its keys. The service fails closed on this error.
	ErrActiveKeyNotFound = errors.Wrap(errors.ErrUnavailable, "active data key not found in keyring")

	// ErrEmptyKeyring indicates an attempt to build a keyring without keys.
	ErrEmptyKeyring = errors.Wrap(errors.ErrInvalidInput, "keyring has no keys")

	// ErrDuplicateKeyID indicates two keys sharing the same id.
	ErrDuplicateKeyID = errors.Wrap(errors.ErrConflict, "duplicate data key id")

	// ErrReservedKeyID indicates a key using the legacy sentinel or an empty id.
	ErrReservedKeyID = errors.Wrap(errors.ErrInvalidInput, "reserved or empty data key id")

	// ErrKeyringNotLoaded indicates the keyring use case has not been bootstrapped.
	ErrKeyringNotLoaded = errors.Wrap(errors.ErrUnavailable, "keyring not loaded")
)

// ErrKeyringCorrupt indicates a keyring file that exists but cannot be used. It
// wraps ErrKeyringNotFound so callers treating the keyring as absent still match.
var ErrKeyringCorrupt = errors.Wrap(ErrKeyringNotFound, "keyring file is corrupt")
