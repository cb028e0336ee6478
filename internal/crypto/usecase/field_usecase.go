package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/pastecrypt/internal/crypto/service"
)

// fieldUseCase implements FieldUseCase on top of the keyring snapshot and the
// envelope cipher. Every call works against a single snapshot, so a concurrent
// rotation never mixes the key id of one keyring with the key of another.
type fieldUseCase struct {
	keyring KeyringUseCase
	cipher  cryptoService.EnvelopeCipher
	logger  *slog.Logger
}

// NewFieldUseCase creates a new FieldUseCase.
func NewFieldUseCase(
	keyring KeyringUseCase,
	cipher cryptoService.EnvelopeCipher,
	logger *slog.Logger,
) FieldUseCase {
	return &fieldUseCase{
		keyring: keyring,
		cipher:  cipher,
		logger:  logger,
	}
}

func (f *fieldUseCase) ActiveKeyID() string {
	keyring, err := f.keyring.Current()
	if err != nil {
		return ""
	}
	return keyring.ActiveKeyID()
}

func (f *fieldUseCase) Encrypt(ctx context.Context, plaintext string) (cryptoDomain.EncryptedField, error) {
	keyring, err := f.keyring.Current()
	if err != nil {
		return cryptoDomain.EncryptedField{}, err
	}
	key := keyring.ActiveKey()

	payload, err := f.cipher.Encrypt(key.Key, plaintext)
	if err != nil {
		return cryptoDomain.EncryptedField{}, err
	}

	return cryptoDomain.EncryptedField{KeyID: key.ID, Payload: payload}, nil
}

func (f *fieldUseCase) EncryptWithKeyID(ctx context.Context, keyID, plaintext string) (string, error) {
	key, err := f.lookup(keyID)
	if err != nil {
		return "", err
	}
	return f.cipher.Encrypt(key.Key, plaintext)
}

func (f *fieldUseCase) Decrypt(ctx context.Context, keyID, payload string) (string, error) {
	key, err := f.lookup(keyID)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrKeyNotFound) {
			f.logger.Error("data key referenced by stored field is missing from keyring",
				slog.String("key_id", keyID),
			)
		}
		return "", err
	}

	plaintext, err := f.cipher.Decrypt(key.Key, payload)
	if errors.Is(err, cryptoDomain.ErrInvalidPayload) {
		f.logger.Error("stored field payload is malformed",
			slog.String("key_id", keyID),
			slog.Any("error", err),
		)
	}
	return plaintext, err
}

func (f *fieldUseCase) RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error) {
	return f.keyring.RotateIfDue(ctx, now, intervalDays)
}

func (f *fieldUseCase) lookup(keyID string) (*cryptoDomain.DataKey, error) {
	keyring, err := f.keyring.Current()
	if err != nil {
		return nil, err
	}
	key, ok := keyring.Get(keyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrKeyNotFound, keyID)
	}
	return key, nil
}
