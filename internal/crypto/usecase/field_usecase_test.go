package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/pastecrypt/internal/crypto/service"
	"github.com/allisson/pastecrypt/internal/crypto/usecase/mocks"
)

type fieldFixture struct {
	keyring KeyringUseCase
	field   FieldUseCase
}

func newFieldFixture(t *testing.T, alg cryptoDomain.Algorithm) fieldFixture {
	t.Helper()
	keyring := NewKeyringUseCase(newFileRepo(t, ""), newTestClock(t), nil, discardLogger())
	_, err := keyring.Bootstrap(context.Background(), specSeed)
	require.NoError(t, err)

	cipher, err := cryptoService.NewEnvelopeCipher(cryptoService.NewAEADManager(), alg)
	require.NoError(t, err)

	return fieldFixture{
		keyring: keyring,
		field:   NewFieldUseCase(keyring, cipher, discardLogger()),
	}
}

func TestFieldUseCase_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			f := newFieldFixture(t, alg)

			field, err := f.field.Encrypt(ctx, "paste content")
			require.NoError(t, err)
			assert.Equal(t, "k1", field.KeyID)
			assert.Equal(t, f.field.ActiveKeyID(), field.KeyID)
			assert.NotContains(t, field.Payload, "paste content")

			plaintext, err := f.field.Decrypt(ctx, field.KeyID, field.Payload)
			require.NoError(t, err)
			assert.Equal(t, "paste content", plaintext)
		})
	}
}

func TestFieldUseCase_EncryptWithKeyID(t *testing.T) {
	ctx := context.Background()
	f := newFieldFixture(t, cryptoDomain.AESGCM)

	t.Run("Success_NonActiveKey", func(t *testing.T) {
		payload, err := f.field.EncryptWithKeyID(ctx, "k2", "under k2")
		require.NoError(t, err)

		plaintext, err := f.field.Decrypt(ctx, "k2", payload)
		require.NoError(t, err)
		assert.Equal(t, "under k2", plaintext)

		_, err = f.field.Decrypt(ctx, "k1", payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		for _, id := range []string{"k9", cryptoDomain.LegacyKeyID, ""} {
			_, err := f.field.EncryptWithKeyID(ctx, id, "data")
			assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
		}
	})
}

func TestFieldUseCase_Decrypt_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFieldFixture(t, cryptoDomain.AESGCM)
	field, err := f.field.Encrypt(ctx, "hello")
	require.NoError(t, err)

	t.Run("UnknownKeyID", func(t *testing.T) {
		_, err := f.field.Decrypt(ctx, "lost-key", field.Payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("LegacySentinelIsNotAKey", func(t *testing.T) {
		_, err := f.field.Decrypt(ctx, cryptoDomain.LegacyKeyID, "plain legacy text")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		_, err := f.field.Decrypt(ctx, field.KeyID, "v1:only-two")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPayload)
	})
}

func TestFieldUseCase_RotationPreservesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFieldFixture(t, cryptoDomain.AESGCM)

	before, err := f.field.Encrypt(ctx, "written before rotation")
	require.NoError(t, err)

	newKey, err := f.keyring.Rotate(ctx)
	require.NoError(t, err)
	assert.Equal(t, newKey.ID, f.field.ActiveKeyID())

	plaintext, err := f.field.Decrypt(ctx, before.KeyID, before.Payload)
	require.NoError(t, err)
	assert.Equal(t, "written before rotation", plaintext)

	after, err := f.field.Encrypt(ctx, "written after rotation")
	require.NoError(t, err)
	assert.Equal(t, newKey.ID, after.KeyID)
	assert.NotEqual(t, before.KeyID, after.KeyID)

	_, err = f.field.Decrypt(ctx, before.KeyID, after.Payload)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestFieldUseCase_ConcurrentRotation(t *testing.T) {
	ctx := context.Background()
	f := newFieldFixture(t, cryptoDomain.AESGCM)

	const readers = 8
	const iterations = 200

	stop := make(chan struct{})
	var rotations sync.WaitGroup
	rotations.Add(1)
	go func() {
		defer rotations.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			_, err := f.keyring.Rotate(ctx)
			if !assert.NoError(t, err) {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				field, err := f.field.Encrypt(ctx, "concurrent")
				if !assert.NoError(t, err) {
					return
				}
				plaintext, err := f.field.Decrypt(ctx, field.KeyID, field.Payload)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, "concurrent", plaintext)
			}
		}()
	}
	wg.Wait()
	close(stop)
	rotations.Wait()
}

func TestFieldUseCase_NotLoaded(t *testing.T) {
	ctx := context.Background()
	keyring := NewKeyringUseCase(newFileRepo(t, ""), newTestClock(t), nil, discardLogger())
	cipher, err := cryptoService.NewEnvelopeCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
	require.NoError(t, err)
	field := NewFieldUseCase(keyring, cipher, discardLogger())

	assert.Empty(t, field.ActiveKeyID())

	_, err = field.Encrypt(ctx, "data")
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyringNotLoaded)

	_, err = field.Decrypt(ctx, "k1", "v1:a:b")
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyringNotLoaded)
}

func TestFieldUseCase_RotateIfDue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	keyring := &mocks.MockKeyringUseCase{}
	field := NewFieldUseCase(keyring, nil, discardLogger())

	keyring.On("RotateIfDue", ctx, now, 90).Return(true, nil).Once()
	keyring.On("RotateIfDue", ctx, now, 0).Return(false, errors.New("boom")).Once()

	rotated, err := field.RotateIfDue(ctx, now, 90)
	require.NoError(t, err)
	assert.True(t, rotated)

	rotated, err = field.RotateIfDue(ctx, now, 0)
	assert.EqualError(t, err, "boom")
	assert.False(t, rotated)

	keyring.AssertExpectations(t)
}
