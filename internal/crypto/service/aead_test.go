package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

func TestAEAD_SealOpen(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			key := randomKey(t)
			aead, err := NewAEADManager().CreateCipher(key, alg)
			require.NoError(t, err)

			t.Run("round trip", func(t *testing.T) {
				plaintext := []byte("secret message")

				ciphertext, nonce, err := aead.Seal(plaintext)
				require.NoError(t, err)
				assert.Len(t, nonce, cryptoDomain.NonceSize)
				assert.Len(t, ciphertext, len(plaintext)+cryptoDomain.TagSize)

				decrypted, err := aead.Open(ciphertext, nonce)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			})

			t.Run("empty plaintext", func(t *testing.T) {
				ciphertext, nonce, err := aead.Seal(nil)
				require.NoError(t, err)
				assert.Len(t, ciphertext, cryptoDomain.TagSize)

				decrypted, err := aead.Open(ciphertext, nonce)
				require.NoError(t, err)
				assert.Empty(t, decrypted)
			})

			t.Run("wrong key", func(t *testing.T) {
				ciphertext, nonce, err := aead.Seal([]byte("data"))
				require.NoError(t, err)

				other, err := NewAEADManager().CreateCipher(randomKey(t), alg)
				require.NoError(t, err)

				decrypted, err := other.Open(ciphertext, nonce)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
				assert.Nil(t, decrypted)
			})

			t.Run("truncated ciphertext", func(t *testing.T) {
				ciphertext, nonce, err := aead.Seal([]byte("data"))
				require.NoError(t, err)

				_, err = aead.Open(ciphertext[:len(ciphertext)-1], nonce)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

				_, err = aead.Open(nil, nonce)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("bad nonce length", func(t *testing.T) {
				ciphertext, nonce, err := aead.Seal([]byte("data"))
				require.NoError(t, err)

				assert.NotPanics(t, func() {
					_, err = aead.Open(ciphertext, nonce[:8])
				})
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		})
	}
}

func TestNewCipher_InvalidKeySize(t *testing.T) {
	_, err := NewAESGCM(make([]byte, 16))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

	_, err = NewChaCha20Poly1305(make([]byte, 24))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}
