package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

func newTestEnvelopeCipher(t *testing.T, alg cryptoDomain.Algorithm) *EnvelopeCipherService {
	t.Helper()
	c, err := NewEnvelopeCipher(NewAEADManager(), alg)
	require.NoError(t, err)
	return c
}

func TestNewEnvelopeCipher(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := newTestEnvelopeCipher(t, cryptoDomain.ChaCha20)
		assert.Equal(t, cryptoDomain.ChaCha20, c.Algorithm())
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		c, err := NewEnvelopeCipher(NewAEADManager(), cryptoDomain.Algorithm("rot13"))
		assert.Nil(t, c)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestEnvelopeCipherService_RoundTrip(t *testing.T) {
	plaintexts := []string{
		"",
		"hello",
		"Olá, mundo! 你好 🌍",
		strings.Repeat("paste body ", 10_000),
		"line1\nline2\ttab\x00nul",
		"v1:looks:like-a-payload",
	}

	for _, tc := range []struct {
		alg     cryptoDomain.Algorithm
		version string
	}{
		{alg: cryptoDomain.AESGCM, version: "v1:"},
		{alg: cryptoDomain.ChaCha20, version: "v2:"},
	} {
		t.Run(string(tc.alg), func(t *testing.T) {
			c := newTestEnvelopeCipher(t, tc.alg)
			key := randomKey(t)

			for _, p := range plaintexts {
				payload, err := c.Encrypt(key, p)
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(payload, tc.version))
				assert.Len(t, strings.Split(payload, ":"), 3)

				decrypted, err := c.Decrypt(key, payload)
				require.NoError(t, err)
				assert.Equal(t, p, decrypted)
			}
		})
	}
}

func TestEnvelopeCipherService_DecryptDispatchesOnVersion(t *testing.T) {
	key := randomKey(t)
	aesCipher := newTestEnvelopeCipher(t, cryptoDomain.AESGCM)
	chachaCipher := newTestEnvelopeCipher(t, cryptoDomain.ChaCha20)

	v1, err := aesCipher.Encrypt(key, "written by v1")
	require.NoError(t, err)
	v2, err := chachaCipher.Encrypt(key, "written by v2")
	require.NoError(t, err)

	got, err := chachaCipher.Decrypt(key, v1)
	require.NoError(t, err)
	assert.Equal(t, "written by v1", got)

	got, err = aesCipher.Decrypt(key, v2)
	require.NoError(t, err)
	assert.Equal(t, "written by v2", got)
}

func TestEnvelopeCipherService_NonceUniqueness(t *testing.T) {
	c := newTestEnvelopeCipher(t, cryptoDomain.AESGCM)
	key := randomKey(t)

	const workers = 8
	const perWorker = 1000

	var mu sync.Mutex
	payloads := make(map[string]struct{}, workers*perWorker)
	nonces := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				payload, err := c.Encrypt(key, "same plaintext")
				if !assert.NoError(t, err) {
					return
				}
				nonce := strings.Split(payload, ":")[1]

				mu.Lock()
				payloads[payload] = struct{}{}
				nonces[nonce] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, payloads, workers*perWorker)
	assert.Len(t, nonces, workers*perWorker)
}

func TestEnvelopeCipherService_TamperDetection(t *testing.T) {
	c := newTestEnvelopeCipher(t, cryptoDomain.AESGCM)
	key := randomKey(t)

	payload, err := c.Encrypt(key, "do not touch")
	require.NoError(t, err)
	env, err := cryptoDomain.ParseEnvelope(payload)
	require.NoError(t, err)

	t.Run("every nonce byte", func(t *testing.T) {
		for i := range env.Nonce {
			tampered := cloneEnvelope(env)
			tampered.Nonce[i] ^= 0x01

			plaintext, err := c.Decrypt(key, tampered.String())
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "nonce byte %d", i)
			assert.Empty(t, plaintext)
		}
	})

	t.Run("every ciphertext byte", func(t *testing.T) {
		for i := range env.Ciphertext {
			tampered := cloneEnvelope(env)
			tampered.Ciphertext[i] ^= 0x80

			plaintext, err := c.Decrypt(key, tampered.String())
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "ciphertext byte %d", i)
			assert.Empty(t, plaintext)
		}
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		tampered := cloneEnvelope(env)
		tampered.Ciphertext = tampered.Ciphertext[:len(tampered.Ciphertext)-1]

		_, err := c.Decrypt(key, tampered.String())
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("authentication failures are integrity errors", func(t *testing.T) {
		tampered := cloneEnvelope(env)
		tampered.Ciphertext[0] ^= 0xff

		_, err := c.Decrypt(key, tampered.String())
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.NotErrorIs(t, err, cryptoDomain.ErrInvalidPayload)
	})
}

func TestEnvelopeCipherService_CrossKeyFailure(t *testing.T) {
	c := newTestEnvelopeCipher(t, cryptoDomain.AESGCM)
	keyA := randomKey(t)
	keyB := randomKey(t)

	payload, err := c.Encrypt(keyA, "under key A")
	require.NoError(t, err)

	plaintext, err := c.Decrypt(keyB, payload)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Empty(t, plaintext)
}

func TestEnvelopeCipherService_Errors(t *testing.T) {
	c := newTestEnvelopeCipher(t, cryptoDomain.AESGCM)
	key := randomKey(t)
	valid, err := c.Encrypt(key, "hello")
	require.NoError(t, err)

	t.Run("invalid key size on encrypt", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33} {
			_, err := c.Encrypt(make([]byte, size), "hello")
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		}
	})

	t.Run("invalid key size checked before payload", func(t *testing.T) {
		_, err := c.Decrypt(make([]byte, 16), "garbage")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("invalid utf-8 plaintext", func(t *testing.T) {
		_, err := c.Encrypt(key, string([]byte{0xff, 0xfe}))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPlaintext)
	})

	t.Run("malformed payloads", func(t *testing.T) {
		parts := strings.Split(valid, ":")
		for _, payload := range []string{
			"",
			"plaintext from a legacy row",
			parts[0] + ":" + parts[1],
			valid + ":" + parts[2],
			"v0:" + parts[1] + ":" + parts[2],
			"V1:" + parts[1] + ":" + parts[2],
			"v1:" + parts[1] + "==:" + parts[2],
			"v1:" + parts[1] + ":" + parts[2] + "!",
		} {
			_, err := c.Decrypt(key, payload)
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPayload, payload)
		}
	})

	t.Run("verified plaintext that is not utf-8", func(t *testing.T) {
		aead, err := NewAESGCM(key)
		require.NoError(t, err)
		ciphertext, nonce, err := aead.Seal([]byte{0xc3, 0x28})
		require.NoError(t, err)
		payload := cryptoDomain.Envelope{Version: cryptoDomain.PayloadV1, Nonce: nonce, Ciphertext: ciphertext}.String()

		_, err = c.Decrypt(key, payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPayload)
	})
}

func cloneEnvelope(env cryptoDomain.Envelope) cryptoDomain.Envelope {
	return cryptoDomain.Envelope{
		Version:    env.Version,
		Nonce:      append([]byte(nil), env.Nonce...),
		Ciphertext: append([]byte(nil), env.Ciphertext...),
	}
}
