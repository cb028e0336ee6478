package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard in Galois/Counter Mode).
//
// Fields sealed with this cipher are written with the "v1" payload tag. It is the
// default algorithm for new encryptions.
//
// Performance characteristics:
//   - Fast on CPUs with AES-NI or the ARMv8 crypto extensions
//   - Hardware acceleration is available on most server processors
//
// Security properties:
//   - 256-bit key
//   - 12-byte nonce, randomly generated for every Seal call
//   - 16-byte authentication tag appended to the ciphertext
//   - No associated data; the key id travels in the stored key id column
//
// Thread safety:
//
//	The instance is stateless and safe for concurrent use. Nonce uniqueness under
//	a key relies on crypto/rand, never on a counter shared between goroutines.
//
// Example usage:
//
//	cipher, err := NewAESGCM(dataKey.Key)
//	if err != nil {
//	    return err
//	}
//
//	ciphertext, nonce, err := cipher.Seal([]byte("paste body"))
//	plaintext, err := cipher.Open(ciphertext, nonce)
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes. Data keys come from the keyring, which
// generates them with crypto/rand or loads them from the seed.
//
// Parameters:
//   - key: a 32-byte data key
//
// Returns:
//   - A cipher ready for Seal and Open
//   - ErrInvalidKeySize if key is not exactly 32 bytes
//   - A wrapped error if the block cipher or GCM mode cannot be initialized
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithTagSize(block, cryptoDomain.TagSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext with AES-256-GCM under a fresh random nonce.
func (a *AESGCMCipher) Seal(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Open verifies the tag and decrypts ciphertext.
//
// A wrong key, a truncated or corrupted ciphertext and tampering all produce the
// same ErrDecryptionFailed.
func (a *AESGCMCipher) Open(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
