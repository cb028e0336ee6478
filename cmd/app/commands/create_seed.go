package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/pastecrypt/internal/crypto/service"
)

// RunCreateSeed generates a 32-byte data key and prints it as a KEYRING_SEED entry.
//
// When kmsKeyURI is set the key is wrapped with that KMS key and the output also
// sets KMS_KEY_URI, so the plaintext key never appears in the environment. Without
// a KMS key the raw base64 key is printed and should only be used for development.
// If keyID is empty, a default id in format "key-YYYY-MM-DD" is used.
//
// The seed is only read when no keyring file exists yet.
func RunCreateSeed(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID string,
	kmsKeyURI string,
) error {
	if keyID == "" {
		keyID = fmt.Sprintf("key-%s", time.Now().UTC().Format("2006-01-02"))
	}
	if keyID == cryptoDomain.LegacyKeyID {
		return fmt.Errorf("key id %q is reserved for legacy plaintext", keyID)
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	if kmsKeyURI == "" {
		logger.Warn("creating an unwrapped seed key, use a KMS key outside development")

		_, _ = fmt.Fprintln(writer, "# Keyring seed (no KMS, development only)")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "KEYRING_SEED=\"%s:%s\"\n", keyID, base64.StdEncoding.EncodeToString(key))
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	wrapped, err := cryptoService.WrapSeedKey(ctx, keeper, key)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Keyring seed (KMS mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "KEYRING_SEED=\"%s:%s\"\n", keyID, wrapped)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Several keys can be seeded at once, the first one becomes active:")
	_, _ = fmt.Fprintf(writer, "# KEYRING_SEED=\"%s:%s,new-key:base64-encoded-kms-ciphertext\"\n", keyID, wrapped)

	return nil
}
