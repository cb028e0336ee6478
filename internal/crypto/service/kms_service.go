package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// NewKMSSeedDecoder returns a SeedDecoder for KMS-wrapped seed values.
//
// Each value is the standard base64 encoding of a KMS ciphertext; the decoder
// unwraps it through keeper and returns the raw key material.
func NewKMSSeedDecoder(ctx context.Context, keeper cryptoDomain.KMSKeeper) cryptoDomain.SeedDecoder {
	return func(value string) ([]byte, error) {
		wrapped, err := cryptoDomain.DecodeKeyBase64(value)
		if err != nil {
			return nil, err
		}
		key, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap seed key with KMS: %w", err)
		}
		return key, nil
	}
}

// WrapSeedKey encrypts raw key material with keeper and returns it in the
// encoding NewKMSSeedDecoder expects.
func WrapSeedKey(ctx context.Context, keeper cryptoDomain.KMSKeeper, key []byte) (string, error) {
	wrapped, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to wrap seed key with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(wrapped), nil
}
