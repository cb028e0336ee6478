package domain

import "context"

// KMSKeeper wraps and unwraps key material with an external KMS.
// *gocloud.dev/secrets.Keeper implements it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
