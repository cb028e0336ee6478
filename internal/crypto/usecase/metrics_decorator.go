package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	"github.com/allisson/pastecrypt/internal/metrics"
)

// fieldUseCaseWithMetrics decorates FieldUseCase with metrics instrumentation.
type fieldUseCaseWithMetrics struct {
	next    FieldUseCase
	metrics metrics.BusinessMetrics
}

// NewFieldUseCaseWithMetrics wraps a FieldUseCase with metrics recording.
func NewFieldUseCaseWithMetrics(useCase FieldUseCase, m metrics.BusinessMetrics) FieldUseCase {
	return &fieldUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *fieldUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "crypto", operation, status)
	f.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}

// ActiveKeyID is not instrumented.
func (f *fieldUseCaseWithMetrics) ActiveKeyID() string {
	return f.next.ActiveKeyID()
}

// Encrypt records metrics for field encryption under the active key.
func (f *fieldUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext string,
) (cryptoDomain.EncryptedField, error) {
	start := time.Now()
	field, err := f.next.Encrypt(ctx, plaintext)
	f.record(ctx, "field_encrypt", start, err)
	if err == nil {
		f.metrics.RecordKeyUse(ctx, "field_encrypt", field.KeyID)
	}
	return field, err
}

// EncryptWithKeyID records metrics for field encryption under an explicit key.
func (f *fieldUseCaseWithMetrics) EncryptWithKeyID(ctx context.Context, keyID, plaintext string) (string, error) {
	start := time.Now()
	payload, err := f.next.EncryptWithKeyID(ctx, keyID, plaintext)
	f.record(ctx, "field_encrypt_with_key", start, err)
	return payload, err
}

// Decrypt records metrics for field decryption.
func (f *fieldUseCaseWithMetrics) Decrypt(ctx context.Context, keyID, payload string) (string, error) {
	start := time.Now()
	plaintext, err := f.next.Decrypt(ctx, keyID, payload)
	f.record(ctx, "field_decrypt", start, err)
	if err == nil {
		f.metrics.RecordKeyUse(ctx, "field_decrypt", keyID)
	}
	return plaintext, err
}

// RotateIfDue records metrics for rotation checks and, separately, for the
// rotations they trigger.
func (f *fieldUseCaseWithMetrics) RotateIfDue(
	ctx context.Context,
	now time.Time,
	intervalDays int,
) (bool, error) {
	start := time.Now()
	rotated, err := f.next.RotateIfDue(ctx, now, intervalDays)
	f.record(ctx, "key_rotate_check", start, err)
	if rotated {
		f.metrics.RecordOperation(ctx, "crypto", "key_rotate", "success")
	}
	return rotated, err
}
