package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	"github.com/allisson/pastecrypt/internal/crypto/usecase/mocks"
	"github.com/allisson/pastecrypt/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordKeyUse(ctx context.Context, operation, keyID string) {
	m.Called(ctx, operation, keyID)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectRecorded(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "crypto", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "crypto", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestFieldUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Encrypt_Success", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		field := cryptoDomain.EncryptedField{KeyID: "k1", Payload: "v1:a:b"}
		next.On("Encrypt", ctx, "hello").Return(field, nil).Once()
		expectRecorded(m, ctx, "field_encrypt", "success")
		m.On("RecordKeyUse", ctx, "field_encrypt", "k1").Return().Once()

		got, err := NewFieldUseCaseWithMetrics(next, m).Encrypt(ctx, "hello")

		assert.NoError(t, err)
		assert.Equal(t, field, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("EncryptWithKeyID_Error", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		next.On("EncryptWithKeyID", ctx, "k9", "hello").Return("", cryptoDomain.ErrKeyNotFound).Once()
		expectRecorded(m, ctx, "field_encrypt_with_key", "error")

		_, err := NewFieldUseCaseWithMetrics(next, m).EncryptWithKeyID(ctx, "k9", "hello")

		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
		m.AssertExpectations(t)
	})

	t.Run("Decrypt_Error", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Decrypt", ctx, "k1", "v1:a:b").Return("", cryptoDomain.ErrDecryptionFailed).Once()
		expectRecorded(m, ctx, "field_decrypt", "error")

		_, err := NewFieldUseCaseWithMetrics(next, m).Decrypt(ctx, "k1", "v1:a:b")

		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		m.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordKeyUse", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Decrypt_RecordsKeyUse", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Decrypt", ctx, "k0", "v1:a:b").Return("hello", nil).Once()
		expectRecorded(m, ctx, "field_decrypt", "success")
		m.On("RecordKeyUse", ctx, "field_decrypt", "k0").Return().Once()

		plaintext, err := NewFieldUseCaseWithMetrics(next, m).Decrypt(ctx, "k0", "v1:a:b")

		assert.NoError(t, err)
		assert.Equal(t, "hello", plaintext)
		m.AssertExpectations(t)
	})

	t.Run("RotateIfDue_RecordsRotation", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		now := time.Now()
		next.On("RotateIfDue", ctx, now, 90).Return(true, nil).Once()
		expectRecorded(m, ctx, "key_rotate_check", "success")
		m.On("RecordOperation", ctx, "crypto", "key_rotate", "success").Return().Once()

		rotated, err := NewFieldUseCaseWithMetrics(next, m).RotateIfDue(ctx, now, 90)

		assert.NoError(t, err)
		assert.True(t, rotated)
		m.AssertExpectations(t)
	})

	t.Run("RotateIfDue_NotDue", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		now := time.Now()
		next.On("RotateIfDue", ctx, now, 90).Return(false, nil).Once()
		expectRecorded(m, ctx, "key_rotate_check", "success")

		rotated, err := NewFieldUseCaseWithMetrics(next, m).RotateIfDue(ctx, now, 90)

		assert.NoError(t, err)
		assert.False(t, rotated)
		m.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordOperation", ctx, "crypto", "key_rotate", "success")
	})

	t.Run("ActiveKeyID_NotInstrumented", func(t *testing.T) {
		next := &mocks.MockFieldUseCase{}
		m := &mockBusinessMetrics{}
		next.On("ActiveKeyID").Return("k1").Once()

		assert.Equal(t, "k1", NewFieldUseCaseWithMetrics(next, m).ActiveKeyID())
		m.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
