// Package mocks provides mock implementations of the crypto use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// MockKeyringRepository is a mock implementation of KeyringRepository.
type MockKeyringRepository struct {
	mock.Mock
}

// Load mocks the Load method.
func (m *MockKeyringRepository) Load(ctx context.Context) (*cryptoDomain.Keyring, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Keyring), args.Error(1)
}

// Save mocks the Save method.
func (m *MockKeyringRepository) Save(ctx context.Context, keyring *cryptoDomain.Keyring) error {
	args := m.Called(ctx, keyring)
	return args.Error(0)
}

// Quarantine mocks the Quarantine method.
func (m *MockKeyringRepository) Quarantine(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Lock mocks the Lock method. A nil unlock function is replaced by a no-op.
func (m *MockKeyringRepository) Lock(ctx context.Context) (func() error, error) {
	args := m.Called(ctx)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if unlock, ok := args.Get(0).(func() error); ok && unlock != nil {
		return unlock, nil
	}
	return func() error { return nil }, nil
}

// MockKeyringUseCase is a mock implementation of KeyringUseCase.
type MockKeyringUseCase struct {
	mock.Mock
}

// Bootstrap mocks the Bootstrap method.
func (m *MockKeyringUseCase) Bootstrap(ctx context.Context, seed string) (*cryptoDomain.Keyring, error) {
	args := m.Called(ctx, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Keyring), args.Error(1)
}

// Current mocks the Current method.
func (m *MockKeyringUseCase) Current() (*cryptoDomain.Keyring, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Keyring), args.Error(1)
}

// Rotate mocks the Rotate method.
func (m *MockKeyringUseCase) Rotate(ctx context.Context) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// RotateIfDue mocks the RotateIfDue method.
func (m *MockKeyringUseCase) RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error) {
	args := m.Called(ctx, now, intervalDays)
	return args.Bool(0), args.Error(1)
}

// MockFieldUseCase is a mock implementation of FieldUseCase.
type MockFieldUseCase struct {
	mock.Mock
}

// ActiveKeyID mocks the ActiveKeyID method.
func (m *MockFieldUseCase) ActiveKeyID() string {
	args := m.Called()
	return args.String(0)
}

// Encrypt mocks the Encrypt method.
func (m *MockFieldUseCase) Encrypt(ctx context.Context, plaintext string) (cryptoDomain.EncryptedField, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).(cryptoDomain.EncryptedField), args.Error(1)
}

// EncryptWithKeyID mocks the EncryptWithKeyID method.
func (m *MockFieldUseCase) EncryptWithKeyID(ctx context.Context, keyID, plaintext string) (string, error) {
	args := m.Called(ctx, keyID, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockFieldUseCase) Decrypt(ctx context.Context, keyID, payload string) (string, error) {
	args := m.Called(ctx, keyID, payload)
	return args.String(0), args.Error(1)
}

// RotateIfDue mocks the RotateIfDue method.
func (m *MockFieldUseCase) RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error) {
	args := m.Called(ctx, now, intervalDays)
	return args.Bool(0), args.Error(1)
}
