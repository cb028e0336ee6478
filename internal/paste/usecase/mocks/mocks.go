// Package mocks provides mock implementations of the paste use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

// MockTxManager is a mock implementation of database.TxManager. Unless the
// expectation returns an error, fn runs with the caller's context.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockPasteRepository is a mock implementation of PasteRepository.
type MockPasteRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockPasteRepository) Create(ctx context.Context, paste *pasteDomain.Paste) error {
	args := m.Called(ctx, paste)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockPasteRepository) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method.
func (m *MockPasteRepository) GetForUpdate(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// Update mocks the Update method.
func (m *MockPasteRepository) Update(ctx context.Context, paste *pasteDomain.Paste) error {
	args := m.Called(ctx, paste)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMessageRepository) Create(ctx context.Context, msg *pasteDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockMessageRepository) Get(ctx context.Context, messageID uuid.UUID) (*pasteDomain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Message), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method.
func (m *MockMessageRepository) GetForUpdate(
	ctx context.Context,
	messageID uuid.UUID,
) (*pasteDomain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Message), args.Error(1)
}

// ListByPaste mocks the ListByPaste method.
func (m *MockMessageRepository) ListByPaste(
	ctx context.Context,
	pasteID uuid.UUID,
) ([]*pasteDomain.Message, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pasteDomain.Message), args.Error(1)
}

// Update mocks the Update method.
func (m *MockMessageRepository) Update(ctx context.Context, msg *pasteDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPasteUseCase is a mock implementation of PasteUseCase.
type MockPasteUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockPasteUseCase) Create(
	ctx context.Context,
	content string,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, content, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// Get mocks the Get method.
func (m *MockPasteUseCase) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// UpdateContent mocks the UpdateContent method.
func (m *MockPasteUseCase) UpdateContent(
	ctx context.Context,
	pasteID uuid.UUID,
	content string,
) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, pasteID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// UpdateExpiration mocks the UpdateExpiration method.
func (m *MockPasteUseCase) UpdateExpiration(
	ctx context.Context,
	pasteID uuid.UUID,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	args := m.Called(ctx, pasteID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Paste), args.Error(1)
}

// Rewrap mocks the Rewrap method.
func (m *MockPasteUseCase) Rewrap(ctx context.Context, pasteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, pasteID)
	return args.Bool(0), args.Error(1)
}

// AddMessage mocks the AddMessage method.
func (m *MockPasteUseCase) AddMessage(
	ctx context.Context,
	pasteID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	args := m.Called(ctx, pasteID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Message), args.Error(1)
}

// ListMessages mocks the ListMessages method.
func (m *MockPasteUseCase) ListMessages(ctx context.Context, pasteID uuid.UUID) ([]*pasteDomain.Message, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pasteDomain.Message), args.Error(1)
}

// EditMessage mocks the EditMessage method.
func (m *MockPasteUseCase) EditMessage(
	ctx context.Context,
	messageID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	args := m.Called(ctx, messageID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pasteDomain.Message), args.Error(1)
}

// RewrapMessage mocks the RewrapMessage method.
func (m *MockPasteUseCase) RewrapMessage(ctx context.Context, messageID uuid.UUID) (bool, error) {
	args := m.Called(ctx, messageID)
	return args.Bool(0), args.Error(1)
}
