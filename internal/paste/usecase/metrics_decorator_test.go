package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
	"github.com/allisson/pastecrypt/internal/paste/usecase/mocks"
)

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

func expectRecorded(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "pastes", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "pastes", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestPasteUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("Create_Success", func(t *testing.T) {
		next := &mocks.MockPasteUseCase{}
		m := &mockBusinessMetrics{}
		paste := &pasteDomain.Paste{ID: id}
		next.On("Create", ctx, "content", (*time.Time)(nil)).Return(paste, nil).Once()
		expectRecorded(m, ctx, "paste_create", "success")

		got, err := NewPasteUseCaseWithMetrics(next, m).Create(ctx, "content", nil)

		assert.NoError(t, err)
		assert.Equal(t, paste, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Get_Error", func(t *testing.T) {
		next := &mocks.MockPasteUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Get", ctx, id).Return(nil, pasteDomain.ErrPasteNotFound).Once()
		expectRecorded(m, ctx, "paste_get", "error")

		_, err := NewPasteUseCaseWithMetrics(next, m).Get(ctx, id)

		assert.ErrorIs(t, err, pasteDomain.ErrPasteNotFound)
		m.AssertExpectations(t)
	})

	t.Run("Rewrap_Success", func(t *testing.T) {
		next := &mocks.MockPasteUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Rewrap", ctx, id).Return(true, nil).Once()
		expectRecorded(m, ctx, "paste_rewrap", "success")

		changed, err := NewPasteUseCaseWithMetrics(next, m).Rewrap(ctx, id)

		assert.NoError(t, err)
		assert.True(t, changed)
		m.AssertExpectations(t)
	})

	t.Run("Messages", func(t *testing.T) {
		next := &mocks.MockPasteUseCase{}
		m := &mockBusinessMetrics{}
		msg := &pasteDomain.Message{ID: id, PasteID: id}
		next.On("AddMessage", ctx, id, "hi").Return(msg, nil).Once()
		next.On("ListMessages", ctx, id).Return([]*pasteDomain.Message{msg}, nil).Once()
		next.On("EditMessage", ctx, id, "hey").Return(msg, nil).Once()
		next.On("RewrapMessage", ctx, id).Return(false, nil).Once()
		expectRecorded(m, ctx, "message_create", "success")
		expectRecorded(m, ctx, "message_list", "success")
		expectRecorded(m, ctx, "message_edit", "success")
		expectRecorded(m, ctx, "message_rewrap", "success")

		uc := NewPasteUseCaseWithMetrics(next, m)
		_, err := uc.AddMessage(ctx, id, "hi")
		assert.NoError(t, err)
		_, err = uc.ListMessages(ctx, id)
		assert.NoError(t, err)
		_, err = uc.EditMessage(ctx, id, "hey")
		assert.NoError(t, err)
		_, err = uc.RewrapMessage(ctx, id)
		assert.NoError(t, err)

		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Updates", func(t *testing.T) {
		next := &mocks.MockPasteUseCase{}
		m := &mockBusinessMetrics{}
		paste := &pasteDomain.Paste{ID: id}
		next.On("UpdateContent", ctx, id, "new").Return(paste, nil).Once()
		next.On("UpdateExpiration", ctx, id, (*time.Time)(nil)).Return(paste, nil).Once()
		expectRecorded(m, ctx, "paste_update_content", "success")
		expectRecorded(m, ctx, "paste_update_expiration", "success")

		uc := NewPasteUseCaseWithMetrics(next, m)
		_, err := uc.UpdateContent(ctx, id, "new")
		assert.NoError(t, err)
		_, err = uc.UpdateExpiration(ctx, id, nil)
		assert.NoError(t, err)

		m.AssertExpectations(t)
	})
}
