package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
	pasteMocks "github.com/allisson/pastecrypt/internal/paste/usecase/mocks"
)

func TestRunRewrapPaste(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pasteID := uuid.Must(uuid.NewV7())

	t.Run("rewraps-content-and-messages", func(t *testing.T) {
		messages := []*pasteDomain.Message{
			{ID: uuid.Must(uuid.NewV7()), PasteID: pasteID},
			{ID: uuid.Must(uuid.NewV7()), PasteID: pasteID},
			{ID: uuid.Must(uuid.NewV7()), PasteID: pasteID},
		}

		mockUseCase := &pasteMocks.MockPasteUseCase{}
		mockUseCase.On("Rewrap", ctx, pasteID).Return(true, nil).Once()
		mockUseCase.On("ListMessages", ctx, pasteID).Return(messages, nil).Once()
		mockUseCase.On("RewrapMessage", ctx, messages[0].ID).Return(true, nil).Once()
		mockUseCase.On("RewrapMessage", ctx, messages[1].ID).Return(false, nil).Once()
		mockUseCase.On("RewrapMessage", ctx, messages[2].ID).Return(true, nil).Once()

		var out bytes.Buffer
		err := RunRewrapPaste(ctx, mockUseCase, logger, &out, pasteID.String(), "text")

		require.NoError(t, err)
		assert.Equal(t,
			"Paste "+pasteID.String()+": content rewrapped: true, messages rewrapped: 2 of 3\n",
			out.String(),
		)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &pasteMocks.MockPasteUseCase{}
		mockUseCase.On("Rewrap", ctx, pasteID).Return(false, nil).Once()
		mockUseCase.On("ListMessages", ctx, pasteID).Return([]*pasteDomain.Message{}, nil).Once()

		var out bytes.Buffer
		err := RunRewrapPaste(ctx, mockUseCase, logger, &out, pasteID.String(), "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"content_rewrapped": false`)
		assert.Contains(t, out.String(), `"messages_total": 0`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-paste-id", func(t *testing.T) {
		mockUseCase := &pasteMocks.MockPasteUseCase{}

		err := RunRewrapPaste(ctx, mockUseCase, logger, io.Discard, "not-a-uuid", "text")

		require.ErrorContains(t, err, "invalid paste-id")
		mockUseCase.AssertNotCalled(t, "Rewrap")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunRewrapPaste(ctx, &pasteMocks.MockPasteUseCase{}, logger, io.Discard, pasteID.String(), "xml")
		require.ErrorContains(t, err, "invalid format")
	})

	t.Run("rewrap-error", func(t *testing.T) {
		mockUseCase := &pasteMocks.MockPasteUseCase{}
		mockUseCase.On("Rewrap", ctx, pasteID).Return(false, pasteDomain.ErrPasteNotFound).Once()

		err := RunRewrapPaste(ctx, mockUseCase, logger, io.Discard, pasteID.String(), "text")

		assert.ErrorIs(t, err, pasteDomain.ErrPasteNotFound)
		mockUseCase.AssertNotCalled(t, "ListMessages")
	})

	t.Run("message-rewrap-error", func(t *testing.T) {
		msg := &pasteDomain.Message{ID: uuid.Must(uuid.NewV7()), PasteID: pasteID}
		rewrapErr := errors.New("decryption failed")

		mockUseCase := &pasteMocks.MockPasteUseCase{}
		mockUseCase.On("Rewrap", ctx, pasteID).Return(true, nil).Once()
		mockUseCase.On("ListMessages", ctx, pasteID).Return([]*pasteDomain.Message{msg}, nil).Once()
		mockUseCase.On("RewrapMessage", ctx, msg.ID).Return(false, rewrapErr).Once()

		err := RunRewrapPaste(ctx, mockUseCase, logger, io.Discard, pasteID.String(), "text")

		assert.ErrorIs(t, err, rewrapErr)
		assert.ErrorContains(t, err, msg.ID.String())
	})
}
