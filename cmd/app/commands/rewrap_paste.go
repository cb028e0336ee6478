package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	pasteUseCase "github.com/allisson/pastecrypt/internal/paste/usecase"
)

// rewrapResult summarizes a rewrap-paste run.
type rewrapResult struct {
	PasteID           string `json:"paste_id"`
	ContentRewrapped  bool   `json:"content_rewrapped"`
	MessagesTotal     int    `json:"messages_total"`
	MessagesRewrapped int    `json:"messages_rewrapped"`
}

// RunRewrapPaste moves a paste and all of its messages to the active key. Legacy
// plaintext and content under retired keys are re-encrypted; content already
// under the active key is left untouched.
func RunRewrapPaste(
	ctx context.Context,
	pasteUseCase pasteUseCase.PasteUseCase,
	logger *slog.Logger,
	writer io.Writer,
	pasteIDStr string,
	format string,
) error {
	pasteID, err := uuid.Parse(pasteIDStr)
	if err != nil {
		return fmt.Errorf("invalid paste-id: %w", err)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	result := rewrapResult{PasteID: pasteID.String()}

	result.ContentRewrapped, err = pasteUseCase.Rewrap(ctx, pasteID)
	if err != nil {
		return fmt.Errorf("failed to rewrap paste content: %w", err)
	}

	messages, err := pasteUseCase.ListMessages(ctx, pasteID)
	if err != nil {
		return fmt.Errorf("failed to list paste messages: %w", err)
	}
	result.MessagesTotal = len(messages)

	for _, msg := range messages {
		rewrapped, err := pasteUseCase.RewrapMessage(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("failed to rewrap message %s: %w", msg.ID, err)
		}
		if rewrapped {
			result.MessagesRewrapped++
		}
	}

	logger.Info("paste rewrap completed",
		slog.String("paste_id", result.PasteID),
		slog.Bool("content_rewrapped", result.ContentRewrapped),
		slog.Int("messages_rewrapped", result.MessagesRewrapped),
	)

	if format == "json" {
		return writeJSON(writer, result)
	}

	_, _ = fmt.Fprintf(writer, "Paste %s: content rewrapped: %t, messages rewrapped: %d of %d\n",
		result.PasteID, result.ContentRewrapped, result.MessagesRewrapped, result.MessagesTotal)
	return nil
}
