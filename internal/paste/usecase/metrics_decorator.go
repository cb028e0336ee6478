package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/pastecrypt/internal/metrics"
	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

// pasteUseCaseWithMetrics decorates PasteUseCase with metrics instrumentation.
type pasteUseCaseWithMetrics struct {
	next    PasteUseCase
	metrics metrics.BusinessMetrics
}

// NewPasteUseCaseWithMetrics wraps a PasteUseCase with metrics recording.
func NewPasteUseCaseWithMetrics(useCase PasteUseCase, m metrics.BusinessMetrics) PasteUseCase {
	return &pasteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *pasteUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "pastes", operation, status)
	p.metrics.RecordDuration(ctx, "pastes", operation, time.Since(start), status)
}

// Create records metrics for paste creation.
func (p *pasteUseCaseWithMetrics) Create(
	ctx context.Context,
	content string,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	start := time.Now()
	paste, err := p.next.Create(ctx, content, expiresAt)
	p.record(ctx, "paste_create", start, err)
	return paste, err
}

// Get records metrics for paste retrieval.
func (p *pasteUseCaseWithMetrics) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	start := time.Now()
	paste, err := p.next.Get(ctx, pasteID)
	p.record(ctx, "paste_get", start, err)
	return paste, err
}

// UpdateContent records metrics for paste content updates.
func (p *pasteUseCaseWithMetrics) UpdateContent(
	ctx context.Context,
	pasteID uuid.UUID,
	content string,
) (*pasteDomain.Paste, error) {
	start := time.Now()
	paste, err := p.next.UpdateContent(ctx, pasteID, content)
	p.record(ctx, "paste_update_content", start, err)
	return paste, err
}

// UpdateExpiration records metrics for paste expiration updates.
func (p *pasteUseCaseWithMetrics) UpdateExpiration(
	ctx context.Context,
	pasteID uuid.UUID,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	start := time.Now()
	paste, err := p.next.UpdateExpiration(ctx, pasteID, expiresAt)
	p.record(ctx, "paste_update_expiration", start, err)
	return paste, err
}

// Rewrap records metrics for paste rewraps.
func (p *pasteUseCaseWithMetrics) Rewrap(ctx context.Context, pasteID uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := p.next.Rewrap(ctx, pasteID)
	p.record(ctx, "paste_rewrap", start, err)
	return changed, err
}

// AddMessage records metrics for message creation.
func (p *pasteUseCaseWithMetrics) AddMessage(
	ctx context.Context,
	pasteID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	start := time.Now()
	msg, err := p.next.AddMessage(ctx, pasteID, body)
	p.record(ctx, "message_create", start, err)
	return msg, err
}

// ListMessages records metrics for message listing.
func (p *pasteUseCaseWithMetrics) ListMessages(
	ctx context.Context,
	pasteID uuid.UUID,
) ([]*pasteDomain.Message, error) {
	start := time.Now()
	messages, err := p.next.ListMessages(ctx, pasteID)
	p.record(ctx, "message_list", start, err)
	return messages, err
}

// EditMessage records metrics for message edits.
func (p *pasteUseCaseWithMetrics) EditMessage(
	ctx context.Context,
	messageID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	start := time.Now()
	msg, err := p.next.EditMessage(ctx, messageID, body)
	p.record(ctx, "message_edit", start, err)
	return msg, err
}

// RewrapMessage records metrics for message rewraps.
func (p *pasteUseCaseWithMetrics) RewrapMessage(ctx context.Context, messageID uuid.UUID) (bool, error) {
	start := time.Now()
	changed, err := p.next.RewrapMessage(ctx, messageID)
	p.record(ctx, "message_rewrap", start, err)
	return changed, err
}
