package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	cryptoUseCase "github.com/allisson/pastecrypt/internal/crypto/usecase"
	"github.com/allisson/pastecrypt/internal/database"
	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

// pasteUseCase implements PasteUseCase.
type pasteUseCase struct {
	txManager   database.TxManager
	pasteRepo   PasteRepository
	messageRepo MessageRepository
	field       cryptoUseCase.FieldUseCase
	clock       quartz.Clock
	logger      *slog.Logger
}

// NewPasteUseCase creates a new PasteUseCase.
func NewPasteUseCase(
	txManager database.TxManager,
	pasteRepo PasteRepository,
	messageRepo MessageRepository,
	field cryptoUseCase.FieldUseCase,
	clock quartz.Clock,
	logger *slog.Logger,
) PasteUseCase {
	return &pasteUseCase{
		txManager:   txManager,
		pasteRepo:   pasteRepo,
		messageRepo: messageRepo,
		field:       field,
		clock:       clock,
		logger:      logger,
	}
}

func (p *pasteUseCase) now() time.Time {
	return p.clock.Now().UTC()
}

// Create encrypts content and stores a new paste.
func (p *pasteUseCase) Create(
	ctx context.Context,
	content string,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	if err := pasteDomain.ValidateContent(content); err != nil {
		return nil, err
	}
	now := p.now()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, pasteDomain.ErrInvalidExpiration
	}

	field, err := p.field.Encrypt(ctx, content)
	if err != nil {
		return nil, err
	}

	paste := &pasteDomain.Paste{
		ID:        uuid.Must(uuid.NewV7()),
		Content:   field,
		Plaintext: content,
		ExpiresAt: utcPtr(expiresAt),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.pasteRepo.Create(ctx, paste); err != nil {
		return nil, err
	}

	return paste, nil
}

// Get retrieves and decrypts a paste. Legacy content is returned as stored.
func (p *pasteUseCase) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	paste, err := p.pasteRepo.Get(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	if paste.IsExpired(p.now()) {
		return nil, pasteDomain.ErrPasteNotFound
	}

	paste.Plaintext, err = p.open(ctx, paste.Content)
	if err != nil {
		return nil, err
	}
	return paste, nil
}

// UpdateContent replaces the paste content.
func (p *pasteUseCase) UpdateContent(
	ctx context.Context,
	pasteID uuid.UUID,
	content string,
) (*pasteDomain.Paste, error) {
	if err := pasteDomain.ValidateContent(content); err != nil {
		return nil, err
	}

	var paste *pasteDomain.Paste
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		paste, err = p.lockActivePaste(txCtx, pasteID)
		if err != nil {
			return err
		}

		field, err := p.field.Encrypt(txCtx, content)
		if err != nil {
			return err
		}
		paste.Content = field
		paste.Plaintext = content
		paste.UpdatedAt = p.now()

		return p.pasteRepo.Update(txCtx, paste)
	})
	if err != nil {
		return nil, err
	}

	return paste, nil
}

// UpdateExpiration changes the expiration and migrates legacy content in the
// same write.
func (p *pasteUseCase) UpdateExpiration(
	ctx context.Context,
	pasteID uuid.UUID,
	expiresAt *time.Time,
) (*pasteDomain.Paste, error) {
	if expiresAt != nil && !expiresAt.After(p.now()) {
		return nil, pasteDomain.ErrInvalidExpiration
	}

	var paste *pasteDomain.Paste
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		paste, err = p.lockActivePaste(txCtx, pasteID)
		if err != nil {
			return err
		}

		paste.Plaintext, err = p.open(txCtx, paste.Content)
		if err != nil {
			return err
		}

		if paste.Content.IsLegacy() {
			field, err := p.field.Encrypt(txCtx, paste.Plaintext)
			if err != nil {
				return err
			}
			paste.Content = field
			p.logger.Debug("migrated legacy paste content",
				slog.String("paste_id", paste.ID.String()),
				slog.String("key_id", field.KeyID),
			)
		}

		paste.ExpiresAt = utcPtr(expiresAt)
		paste.UpdatedAt = p.now()

		return p.pasteRepo.Update(txCtx, paste)
	})
	if err != nil {
		return nil, err
	}

	return paste, nil
}

// Rewrap moves paste content to the active key.
func (p *pasteUseCase) Rewrap(ctx context.Context, pasteID uuid.UUID) (bool, error) {
	var changed bool
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		paste, err := p.pasteRepo.GetForUpdate(txCtx, pasteID)
		if err != nil {
			return err
		}

		field, rewrapped, err := p.rewrap(txCtx, paste.Content)
		if err != nil || !rewrapped {
			return err
		}

		p.logger.Info("rewrapped paste content",
			slog.String("paste_id", paste.ID.String()),
			slog.String("from_key_id", paste.Content.KeyID),
			slog.String("to_key_id", field.KeyID),
		)
		paste.Content = field
		paste.UpdatedAt = p.now()
		if err := p.pasteRepo.Update(txCtx, paste); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// AddMessage stores a new encrypted message on an active paste.
func (p *pasteUseCase) AddMessage(
	ctx context.Context,
	pasteID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	if err := pasteDomain.ValidateContent(body); err != nil {
		return nil, err
	}

	paste, err := p.pasteRepo.Get(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	now := p.now()
	if paste.IsExpired(now) {
		return nil, pasteDomain.ErrPasteNotFound
	}

	field, err := p.field.Encrypt(ctx, body)
	if err != nil {
		return nil, err
	}

	msg := &pasteDomain.Message{
		ID:        uuid.Must(uuid.NewV7()),
		PasteID:   paste.ID,
		Body:      field,
		Plaintext: body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// ListMessages retrieves and decrypts the messages of an active paste.
func (p *pasteUseCase) ListMessages(ctx context.Context, pasteID uuid.UUID) ([]*pasteDomain.Message, error) {
	paste, err := p.pasteRepo.Get(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	if paste.IsExpired(p.now()) {
		return nil, pasteDomain.ErrPasteNotFound
	}

	messages, err := p.messageRepo.ListByPaste(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		msg.Plaintext, err = p.open(ctx, msg.Body)
		if err != nil {
			return nil, err
		}
	}

	return messages, nil
}

// EditMessage replaces a message body.
func (p *pasteUseCase) EditMessage(
	ctx context.Context,
	messageID uuid.UUID,
	body string,
) (*pasteDomain.Message, error) {
	if err := pasteDomain.ValidateContent(body); err != nil {
		return nil, err
	}

	var msg *pasteDomain.Message
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		msg, err = p.messageRepo.GetForUpdate(txCtx, messageID)
		if err != nil {
			return err
		}

		field, err := p.field.Encrypt(txCtx, body)
		if err != nil {
			return err
		}
		msg.Body = field
		msg.Plaintext = body
		msg.UpdatedAt = p.now()

		return p.messageRepo.Update(txCtx, msg)
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// RewrapMessage moves a message body to the active key.
func (p *pasteUseCase) RewrapMessage(ctx context.Context, messageID uuid.UUID) (bool, error) {
	var changed bool
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		msg, err := p.messageRepo.GetForUpdate(txCtx, messageID)
		if err != nil {
			return err
		}

		field, rewrapped, err := p.rewrap(txCtx, msg.Body)
		if err != nil || !rewrapped {
			return err
		}

		msg.Body = field
		msg.UpdatedAt = p.now()
		if err := p.messageRepo.Update(txCtx, msg); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// lockActivePaste loads a paste for update and rejects expired pastes.
func (p *pasteUseCase) lockActivePaste(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	paste, err := p.pasteRepo.GetForUpdate(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	if paste.IsExpired(p.now()) {
		return nil, pasteDomain.ErrPasteNotFound
	}
	return paste, nil
}

// open returns the plaintext of a stored field.
func (p *pasteUseCase) open(ctx context.Context, field cryptoDomain.EncryptedField) (string, error) {
	if field.IsLegacy() {
		return field.Payload, nil
	}
	return p.field.Decrypt(ctx, field.KeyID, field.Payload)
}

// rewrap re-encrypts field under the active key unless it is already there.
func (p *pasteUseCase) rewrap(
	ctx context.Context,
	field cryptoDomain.EncryptedField,
) (cryptoDomain.EncryptedField, bool, error) {
	if !field.IsLegacy() && field.KeyID == p.field.ActiveKeyID() {
		return field, false, nil
	}

	plaintext, err := p.open(ctx, field)
	if err != nil {
		return field, false, err
	}

	rewrapped, err := p.field.Encrypt(ctx, plaintext)
	if err != nil {
		return field, false, err
	}
	return rewrapped, true, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
