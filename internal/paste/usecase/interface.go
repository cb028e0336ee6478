// Package usecase implements paste and chat message operations on top of field
// encryption.
//
// Sensitive columns written before field encryption existed carry the legacy
// key id and hold plaintext. Such values are returned as-is on read and are
// migrated by the next write of their row; reads never write. Values sealed
// under a retired key are only moved to the active key by an explicit Rewrap.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

// PasteRepository defines the interface for paste persistence operations.
type PasteRepository interface {
	Create(ctx context.Context, paste *pasteDomain.Paste) error
	Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error)
	GetForUpdate(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error)
	Update(ctx context.Context, paste *pasteDomain.Paste) error
}

// MessageRepository defines the interface for chat message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *pasteDomain.Message) error
	Get(ctx context.Context, messageID uuid.UUID) (*pasteDomain.Message, error)
	GetForUpdate(ctx context.Context, messageID uuid.UUID) (*pasteDomain.Message, error)
	ListByPaste(ctx context.Context, pasteID uuid.UUID) ([]*pasteDomain.Message, error)
	Update(ctx context.Context, msg *pasteDomain.Message) error
}

// PasteUseCase defines the interface for paste and message business logic.
//
// Every returned Paste and Message has its Plaintext field populated.
type PasteUseCase interface {
	// Create encrypts content under the active key and stores a new paste.
	// A nil expiresAt means the paste never expires.
	Create(ctx context.Context, content string, expiresAt *time.Time) (*pasteDomain.Paste, error)

	// Get returns a paste that exists and has not expired.
	Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error)

	// UpdateContent replaces the content, always sealing it under the active key.
	UpdateContent(ctx context.Context, pasteID uuid.UUID, content string) (*pasteDomain.Paste, error)

	// UpdateExpiration changes the expiration. Legacy content is encrypted under
	// the active key in the same row write; content under a retired key is left
	// as it is.
	UpdateExpiration(ctx context.Context, pasteID uuid.UUID, expiresAt *time.Time) (*pasteDomain.Paste, error)

	// Rewrap re-encrypts content that is not under the active key. Reports
	// whether the row was rewritten.
	Rewrap(ctx context.Context, pasteID uuid.UUID) (bool, error)

	// AddMessage encrypts body under the active key and attaches it to a paste.
	AddMessage(ctx context.Context, pasteID uuid.UUID, body string) (*pasteDomain.Message, error)

	// ListMessages returns the messages of a paste in creation order.
	ListMessages(ctx context.Context, pasteID uuid.UUID) ([]*pasteDomain.Message, error)

	// EditMessage replaces a message body, sealing it under the active key.
	EditMessage(ctx context.Context, messageID uuid.UUID, body string) (*pasteDomain.Message, error)

	// RewrapMessage re-encrypts a message body that is not under the active key.
	// Reports whether the row was rewritten.
	RewrapMessage(ctx context.Context, messageID uuid.UUID) (bool, error)
}
