// Package domain defines the paste and chat message models. Sensitive text is
// held as an EncryptedField: the key id and payload stored in adjacent columns.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// MaxContentBytes is the largest paste content or message body accepted.
const MaxContentBytes = 1 << 20

// Paste is a stored paste.
type Paste struct {
	ID uuid.UUID
	// Content is the stored form of the paste body. Its KeyID is the legacy
	// sentinel for rows written before field encryption existed.
	Content cryptoDomain.EncryptedField
	// Plaintext holds the decrypted content in memory only.
	Plaintext string `json:"-"`
	// ExpiresAt is nil for pastes that never expire.
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the paste has expired at now.
func (p *Paste) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Message is a chat message attached to a paste.
type Message struct {
	ID      uuid.UUID
	PasteID uuid.UUID
	// Body is the stored form of the message text.
	Body cryptoDomain.EncryptedField
	// Plaintext holds the decrypted body in memory only.
	Plaintext string `json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
