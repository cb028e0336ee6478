package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/pastecrypt/internal/database"
	apperrors "github.com/allisson/pastecrypt/internal/errors"
	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

const mysqlPasteColumns = `id, content, content_key_id, expires_at, created_at, updated_at`

// MySQLPasteRepository implements paste persistence for MySQL.
// Uses BINARY(16) for UUIDs; the DSN must set parseTime=true.
type MySQLPasteRepository struct {
	db *sql.DB
}

// Create inserts a new paste.
func (m *MySQLPasteRepository) Create(ctx context.Context, paste *pasteDomain.Paste) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO pastes (id, content, content_key_id, expires_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := paste.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal paste id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		paste.Content.Payload,
		paste.Content.KeyID,
		paste.ExpiresAt,
		paste.CreatedAt,
		paste.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create paste")
	}
	return nil
}

// Get retrieves a paste by its ID.
func (m *MySQLPasteRepository) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	query := `SELECT ` + mysqlPasteColumns + ` FROM pastes WHERE id = ?`
	return m.get(ctx, query, pasteID)
}

// GetForUpdate retrieves a paste and locks its row until the surrounding
// transaction ends.
func (m *MySQLPasteRepository) GetForUpdate(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	query := `SELECT ` + mysqlPasteColumns + ` FROM pastes WHERE id = ? FOR UPDATE`
	return m.get(ctx, query, pasteID)
}

func (m *MySQLPasteRepository) get(
	ctx context.Context,
	query string,
	pasteID uuid.UUID,
) (*pasteDomain.Paste, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := pasteID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal paste id")
	}

	var paste pasteDomain.Paste
	var idBytes []byte
	var expiresAt sql.NullTime

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&paste.Content.Payload,
		&paste.Content.KeyID,
		&expiresAt,
		&paste.CreatedAt,
		&paste.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pasteDomain.ErrPasteNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get paste")
	}

	if err := paste.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal paste id")
	}
	paste.ExpiresAt = nullTimePtr(expiresAt)

	return &paste, nil
}

// Update writes the content field, expiration and updated_at of an existing paste.
//
// MySQL reports changed rows rather than matched rows, so a missing paste is
// not detected here; callers load the row first.
func (m *MySQLPasteRepository) Update(ctx context.Context, paste *pasteDomain.Paste) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE pastes
			  SET content = ?,
			  	  content_key_id = ?,
				  expires_at = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := paste.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal paste id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		paste.Content.Payload,
		paste.Content.KeyID,
		paste.ExpiresAt,
		paste.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update paste")
	}
	return nil
}

// NewMySQLPasteRepository creates a new MySQL paste repository.
func NewMySQLPasteRepository(db *sql.DB) *MySQLPasteRepository {
	return &MySQLPasteRepository{db: db}
}
