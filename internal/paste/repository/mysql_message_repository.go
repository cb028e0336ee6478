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

const mysqlMessageColumns = `id, paste_id, body, body_key_id, created_at, updated_at`

// MySQLMessageRepository implements chat message persistence for MySQL.
type MySQLMessageRepository struct {
	db *sql.DB
}

// Create inserts a new message.
func (m *MySQLMessageRepository) Create(ctx context.Context, msg *pasteDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO messages (id, paste_id, body, body_key_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := msg.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	pasteID, err := msg.PasteID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal paste id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		pasteID,
		msg.Body.Payload,
		msg.Body.KeyID,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

// Get retrieves a message by its ID.
func (m *MySQLMessageRepository) Get(ctx context.Context, messageID uuid.UUID) (*pasteDomain.Message, error) {
	query := `SELECT ` + mysqlMessageColumns + ` FROM messages WHERE id = ?`
	return m.get(ctx, query, messageID)
}

// GetForUpdate retrieves a message and locks its row until the surrounding
// transaction ends.
func (m *MySQLMessageRepository) GetForUpdate(
	ctx context.Context,
	messageID uuid.UUID,
) (*pasteDomain.Message, error) {
	query := `SELECT ` + mysqlMessageColumns + ` FROM messages WHERE id = ? FOR UPDATE`
	return m.get(ctx, query, messageID)
}

func (m *MySQLMessageRepository) get(
	ctx context.Context,
	query string,
	messageID uuid.UUID,
) (*pasteDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := messageID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal message id")
	}

	var msg pasteDomain.Message
	var idBytes, pasteIDBytes []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&pasteIDBytes,
		&msg.Body.Payload,
		&msg.Body.KeyID,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pasteDomain.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get message")
	}

	if err := unmarshalMessageIDs(&msg, idBytes, pasteIDBytes); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByPaste returns the messages of a paste ordered by creation time.
func (m *MySQLMessageRepository) ListByPaste(
	ctx context.Context,
	pasteID uuid.UUID,
) ([]*pasteDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlMessageColumns + `
			  FROM messages
			  WHERE paste_id = ?
			  ORDER BY created_at ASC, id ASC`

	id, err := pasteID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal paste id")
	}

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*pasteDomain.Message, 0)
	for rows.Next() {
		var msg pasteDomain.Message
		var idBytes, pasteIDBytes []byte
		if err := rows.Scan(
			&idBytes,
			&pasteIDBytes,
			&msg.Body.Payload,
			&msg.Body.KeyID,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
		}
		if err := unmarshalMessageIDs(&msg, idBytes, pasteIDBytes); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate messages")
	}

	return messages, nil
}

// Update writes the body field and updated_at of an existing message.
func (m *MySQLMessageRepository) Update(ctx context.Context, msg *pasteDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE messages
			  SET body = ?,
			  	  body_key_id = ?,
				  updated_at = ?
			  WHERE id = ?`

	id, err := msg.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		msg.Body.Payload,
		msg.Body.KeyID,
		msg.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update message")
	}
	return nil
}

// NewMySQLMessageRepository creates a new MySQL message repository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

func unmarshalMessageIDs(msg *pasteDomain.Message, idBytes, pasteIDBytes []byte) error {
	if err := msg.ID.UnmarshalBinary(idBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal message id")
	}
	if err := msg.PasteID.UnmarshalBinary(pasteIDBytes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal paste id")
	}
	return nil
}
