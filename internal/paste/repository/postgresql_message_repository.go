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

const postgresqlMessageColumns = `id, paste_id, body, body_key_id, created_at, updated_at`

// PostgreSQLMessageRepository implements chat message persistence for PostgreSQL.
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// Create inserts a new message.
func (p *PostgreSQLMessageRepository) Create(ctx context.Context, msg *pasteDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (id, paste_id, body, body_key_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.PasteID,
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
func (p *PostgreSQLMessageRepository) Get(ctx context.Context, messageID uuid.UUID) (*pasteDomain.Message, error) {
	query := `SELECT ` + postgresqlMessageColumns + ` FROM messages WHERE id = $1`
	return p.get(ctx, query, messageID)
}

// GetForUpdate retrieves a message and locks its row until the surrounding
// transaction ends.
func (p *PostgreSQLMessageRepository) GetForUpdate(
	ctx context.Context,
	messageID uuid.UUID,
) (*pasteDomain.Message, error) {
	query := `SELECT ` + postgresqlMessageColumns + ` FROM messages WHERE id = $1 FOR UPDATE`
	return p.get(ctx, query, messageID)
}

func (p *PostgreSQLMessageRepository) get(
	ctx context.Context,
	query string,
	messageID uuid.UUID,
) (*pasteDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	var msg pasteDomain.Message
	err := querier.QueryRowContext(ctx, query, messageID).Scan(
		&msg.ID,
		&msg.PasteID,
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
	return &msg, nil
}

// ListByPaste returns the messages of a paste ordered by creation time.
func (p *PostgreSQLMessageRepository) ListByPaste(
	ctx context.Context,
	pasteID uuid.UUID,
) ([]*pasteDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresqlMessageColumns + `
			  FROM messages
			  WHERE paste_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, pasteID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*pasteDomain.Message, 0)
	for rows.Next() {
		var msg pasteDomain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.PasteID,
			&msg.Body.Payload,
			&msg.Body.KeyID,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate messages")
	}

	return messages, nil
}

// Update writes the body field and updated_at of an existing message.
func (p *PostgreSQLMessageRepository) Update(ctx context.Context, msg *pasteDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE messages
			  SET body = $1,
			  	  body_key_id = $2,
				  updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		msg.Body.Payload,
		msg.Body.KeyID,
		msg.UpdatedAt,
		msg.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update message")
	}
	return checkRowsAffected(result, pasteDomain.ErrMessageNotFound)
}

// NewPostgreSQLMessageRepository creates a new PostgreSQL message repository.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}
