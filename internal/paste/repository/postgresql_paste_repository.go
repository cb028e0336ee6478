// Package repository implements paste and message persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/pastecrypt/internal/database"
	apperrors "github.com/allisson/pastecrypt/internal/errors"
	pasteDomain "github.com/allisson/pastecrypt/internal/paste/domain"
)

const postgresqlPasteColumns = `id, content, content_key_id, expires_at, created_at, updated_at`

// PostgreSQLPasteRepository implements paste persistence for PostgreSQL.
// The content and content_key_id columns are always read and written together.
type PostgreSQLPasteRepository struct {
	db *sql.DB
}

// Create inserts a new paste.
func (p *PostgreSQLPasteRepository) Create(ctx context.Context, paste *pasteDomain.Paste) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO pastes (id, content, content_key_id, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		paste.ID,
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
func (p *PostgreSQLPasteRepository) Get(ctx context.Context, pasteID uuid.UUID) (*pasteDomain.Paste, error) {
	query := `SELECT ` + postgresqlPasteColumns + ` FROM pastes WHERE id = $1`
	return p.get(ctx, query, pasteID)
}

// GetForUpdate retrieves a paste and locks its row until the surrounding
// transaction ends.
func (p *PostgreSQLPasteRepository) GetForUpdate(
	ctx context.Context,
	pasteID uuid.UUID,
) (*pasteDomain.Paste, error) {
	query := `SELECT ` + postgresqlPasteColumns + ` FROM pastes WHERE id = $1 FOR UPDATE`
	return p.get(ctx, query, pasteID)
}

func (p *PostgreSQLPasteRepository) get(
	ctx context.Context,
	query string,
	pasteID uuid.UUID,
) (*pasteDomain.Paste, error) {
	querier := database.GetTx(ctx, p.db)

	var paste pasteDomain.Paste
	var expiresAt sql.NullTime
	err := querier.QueryRowContext(ctx, query, pasteID).Scan(
		&paste.ID,
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
	paste.ExpiresAt = nullTimePtr(expiresAt)

	return &paste, nil
}

// Update writes the content field, expiration and updated_at of an existing paste.
func (p *PostgreSQLPasteRepository) Update(ctx context.Context, paste *pasteDomain.Paste) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE pastes
			  SET content = $1,
			  	  content_key_id = $2,
				  expires_at = $3,
				  updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		paste.Content.Payload,
		paste.Content.KeyID,
		paste.ExpiresAt,
		paste.UpdatedAt,
		paste.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update paste")
	}
	return checkRowsAffected(result, pasteDomain.ErrPasteNotFound)
}

// NewPostgreSQLPasteRepository creates a new PostgreSQL paste repository.
func NewPostgreSQLPasteRepository(db *sql.DB) *PostgreSQLPasteRepository {
	return &PostgreSQLPasteRepository{db: db}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func checkRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
