package domain

import (
	"github.com/allisson/pastecrypt/internal/errors"
)

// Paste-specific error definitions.
var (
	// ErrPasteNotFound indicates the paste does not exist or has expired.
	ErrPasteNotFound = errors.Wrap(errors.ErrNotFound, "paste not found")

	// ErrMessageNotFound indicates the message does not exist.
	ErrMessageNotFound = errors.Wrap(errors.ErrNotFound, "message not found")
)

// ErrInvalidExpiration indicates an expiration time that is not in the future.
var ErrInvalidExpiration = errors.Wrap(errors.ErrInvalidInput, "expiration must be in the future")
