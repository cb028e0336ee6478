// Package http provides HTTP handlers for keyring inspection.
// Handlers only ever expose key ids and timestamps, never key material.
package http

import (
	"log/slog"
	"net/http"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"

	"github.com/allisson/pastecrypt/internal/crypto/http/dto"
	cryptoUseCase "github.com/allisson/pastecrypt/internal/crypto/usecase"
	"github.com/allisson/pastecrypt/internal/httputil"
)

// KeyringHandler handles HTTP requests for keyring status.
type KeyringHandler struct {
	keyringUseCase       cryptoUseCase.KeyringUseCase
	clock                quartz.Clock
	rotationIntervalDays int
	logger               *slog.Logger
}

// NewKeyringHandler creates a new keyring handler.
func NewKeyringHandler(
	keyringUseCase cryptoUseCase.KeyringUseCase,
	clock quartz.Clock,
	rotationIntervalDays int,
	logger *slog.Logger,
) *KeyringHandler {
	return &KeyringHandler{
		keyringUseCase:       keyringUseCase,
		clock:                clock,
		rotationIntervalDays: rotationIntervalDays,
		logger:               logger,
	}
}

// StatusHandler returns the active key id, the key list and the rotation state.
// GET /v1/keyring - Returns 503 Service Unavailable before the keyring is loaded.
func (h *KeyringHandler) StatusHandler(c *gin.Context) {
	keyring, err := h.keyringUseCase.Current()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapKeyringToStatusResponse(keyring, h.clock.Now(), h.rotationIntervalDays)
	c.JSON(http.StatusOK, response)
}
