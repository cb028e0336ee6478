// Package dto provides data transfer objects for keyring status responses.
package dto

import (
	"time"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// KeyResponse describes one data key. Key material is never included.
type KeyResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// KeyringStatusResponse describes the loaded keyring and its rotation state.
type KeyringStatusResponse struct {
	ActiveKeyID          string        `json:"active_key_id"`
	KeyCount             int           `json:"key_count"`
	RotationIntervalDays int           `json:"rotation_interval_days"`
	RotationDue          bool          `json:"rotation_due"`
	NextRotationAt       *time.Time    `json:"next_rotation_at,omitempty"`
	Keys                 []KeyResponse `json:"keys"`
}

// MapKeyringToStatusResponse converts a keyring snapshot to a status response.
// NextRotationAt is only set when rotation is enabled.
func MapKeyringToStatusResponse(
	keyring *cryptoDomain.Keyring,
	now time.Time,
	intervalDays int,
) KeyringStatusResponse {
	activeID := keyring.ActiveKeyID()
	keys := keyring.Keys()

	response := KeyringStatusResponse{
		ActiveKeyID:          activeID,
		KeyCount:             len(keys),
		RotationIntervalDays: intervalDays,
		RotationDue:          keyring.RotationDue(now, intervalDays),
		Keys:                 make([]KeyResponse, 0, len(keys)),
	}

	for _, key := range keys {
		response.Keys = append(response.Keys, KeyResponse{
			ID:        key.ID,
			CreatedAt: key.CreatedAt,
			Active:    key.ID == activeID,
		})
	}

	if interval, ok := cryptoDomain.RotationInterval(intervalDays); ok {
		next := keyring.ActiveKey().CreatedAt.Add(interval)
		response.NextRotationAt = &next
	}

	return response
}
