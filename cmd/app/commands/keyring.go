package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/coder/quartz"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	"github.com/allisson/pastecrypt/internal/crypto/http/dto"
	cryptoUseCase "github.com/allisson/pastecrypt/internal/crypto/usecase"
)

// RunKeyringInit loads the keyring, creating it from seed when no keyring file
// exists. Running it again on an existing keyring only reports it.
func RunKeyringInit(
	ctx context.Context,
	keyringUseCase cryptoUseCase.KeyringUseCase,
	clock quartz.Clock,
	writer io.Writer,
	seed string,
	intervalDays int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keyring, err := keyringUseCase.Bootstrap(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to initialize keyring: %w", err)
	}

	return outputKeyringStatus(writer, keyring, clock.Now(), intervalDays, format)
}

// RunKeyringStatus prints the persisted keyring without creating or modifying it.
func RunKeyringStatus(
	ctx context.Context,
	keyringRepository cryptoUseCase.KeyringRepository,
	clock quartz.Clock,
	writer io.Writer,
	intervalDays int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keyring, err := keyringRepository.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load keyring: %w", err)
	}

	return outputKeyringStatus(writer, keyring, clock.Now(), intervalDays, format)
}

// RunRotateKey unconditionally generates a new data key and makes it active.
// Content written under older keys stays readable.
func RunRotateKey(
	ctx context.Context,
	keyringUseCase cryptoUseCase.KeyringUseCase,
	logger *slog.Logger,
	writer io.Writer,
	seed string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	previous, err := keyringUseCase.Bootstrap(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to load keyring: %w", err)
	}

	key, err := keyringUseCase.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	logger.Info("key rotated",
		slog.String("previous_key_id", previous.ActiveKeyID()),
		slog.String("active_key_id", key.ID),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"rotated":         true,
			"previous_key_id": previous.ActiveKeyID(),
			"active_key_id":   key.ID,
			"created_at":      key.CreatedAt,
		})
	}

	_, _ = fmt.Fprintf(writer, "Rotated active key from %s to %s\n", previous.ActiveKeyID(), key.ID)
	return nil
}

// RunRotateKeyIfDue rotates the active key only when it is at least
// intervalDays old. A non-positive interval never rotates.
func RunRotateKeyIfDue(
	ctx context.Context,
	keyringUseCase cryptoUseCase.KeyringUseCase,
	clock quartz.Clock,
	writer io.Writer,
	seed string,
	intervalDays int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if _, err := keyringUseCase.Bootstrap(ctx, seed); err != nil {
		return fmt.Errorf("failed to load keyring: %w", err)
	}

	rotated, err := keyringUseCase.RotateIfDue(ctx, clock.Now(), intervalDays)
	if err != nil {
		return fmt.Errorf("failed to check key rotation: %w", err)
	}

	keyring, err := keyringUseCase.Current()
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"rotated":       rotated,
			"active_key_id": keyring.ActiveKeyID(),
		})
	}

	if rotated {
		_, _ = fmt.Fprintf(writer, "Rotated, active key is now %s\n", keyring.ActiveKeyID())
		return nil
	}
	_, _ = fmt.Fprintf(writer, "Rotation not due, active key is %s\n", keyring.ActiveKeyID())
	return nil
}

// outputKeyringStatus prints keyring ids and rotation state. Key material is never printed.
func outputKeyringStatus(
	writer io.Writer,
	keyring *cryptoDomain.Keyring,
	now time.Time,
	intervalDays int,
	format string,
) error {
	status := dto.MapKeyringToStatusResponse(keyring, now, intervalDays)

	if format == "json" {
		return writeJSON(writer, status)
	}

	_, _ = fmt.Fprintf(writer, "Active key: %s\n", status.ActiveKeyID)
	_, _ = fmt.Fprintf(writer, "Keys: %d\n", status.KeyCount)
	for _, key := range status.Keys {
		marker := " "
		if key.Active {
			marker = "*"
		}
		_, _ = fmt.Fprintf(writer, "  %s %s  created %s\n", marker, key.ID, key.CreatedAt.Format(time.RFC3339))
	}
	if status.NextRotationAt != nil {
		_, _ = fmt.Fprintf(writer, "Rotation due: %t (next at %s)\n",
			status.RotationDue, status.NextRotationAt.Format(time.RFC3339))
	} else {
		_, _ = fmt.Fprintln(writer, "Rotation: disabled")
	}
	return nil
}
