package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

// keyringUseCase implements KeyringUseCase.
//
// mu serializes Bootstrap and Rotate inside the process and the repository lock
// serializes them across processes. current is only written while both are held.
type keyringUseCase struct {
	repo        KeyringRepository
	clock       quartz.Clock
	seedDecoder cryptoDomain.SeedDecoder
	logger      *slog.Logger

	mu      sync.Mutex
	current atomic.Pointer[cryptoDomain.Keyring]
}

// NewKeyringUseCase creates a new KeyringUseCase. seedDecoder may be nil, in
// which case seed values are plain base64 key material.
func NewKeyringUseCase(
	repo KeyringRepository,
	clock quartz.Clock,
	seedDecoder cryptoDomain.SeedDecoder,
	logger *slog.Logger,
) KeyringUseCase {
	return &keyringUseCase{
		repo:        repo,
		clock:       clock,
		seedDecoder: seedDecoder,
		logger:      logger,
	}
}

// Bootstrap loads the keyring or creates it from seed material.
func (k *keyringUseCase) Bootstrap(ctx context.Context, seed string) (*cryptoDomain.Keyring, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	unlock, err := k.repo.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer k.release(unlock)

	keyring, err := k.repo.Load(ctx)
	switch {
	case err == nil:
		k.current.Store(keyring)
		k.logger.Info("keyring loaded",
			slog.String("active_key_id", keyring.ActiveKeyID()),
			slog.Int("keys", keyring.Len()),
		)
		return keyring, nil
	case errors.Is(err, cryptoDomain.ErrKeyringCorrupt):
		dest, qErr := k.repo.Quarantine(ctx)
		if qErr != nil {
			return nil, qErr
		}
		k.logger.Warn("keyring file is unusable, moved aside before bootstrap",
			slog.String("moved_to", dest),
			slog.Any("error", err),
		)
	case errors.Is(err, cryptoDomain.ErrKeyringNotFound):
	default:
		return nil, err
	}

	keyring, err = k.newKeyring(seed)
	if err != nil {
		return nil, err
	}
	if err := k.repo.Save(ctx, keyring); err != nil {
		return nil, err
	}
	k.current.Store(keyring)

	k.logger.Info("keyring bootstrapped",
		slog.String("active_key_id", keyring.ActiveKeyID()),
		slog.Int("keys", keyring.Len()),
	)
	return keyring, nil
}

func (k *keyringUseCase) newKeyring(seed string) (*cryptoDomain.Keyring, error) {
	now := k.clock.Now()

	keys, skipped := cryptoDomain.ParseSeed(seed, now, k.seedDecoder)
	for _, s := range skipped {
		k.logger.Warn("skipping invalid keyring seed entry",
			slog.Int("position", s.Position),
			slog.String("key_id", s.ID),
			slog.Any("error", s.Reason),
		)
	}

	if len(keys) == 0 {
		if seed != "" {
			k.logger.Warn("keyring seed has no valid entries, generating a fresh key")
		}
		key, err := cryptoDomain.GenerateDataKey(now)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return cryptoDomain.NewKeyring(keys[0].ID, keys)
}

// Current returns the published keyring snapshot.
func (k *keyringUseCase) Current() (*cryptoDomain.Keyring, error) {
	keyring := k.current.Load()
	if keyring == nil {
		return nil, cryptoDomain.ErrKeyringNotLoaded
	}
	return keyring, nil
}

// Rotate unconditionally appends and activates a new data key.
func (k *keyringUseCase) Rotate(ctx context.Context) (*cryptoDomain.DataKey, error) {
	return k.rotate(ctx, func(*cryptoDomain.Keyring) bool { return true })
}

// RotateIfDue rotates when the active key has reached the rotation interval.
func (k *keyringUseCase) RotateIfDue(ctx context.Context, now time.Time, intervalDays int) (bool, error) {
	if intervalDays <= 0 {
		return false, nil
	}

	keyring, err := k.Current()
	if err != nil {
		return false, err
	}
	if !keyring.RotationDue(now, intervalDays) {
		return false, nil
	}

	// Re-checked under the lock so concurrent callers rotate only once.
	key, err := k.rotate(ctx, func(latest *cryptoDomain.Keyring) bool {
		return latest.RotationDue(now, intervalDays)
	})
	if err != nil {
		return false, err
	}
	return key != nil, nil
}

// rotate appends a new key when due reports true for the latest persisted
// keyring. It returns a nil key when no rotation was needed.
func (k *keyringUseCase) rotate(
	ctx context.Context,
	due func(*cryptoDomain.Keyring) bool,
) (*cryptoDomain.DataKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.current.Load() == nil {
		return nil, cryptoDomain.ErrKeyringNotLoaded
	}

	unlock, err := k.repo.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer k.release(unlock)

	// Another process may have rotated since this one loaded the keyring.
	latest, err := k.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload keyring before rotation: %w", err)
	}
	if !due(latest) {
		k.current.Store(latest)
		return nil, nil
	}

	key, err := cryptoDomain.GenerateDataKey(k.clock.Now())
	if err != nil {
		return nil, err
	}
	next, err := latest.WithActiveKey(key)
	if err != nil {
		return nil, err
	}

	if err := k.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	k.current.Store(next)

	k.logger.Info("data key rotated",
		slog.String("previous_key_id", latest.ActiveKeyID()),
		slog.String("active_key_id", key.ID),
		slog.Int("keys", next.Len()),
	)
	return key, nil
}

func (k *keyringUseCase) release(unlock func() error) {
	if err := unlock(); err != nil {
		k.logger.Error("failed to release keyring lock", slog.Any("error", err))
	}
}
