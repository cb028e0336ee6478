// Package repository implements persistence for the keyring.
package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
)

const (
	keyringFileMode = 0o600
	keyringDirMode  = 0o700
	lockRetryDelay  = 50 * time.Millisecond
)

type keyringFile struct {
	ActiveKeyID string           `json:"activeKeyId"`
	Keys        []keyringFileKey `json:"keys"`
}

type keyringFileKey struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	KeyB64    string `json:"keyB64"`
}

// FileKeyringRepository stores the keyring as a JSON file.
//
// Writes go to a temporary file in the same directory which is synced and then
// renamed over the canonical path, so the canonical file is always either the
// previous complete keyring or the new one.
type FileKeyringRepository struct {
	path      string
	logger    *slog.Logger
	writeFile func(path string, r io.Reader) error
	chmod     func(path string, mode os.FileMode) error
	now       func() time.Time
}

// NewFileKeyringRepository creates a repository for the keyring file at path.
func NewFileKeyringRepository(path string, logger *slog.Logger) *FileKeyringRepository {
	return &FileKeyringRepository{
		path:      path,
		logger:    logger,
		writeFile: atomic.WriteFile,
		chmod:     os.Chmod,
		now:       time.Now,
	}
}

// Path returns the canonical keyring file path.
func (r *FileKeyringRepository) Path() string {
	return r.path
}

// Load reads the keyring file.
//
// Returns ErrKeyringNotFound when the file does not exist and ErrKeyringCorrupt
// (which also matches ErrKeyringNotFound) when it cannot be read or is
// structurally invalid. An active id that does not refer to any key is returned
// as ErrActiveKeyNotFound, which is fatal.
func (r *FileKeyringRepository) Load(ctx context.Context) (*cryptoDomain.Keyring, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, cryptoDomain.ErrKeyringNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyringCorrupt, err)
	}

	var file keyringFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyringCorrupt, err)
	}

	keys := make([]*cryptoDomain.DataKey, 0, len(file.Keys))
	for i, entry := range file.Keys {
		key, err := decodeFileKey(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: key %d: %v", cryptoDomain.ErrKeyringCorrupt, i, err)
		}
		keys = append(keys, key)
	}

	keyring, err := cryptoDomain.NewKeyring(file.ActiveKeyID, keys)
	if errors.Is(err, cryptoDomain.ErrActiveKeyNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyringCorrupt, err)
	}

	return keyring, nil
}

func decodeFileKey(entry keyringFileKey) (*cryptoDomain.DataKey, error) {
	if entry.ID == "" {
		return nil, errors.New("empty id")
	}
	if entry.CreatedAt <= 0 {
		return nil, fmt.Errorf("invalid createdAt %d", entry.CreatedAt)
	}
	material, err := base64.StdEncoding.DecodeString(entry.KeyB64)
	if err != nil {
		return nil, fmt.Errorf("invalid keyB64: %w", err)
	}
	defer cryptoDomain.Zero(material)

	return cryptoDomain.NewDataKey(entry.ID, time.Unix(entry.CreatedAt, 0), material)
}

// Save persists keyring atomically and restricts the file to the owner.
//
// The parent directory is created when missing. Failure to restrict permissions
// on a filesystem that does not support it is logged and ignored; any other
// chmod failure is returned.
func (r *FileKeyringRepository) Save(ctx context.Context, keyring *cryptoDomain.Keyring) error {
	file := keyringFile{
		ActiveKeyID: keyring.ActiveKeyID(),
		Keys:        make([]keyringFileKey, 0, keyring.Len()),
	}
	for _, key := range keyring.Keys() {
		file.Keys = append(file.Keys, keyringFileKey{
			ID:        key.ID,
			CreatedAt: key.CreatedAt.Unix(),
			KeyB64:    base64.StdEncoding.EncodeToString(key.Key),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode keyring: %w", err)
	}
	defer cryptoDomain.Zero(data)

	if err := os.MkdirAll(filepath.Dir(r.path), keyringDirMode); err != nil {
		return fmt.Errorf("failed to create keyring directory: %w", err)
	}

	if err := r.writeFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write keyring file: %w", err)
	}

	if err := r.chmod(r.path, keyringFileMode); err != nil {
		if !isUnsupportedChmod(err) {
			return fmt.Errorf("failed to restrict keyring file permissions: %w", err)
		}
		r.logger.Warn("could not restrict keyring file permissions",
			slog.String("path", r.path),
			slog.Any("error", err),
		)
	}

	return nil
}

// Quarantine moves an unusable keyring file aside to "<path>.corrupt-<unix>" so
// a fresh keyring can be written without destroying the old key material.
// Returns the new location, or "" when there was no file to move.
func (r *FileKeyringRepository) Quarantine(ctx context.Context) (string, error) {
	if _, err := os.Lstat(r.path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	dest := fmt.Sprintf("%s.corrupt-%d", r.path, r.now().Unix())
	if err := os.Rename(r.path, dest); err != nil {
		return "", fmt.Errorf("failed to move corrupt keyring file aside: %w", err)
	}
	return dest, nil
}

// Lock takes an exclusive advisory lock on "<path>.lock" so that bootstrap and
// rotation are serialized across processes sharing the keyring file. The
// returned function releases the lock.
func (r *FileKeyringRepository) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(r.path), keyringDirMode); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}

	lockPath := r.path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if !ok {
		return nil, fmt.Errorf("could not acquire keyring lock %s: %w", lockPath, err)
	}
	return lock.Close, nil
}

func isUnsupportedChmod(err error) bool {
	return errors.Is(err, errors.ErrUnsupported) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.ENOTSUP) ||
		errors.Is(err, syscall.EOPNOTSUPP)
}
