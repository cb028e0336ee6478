package domain

import (
	"fmt"
	"time"
)

// Keyring is an immutable snapshot of every DataKey ever created plus the id of
// the key used for new encryptions.
//
// A Keyring is never edited in place. Rotation builds a new value with
// WithActiveKey and the new value replaces the old one as a whole, so a reader
// holding a snapshot always sees a consistent (active id, keys) pair.
type Keyring struct {
	activeID string
	keys     []*DataKey
	index    map[string]*DataKey
}

// NewKeyring builds a keyring from keys in creation order and the active id.
// Returns ErrEmptyKeyring, ErrReservedKeyID, ErrInvalidKeySize or
// ErrDuplicateKeyID for structural defects and ErrActiveKeyNotFound when
// activeID does not refer to one of the keys.
func NewKeyring(activeID string, keys []*DataKey) (*Keyring, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeyring
	}

	kr := &Keyring{
		activeID: activeID,
		keys:     make([]*DataKey, 0, len(keys)),
		index:    make(map[string]*DataKey, len(keys)),
	}
	for _, key := range keys {
		if key == nil || key.ID == "" || key.ID == LegacyKeyID {
			return nil, ErrReservedKeyID
		}
		if len(key.Key) != KeySize {
			return nil, fmt.Errorf("%w: data key %s", ErrInvalidKeySize, key.ID)
		}
		if _, exists := kr.index[key.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKeyID, key.ID)
		}
		kr.keys = append(kr.keys, key)
		kr.index[key.ID] = key
	}

	if _, ok := kr.index[activeID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrActiveKeyNotFound, activeID)
	}

	return kr, nil
}

// ActiveKeyID returns the id of the key used for new encryptions.
func (k *Keyring) ActiveKeyID() string {
	return k.activeID
}

// ActiveKey returns the key used for new encryptions.
func (k *Keyring) ActiveKey() *DataKey {
	return k.index[k.activeID]
}

// Get returns the key with the given id.
func (k *Keyring) Get(id string) (*DataKey, bool) {
	key, ok := k.index[id]
	return key, ok
}

// Keys returns the keys in creation order. The slice is a copy; the keys are shared.
func (k *Keyring) Keys() []*DataKey {
	keys := make([]*DataKey, len(k.keys))
	copy(keys, k.keys)
	return keys
}

// Len returns the number of keys in the keyring.
func (k *Keyring) Len() int {
	return len(k.keys)
}

// WithActiveKey returns a new keyring with key appended and made active.
// The receiver is left unchanged.
func (k *Keyring) WithActiveKey(key *DataKey) (*Keyring, error) {
	keys := make([]*DataKey, 0, len(k.keys)+1)
	keys = append(keys, k.keys...)
	keys = append(keys, key)
	return NewKeyring(key.ID, keys)
}

// RotationDue reports whether the active key is at least intervalDays old.
// A non-positive interval disables rotation, as does one longer than
// MaxRotationIntervalDays.
func (k *Keyring) RotationDue(now time.Time, intervalDays int) bool {
	interval, ok := RotationInterval(intervalDays)
	if !ok {
		return false
	}
	return k.ActiveKey().Age(now) >= interval
}
