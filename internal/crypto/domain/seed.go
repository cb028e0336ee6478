package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SeedDecoder turns the key half of a seed entry into raw key material.
type SeedDecoder func(value string) ([]byte, error)

// SkippedSeedEntry describes a seed entry that was dropped during parsing.
type SkippedSeedEntry struct {
	Position int    // Zero-based position of the entry in the seed string
	ID       string // Entry id, empty when the entry had no id
	Reason   error
}

var (
	errSeedEntryFormat    = errors.New("expected id:base64key")
	errSeedEntryDuplicate = errors.New("duplicate id")
)

// ParseSeed parses externally supplied seed material into data keys.
//
// The seed is a comma-separated list of entries in format "id:base64key":
//
//	KEYRING_SEED="k1:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA,k2:BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
//
// Every key gets createdAt = now. Entries with a blank id or key are skipped
// silently. Entries that are malformed, reuse an id, use the legacy sentinel,
// fail to decode or decode to the wrong length are skipped and reported in the
// second return value so the caller can log them. Parsing never fails as a
// whole; an empty result means the caller should generate a fresh key.
//
// decode defaults to DecodeKeyBase64 when nil. Decoded buffers are zeroed once
// copied into the DataKey.
func ParseSeed(raw string, now time.Time, decode SeedDecoder) ([]*DataKey, []SkippedSeedEntry) {
	if decode == nil {
		decode = DecodeKeyBase64
	}

	var keys []*DataKey
	var skipped []SkippedSeedEntry
	seen := make(map[string]struct{})

	position := -1
	for part := range strings.SplitSeq(raw, ",") {
		position++
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}

		p := strings.SplitN(entry, ":", 2)
		if len(p) != 2 {
			skipped = append(skipped, SkippedSeedEntry{Position: position, Reason: errSeedEntryFormat})
			continue
		}
		id := strings.TrimSpace(p[0])
		value := strings.TrimSpace(p[1])
		if id == "" || value == "" {
			continue
		}
		if id == LegacyKeyID {
			skipped = append(skipped, SkippedSeedEntry{Position: position, ID: id, Reason: ErrReservedKeyID})
			continue
		}
		if _, dup := seen[id]; dup {
			skipped = append(skipped, SkippedSeedEntry{Position: position, ID: id, Reason: errSeedEntryDuplicate})
			continue
		}

		material, err := decode(value)
		if err != nil {
			skipped = append(skipped, SkippedSeedEntry{Position: position, ID: id, Reason: err})
			continue
		}
		key, err := NewDataKey(id, now, material)
		Zero(material)
		if err != nil {
			skipped = append(skipped, SkippedSeedEntry{Position: position, ID: id, Reason: err})
			continue
		}

		seen[id] = struct{}{}
		keys = append(keys, key)
	}

	return keys, skipped
}

// DecodeKeyBase64 decodes base64 key material, accepting the standard and
// URL-safe alphabets with or without padding.
func DecodeKeyBase64(value string) ([]byte, error) {
	trimmed := strings.TrimRight(value, "=")
	if b, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		return b, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 key: %w", err)
	}
	return b, nil
}
