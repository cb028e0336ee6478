package domain

import (
	"math"
	"time"
)

// Algorithm represents the AEAD algorithm used to seal a field payload.
//
// Both algorithms use a 256-bit key, a 96-bit random nonce and a 128-bit
// authentication tag, so a DataKey can be used with either of them.
type Algorithm string

const (
	// AESGCM represents AES-256 in Galois/Counter Mode. It is the default
	// algorithm for new payloads and is written with the "v1" version tag.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. It is written with the "v2" version
	// tag and is only used for new payloads when explicitly configured.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// PayloadVersion is the leading tag of a serialized envelope. It identifies the
// payload layout and the AEAD algorithm that produced it.
type PayloadVersion string

const (
	// PayloadV1 marks an AES-256-GCM envelope.
	PayloadV1 PayloadVersion = "v1"
	// PayloadV2 marks a ChaCha20-Poly1305 envelope.
	PayloadV2 PayloadVersion = "v2"
)

const (
	// KeySize is the required length of every DataKey (256 bits).
	KeySize = 32

	// NonceSize is the AEAD nonce length for both supported algorithms (96 bits).
	NonceSize = 12

	// TagSize is the AEAD authentication tag length (128 bits).
	TagSize = 16

	// LegacyKeyID is the key id recorded for values written before field
	// encryption existed. Such values are stored as plaintext.
	LegacyKeyID = "none"

	// Day is the unit of the rotation interval.
	Day = 24 * time.Hour

	// MaxRotationIntervalDays is the largest interval whose duration fits in a
	// time.Duration.
	MaxRotationIntervalDays = int(math.MaxInt64 / int64(Day))
)

// RotationInterval converts intervalDays to a duration. It returns false when
// rotation is disabled (non-positive) or the interval does not fit in a
// time.Duration, in which case the key never becomes due.
func RotationInterval(intervalDays int) (time.Duration, bool) {
	if intervalDays <= 0 || intervalDays > MaxRotationIntervalDays {
		return 0, false
	}
	return time.Duration(intervalDays) * Day, true
}

// AlgorithmForVersion returns the algorithm that produced payloads tagged with v.
func AlgorithmForVersion(v PayloadVersion) (Algorithm, bool) {
	switch v {
	case PayloadV1:
		return AESGCM, true
	case PayloadV2:
		return ChaCha20, true
	default:
		return "", false
	}
}

// VersionForAlgorithm returns the version tag written for payloads sealed with alg.
func VersionForAlgorithm(alg Algorithm) (PayloadVersion, bool) {
	switch alg {
	case AESGCM:
		return PayloadV1, true
	case ChaCha20:
		return PayloadV2, true
	default:
		return "", false
	}
}
