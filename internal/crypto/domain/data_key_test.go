package domain

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataKey(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.FixedZone("BRT", -3*3600))

	t.Run("Success_CopiesMaterialAndNormalizesTime", func(t *testing.T) {
		material := bytes.Repeat([]byte{7}, KeySize)

		key, err := NewDataKey("k1", now, material)

		require.NoError(t, err)
		assert.Equal(t, "k1", key.ID)
		assert.Equal(t, time.UTC, key.CreatedAt.Location())
		assert.Equal(t, now.Unix(), key.CreatedAt.Unix())
		assert.Equal(t, 0, key.CreatedAt.Nanosecond())

		Zero(material)
		assert.Equal(t, bytes.Repeat([]byte{7}, KeySize), key.Key)
	})

	t.Run("Error_ReservedID", func(t *testing.T) {
		for _, id := range []string{"", LegacyKeyID} {
			key, err := NewDataKey(id, now, make([]byte, KeySize))
			assert.Nil(t, key)
			assert.ErrorIs(t, err, ErrReservedKeyID)
		}
	})

	t.Run("Error_WrongKeySize", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			key, err := NewDataKey("k1", now, make([]byte, size))
			assert.Nil(t, key)
			assert.ErrorIs(t, err, ErrInvalidKeySize)
		}
	})
}

func TestGenerateDataKey(t *testing.T) {
	now := time.Now()

	a, err := GenerateDataKey(now)
	require.NoError(t, err)
	b, err := GenerateDataKey(now)
	require.NoError(t, err)

	assert.Len(t, a.Key, KeySize)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Key, b.Key)
	assert.NotEqual(t, LegacyKeyID, a.ID)
	assert.Equal(t, now.Unix(), a.CreatedAt.Unix())
}

func TestDataKey_Age(t *testing.T) {
	created := time.Unix(1_700_000_000, 0)
	key, err := NewDataKey("k1", created, make([]byte, KeySize))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), key.Age(created))
	assert.Equal(t, 36*time.Hour, key.Age(created.Add(36*time.Hour)))
}
