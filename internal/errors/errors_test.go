package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.ErrorIs(t, wrapped, baseErr)
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrap base category keeps category", func(t *testing.T) {
		domainErr := Wrap(ErrIntegrity, "decryption failed")
		assert.True(t, Is(domainErr, ErrIntegrity))
		assert.False(t, Is(domainErr, ErrNotFound))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "context")

	var target customError
	require.True(t, As(err, &target))
	assert.Equal(t, "custom", target.Msg)
}

func TestJoin(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	joined := Join(first, nil, second)
	require.Error(t, joined)
	assert.ErrorIs(t, joined, first)
	assert.ErrorIs(t, joined, second)

	assert.NoError(t, Join(nil, nil))
}
