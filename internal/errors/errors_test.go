package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("formats code and message", func(t *testing.T) {
		err := New(ErrCodeValidation, "bad input")

		assert.Equal(t, "VALIDATION_ERROR: bad input", err.Error())
	})

	t.Run("includes cause when wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(ErrCodeStoreUnavailable, "Content store unavailable", cause)

		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("WithCause attaches after construction", func(t *testing.T) {
		cause := errors.New("boom")
		err := Internal("something failed").WithCause(cause)

		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps through fmt.Errorf", func(t *testing.T) {
		inner := InvalidToken()
		wrapped := fmt.Errorf("verify: %w", inner)

		appErr, ok := AsAppError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidToken, appErr.Code)
	})

	t.Run("rejects plain errors", func(t *testing.T) {
		_, ok := AsAppError(errors.New("plain"))
		assert.False(t, ok)
	})
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidCredentials, GetCode(InvalidCredentials()))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
}

func TestInvalidCredentialsMessage(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, "Invalid credentials", InvalidCredentials().Message)
}
