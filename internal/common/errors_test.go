package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendError_MatchesRejectedAndKeepsMessage(t *testing.T) {
	err := fmt.Errorf("login: %w", NewBackendError(http.StatusUnauthorized, "Invalid credentials"))

	require.ErrorIs(t, err, ErrBackendRejected)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Invalid credentials", Message(err))
}

func TestNewBackendError_FallsBackToStatusText(t *testing.T) {
	be := NewBackendError(http.StatusTeapot, "")
	assert.Equal(t, http.StatusText(http.StatusTeapot), be.Message)

	be = NewBackendError(799, "")
	assert.Equal(t, ErrBackendRejected.Error(), be.Message)
}

func TestStateErrors_MatchInvalidState(t *testing.T) {
	for _, err := range []error{ErrCooldownActive, ErrNotAuthenticated, ErrRoleNotEntitled, ErrNoPending} {
		assert.ErrorIs(t, err, ErrInvalidState, err.Error())
		assert.NotErrorIs(t, err, ErrValidation)
	}
	assert.False(t, errors.Is(ErrCooldownActive, ErrNotAuthenticated))
}

func TestMessage_NilAndPlain(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
