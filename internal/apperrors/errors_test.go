package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsAppError(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", ErrInFlight)
	got := FromError(wrapped)
	require.Equal(t, ErrInFlight, got)
	require.Equal(t, http.StatusConflict, got.StatusCode)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	cause := errors.New("boom")
	got := FromError(cause)
	require.Equal(t, ErrInternalServer.Code, got.Code)
	require.ErrorIs(t, got, cause)
	require.Nil(t, FromError(nil))
}

func TestWithInternalDoesNotMutateSentinel(t *testing.T) {
	cause := errors.New("timeout")
	got := ErrUpstream.WithInternal(cause)
	require.Nil(t, ErrUpstream.Internal)
	require.Contains(t, got.Error(), "timeout")
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("malformed JSON body")
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, "malformed JSON body", err.Message)
	require.Equal(t, "Invalid request", ErrBadRequest.Message)
}
