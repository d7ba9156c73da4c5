package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"fields required", ErrFieldsRequired, http.StatusBadRequest},
		{"avatar required", ErrAvatarRequired, http.StatusBadRequest},
		{"incorrect password", ErrIncorrectPassword, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"refresh expired", ErrRefreshTokenExpired, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"channel not found", ErrChannelNotFound, http.StatusNotFound},
		{"video not found", ErrVideoNotFound, http.StatusNotFound},
		{"user exists", ErrUserExists, http.StatusConflict},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestWrappedErrorKeepsStatusAndIdentity(t *testing.T) {
	cause := errors.New("token is expired")
	wrapped := WrapError(ErrInvalidRefreshToken, cause)

	assert.Equal(t, http.StatusUnauthorized, ToHTTPStatus(wrapped))
	assert.ErrorIs(t, wrapped, ErrInvalidRefreshToken)
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetErrorMessageHidesInternals(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	wrapped := WrapError(ErrInternal, cause)

	msg := GetErrorMessage(wrapped)
	assert.Equal(t, "internal server error", msg)
	assert.NotContains(t, msg, "10.0.0.5")

	assert.Equal(t, "internal server error", GetErrorMessage(cause))
	assert.Equal(t, "", GetErrorMessage(nil))
}

func TestDomainErrorString(t *testing.T) {
	assert.Equal(t, "user does not exist", ErrUserNotFound.Error())

	wrapped := WrapError(ErrUserNotFound, errors.New("record not found"))
	assert.Contains(t, wrapped.Error(), "user does not exist")
	assert.Contains(t, wrapped.Error(), "record not found")
}
