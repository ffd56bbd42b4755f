package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	wrapped := WrapError(ErrPersistence, errors.New("connection reset"))

	assert.ErrorIs(t, wrapped, ErrPersistence)
	assert.Contains(t, wrapped.Error(), "connection reset")
	assert.Equal(t, "connection reset", errors.Unwrap(wrapped).Error())
}

func TestDifferentCodesDoNotMatch(t *testing.T) {
	wrapped := WrapError(ErrPersistence, errors.New("boom"))

	assert.NotErrorIs(t, wrapped, ErrUserNotFound)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrUserNotFound, http.StatusNotFound},
		{"email exists", ErrEmailExists, http.StatusConflict},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"mapping", ErrMapping, http.StatusInternalServerError},
		{"persistence", ErrPersistence, http.StatusInternalServerError},
		{"wrapped persistence", WrapError(ErrPersistence, errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "", GetErrorMessage(nil))
	assert.Equal(t, "user not found", GetErrorMessage(ErrUserNotFound))
	assert.Equal(t, "persistence layer failure", GetErrorMessage(WrapError(ErrPersistence, errors.New("boom"))))
	assert.Equal(t, "boom", GetErrorMessage(errors.New("boom")))
}

func TestGetDomainError(t *testing.T) {
	assert.Nil(t, GetDomainError(errors.New("plain")))

	de := GetDomainError(WrapError(ErrEmailExists, errors.New("dup")))
	assert.NotNil(t, de)
	assert.Equal(t, "EMAIL_EXISTS", de.Code)
}
