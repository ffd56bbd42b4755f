package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devworkshop/usersvc/internal/dto"
	apperrors "github.com/devworkshop/usersvc/internal/errors"
	"github.com/devworkshop/usersvc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginService(repo *mockUserRepository) *UserService {
	jwtService := NewJWTService("test-secret", 15*time.Minute)
	return NewUserServiceWithJWT(repo, stubHasher{}, jwtService, testDefaultRoleID)
}

func TestLoginSuccess(t *testing.T) {
	stored := sampleUser(7, "jane@example.com", 2)
	var saved *model.User
	repo := &mockUserRepository{
		FirstMatchingFunc: func(ctx context.Context, query string, args ...any) (*model.User, error) {
			require.Equal(t, "email = ?", query)
			require.Equal(t, []any{"jane@example.com"}, args)
			u := stored
			return &u, nil
		},
		UpdateFunc: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}
	svc := newLoginService(repo)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    " Jane@Example.COM ",
		Password: "secret-pass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 900, resp.ExpiresIn)
	assert.Equal(t, uint(7), resp.User.UserID)

	claims, err := svc.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "jane@example.com", claims["email"])

	require.NotNil(t, saved)
	assert.True(t, saved.LastTokenIssuedAt.After(stored.LastTokenIssuedAt))
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockUserRepository{
		FirstMatchingFunc: func(ctx context.Context, query string, args ...any) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newLoginService(repo)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret-pass",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	stored := sampleUser(7, "jane@example.com", 2)
	repo := &mockUserRepository{
		FirstMatchingFunc: func(ctx context.Context, query string, args ...any) (*model.User, error) {
			u := stored
			return &u, nil
		},
	}
	svc := newLoginService(repo)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-pass",
	})

	// Wrong password and unknown email are indistinguishable to the caller
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Zero(t, repo.updateCalls)
}

func TestLoginSurvivesIssuanceRecordFailure(t *testing.T) {
	stored := sampleUser(7, "jane@example.com", 2)
	repo := &mockUserRepository{
		FirstMatchingFunc: func(ctx context.Context, query string, args ...any) (*model.User, error) {
			u := stored
			return &u, nil
		},
		UpdateFunc: func(ctx context.Context, user *model.User) error {
			return errors.New("write timeout")
		},
	}
	svc := newLoginService(repo)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret-pass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginWithoutJWTServiceConfigured(t *testing.T) {
	stored := sampleUser(7, "jane@example.com", 2)
	repo := &mockUserRepository{
		FirstMatchingFunc: func(ctx context.Context, query string, args ...any) (*model.User, error) {
			u := stored
			return &u, nil
		},
	}
	svc := NewUserService(repo, stubHasher{}, testDefaultRoleID)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret-pass",
	})

	assert.ErrorIs(t, err, apperrors.ErrInternal)
}
