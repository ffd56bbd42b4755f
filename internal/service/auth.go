package service

import (
	"context"
	"time"

	"github.com/devworkshop/usersvc/internal/dto"
	apperrors "github.com/devworkshop/usersvc/internal/errors"
	"github.com/devworkshop/usersvc/internal/mapper"
	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"github.com/devworkshop/usersvc/pkg/logger"
	"go.uber.org/zap"
)

// Login verifies credentials and issues an access token. The same error
// is returned for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	normalized := normalizeEmail(req.Email)

	user, err := s.repo.FirstMatching(ctx, "email = ?", normalized)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to look up user for login", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if user == nil {
		logger.WithContext(ctx).Info("Login failed: unknown email")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		logger.WithContext(ctx).Warn("Login failed: wrong password",
			zap.Uint("user_id", user.UserID),
		)
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.jwtService == nil {
		logger.WithContext(ctx).Error("JWT service not configured")
		return nil, apperrors.ErrInternal
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to generate token",
			zap.Uint("user_id", user.UserID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Record the issuance; a failure here does not invalidate the token
	now := time.Now().UTC()
	user.LastTokenIssuedAt = now
	user.UpdatedAt = now
	if err := s.repo.Update(ctx, user); err != nil {
		logger.WithContext(ctx).Warn("Failed to record token issuance",
			zap.Uint("user_id", user.UserID),
			zap.Error(err),
		)
	}

	response, err := mapper.ToUserResponse(user)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("User logged in", zap.Uint("user_id", user.UserID))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.Expiration().Seconds()),
		User:      *response,
	}, nil
}
