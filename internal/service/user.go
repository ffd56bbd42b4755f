package service

import (
	"context"
	"strings"
	"time"

	"github.com/devworkshop/usersvc/internal/dto"
	apperrors "github.com/devworkshop/usersvc/internal/errors"
	"github.com/devworkshop/usersvc/internal/mapper"
	"github.com/devworkshop/usersvc/internal/model"
	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"github.com/devworkshop/usersvc/pkg/hash"
	"github.com/devworkshop/usersvc/pkg/logger"
	"go.uber.org/zap"
)

// UserRepository defines the persistence access the service depends on.
// Reads that find nothing return (nil, nil). Every write call is durable
// on return; the service performs at most one write per operation.
type UserRepository interface {
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	FindMatching(ctx context.Context, query string, args ...any) ([]model.User, error)
	FirstMatching(ctx context.Context, query string, args ...any) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User) error
}

// UserService orchestrates validation, uniqueness checks, credential
// hashing, mapping and persistence for the user domain. It is the only
// layer that makes decisions; repositories and mappers below it do not.
type UserService struct {
	repo          UserRepository
	hasher        hash.PasswordHasher
	jwtService    *JWTService
	defaultRoleID uint
}

func NewUserService(repo UserRepository, hasher hash.PasswordHasher, defaultRoleID uint) *UserService {
	return &UserService{
		repo:          repo,
		hasher:        hasher,
		defaultRoleID: defaultRoleID,
	}
}

func NewUserServiceWithJWT(repo UserRepository, hasher hash.PasswordHasher, jwtService *JWTService, defaultRoleID uint) *UserService {
	return &UserService{
		repo:          repo,
		hasher:        hasher,
		jwtService:    jwtService,
		defaultRoleID: defaultRoleID,
	}
}

// normalizeEmail is the canonical form emails are stored and compared in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetAll returns every user mapped to its outbound shape, in repository
// order.
func (s *UserService) GetAll(ctx context.Context) ([]dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetAll")

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get all users", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	responses, err := mapper.ToUserResponses(users)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to map users", zap.Error(err))
		return nil, err
	}

	logger.WithContext(ctx).Debug("Users retrieved", zap.Int("count", len(responses)))
	return responses, nil
}

// GetByID returns the user or ErrUserNotFound. Absence is a normal
// outcome and is never logged at error severity.
func (s *UserService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get user by ID",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	if user == nil {
		logger.WithContext(ctx).Info("User not found", zap.Uint("user_id", id))
		return nil, apperrors.ErrUserNotFound
	}

	return mapper.ToUserResponse(user)
}

// GetByEmail scans all users for a case-insensitive exact match. The
// linear scan mirrors the storage contract; stored emails are already
// normalized, but the comparison stays case-insensitive regardless.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByEmail")

	target := strings.TrimSpace(email)

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to scan users by email", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, target) {
			return mapper.ToUserResponse(&users[i])
		}
	}

	logger.WithContext(ctx).Info("User not found by email")
	return nil, apperrors.ErrUserNotFound
}

// GetByRole returns all users holding the given role, possibly empty.
func (s *UserService) GetByRole(ctx context.Context, roleID uint) ([]dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByRole")

	users, err := s.repo.FindMatching(ctx, "role_id = ?", roleID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get users by role",
			zap.Uint("role_id", roleID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	return mapper.ToUserResponses(users)
}

// Create registers a new user. The request's role value is always
// discarded; new accounts get the configured default role. The uniqueness
// probe here is advisory only, the email unique index is the real guard.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Create")

	normalized := normalizeEmail(req.Email)

	logger.WithContext(ctx).Info("Creating user", zap.String("email", normalized))

	existing, err := s.repo.FirstMatching(ctx, "email = ?", normalized)
	if err != nil {
		logger.WithContext(ctx).Error("Uniqueness probe failed", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if existing != nil {
		logger.WithContext(ctx).Warn("Email already registered", zap.String("email", normalized))
		return nil, apperrors.ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := mapper.FromCreateRequest(req)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to map create request", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	user.Email = normalized
	user.PasswordHash = passwordHash
	user.RoleID = s.defaultRoleID
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastTokenIssuedAt = now

	if err := s.repo.Create(ctx, user); err != nil {
		logger.WithContext(ctx).Error("Failed to create user",
			zap.String("email", normalized),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	logger.WithContext(ctx).Info("User created",
		zap.Uint("user_id", user.UserID),
		zap.String("email", user.Email),
	)

	return mapper.ToUserResponse(user)
}

// Update applies a partial update: only non-blank fields of the request
// overwrite the entity; everything else keeps its current value.
func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Update")

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load user for update",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if user == nil {
		logger.WithContext(ctx).Info("User not found for update", zap.Uint("user_id", id))
		return nil, apperrors.ErrUserNotFound
	}

	if strings.TrimSpace(req.Email) != "" {
		exists, err := s.EmailExists(ctx, req.Email, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.WithContext(ctx).Warn("Email already in use by another user",
				zap.Uint("user_id", id),
			)
			return nil, apperrors.ErrEmailExists
		}
		user.Email = normalizeEmail(req.Email)
	}

	if strings.TrimSpace(req.FirstName) != "" {
		user.FirstName = strings.TrimSpace(req.FirstName)
	}
	if strings.TrimSpace(req.LastName) != "" {
		user.LastName = strings.TrimSpace(req.LastName)
	}
	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}
	if req.TeamID != nil {
		user.TeamID = req.TeamID
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		logger.WithContext(ctx).Error("Failed to update user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	logger.WithContext(ctx).Info("User updated", zap.Uint("user_id", id))

	return mapper.ToUserResponse(user)
}

// Delete removes the user permanently. A missing id yields (false, nil),
// not an error; the row removal is the single write of the operation.
func (s *UserService) Delete(ctx context.Context, id uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Delete")

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load user for delete",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return false, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if user == nil {
		logger.WithContext(ctx).Info("Nothing to delete", zap.Uint("user_id", id))
		return false, nil
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Delete(ctx, user); err != nil {
		logger.WithContext(ctx).Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return false, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	logger.WithContext(ctx).Info("User deleted", zap.Uint("user_id", id))
	return true, nil
}

// EmailExists reports whether any user other than excludeID holds the
// given email, compared case-insensitively. Pure query, no mutation.
func (s *UserService) EmailExists(ctx context.Context, email string, excludeID *uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "EmailExists")

	target := strings.TrimSpace(email)

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to scan users for email probe", zap.Error(err))
		return false, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	for i := range users {
		if excludeID != nil && users[i].UserID == *excludeID {
			continue
		}
		if strings.EqualFold(users[i].Email, target) {
			return true, nil
		}
	}

	return false, nil
}

// Statistics computes a read-only aggregate over all users.
func (s *UserService) Statistics(ctx context.Context) (*dto.UserStatistics, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Statistics")

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to load users for statistics", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	stats := &dto.UserStatistics{
		TotalUsers:  int64(len(users)),
		UsersByRole: make(map[uint]int64),
	}

	for i := range users {
		stats.UsersByRole[users[i].RoleID]++
		if users[i].TeamID != nil {
			stats.WithTeam++
		} else {
			stats.WithoutTeam++
		}
		if stats.LastSignupAt == nil || users[i].CreatedAt.After(*stats.LastSignupAt) {
			createdAt := users[i].CreatedAt
			stats.LastSignupAt = &createdAt
		}
	}

	logger.WithContext(ctx).Info("Statistics computed", zap.Int64("total_users", stats.TotalUsers))
	return stats, nil
}
