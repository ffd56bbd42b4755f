package repository

import (
	"context"
	"errors"
	"time"

	"github.com/devworkshop/usersvc/internal/model"
	"github.com/devworkshop/usersvc/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository is the GORM-backed store for users. Reads that find
// nothing return (nil, nil); callers treat absence as a normal outcome.
// Each write call is its own commit boundary.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetAll returns every stored user in primary-key order.
func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var users []model.User

	result := r.db.WithContext(ctx).Order("user_id").Find(&users)
	if result.Error != nil {
		logger.WithContext(ctx).Error("Failed to fetch users",
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	logger.WithContext(ctx).Debug("Users fetched",
		zap.Int("count", len(users)),
		zap.Duration("duration", time.Since(start)),
	)

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithContext(ctx).Error("Failed to get user by ID",
			zap.Uint("user_id", id),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	return &user, nil
}

// FindMatching returns all users satisfying the given condition, e.g.
// FindMatching(ctx, "role_id = ?", roleID).
func (r *UserRepository) FindMatching(ctx context.Context, query string, args ...any) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var users []model.User

	result := r.db.WithContext(ctx).Where(query, args...).Order("user_id").Find(&users)
	if result.Error != nil {
		logger.WithContext(ctx).Error("Failed to find users",
			zap.String("query", query),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	return users, nil
}

// FirstMatching is the short-circuiting variant used for uniqueness probes.
func (r *UserRepository) FirstMatching(ctx context.Context, query string, args ...any) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User

	result := r.db.WithContext(ctx).Where(query, args...).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithContext(ctx).Error("Failed to probe users",
			zap.String("query", query),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	return &user, nil
}

// Create persists a new user and fills in the assigned identity.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.WithContext(ctx).Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return result.Error
	}

	logger.WithContext(ctx).Info("User row created",
		zap.Uint("user_id", user.UserID),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Update persists the current in-memory state of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		logger.WithContext(ctx).Error("Failed to update user",
			zap.Uint("user_id", user.UserID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return result.Error
	}

	return nil
}

// Delete removes the user row permanently.
func (r *UserRepository) Delete(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Delete(&model.User{}, user.UserID)
	if result.Error != nil {
		logger.WithContext(ctx).Error("Failed to delete user",
			zap.Uint("user_id", user.UserID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return result.Error
	}

	logger.WithContext(ctx).Info("User row deleted",
		zap.Uint("user_id", user.UserID),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}
