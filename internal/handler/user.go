package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devworkshop/usersvc/internal/constants"
	"github.com/devworkshop/usersvc/internal/dto"
	apperrors "github.com/devworkshop/usersvc/internal/errors"
	"github.com/devworkshop/usersvc/internal/service"
	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"github.com/devworkshop/usersvc/pkg/logger"
	"github.com/devworkshop/usersvc/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// parsePositiveID accepts positive integers only; zero and non-numeric
// path ids are rejected at the boundary.
func parsePositiveID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *UserHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetAll")

	users, err := h.userService.GetAll(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to fetch users", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to fetch users", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Users retrieved successfully", users))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetByID")

	id, ok := parsePositiveID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", nil))
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, constants.BuildErrorResponse("User not found", nil))
			return
		}
		logger.WithContext(ctx).Error("Failed to fetch user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to fetch user", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User retrieved successfully", user))
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetByEmail")

	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid email", nil))
		return
	}

	user, err := h.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, constants.BuildErrorResponse("User not found", nil))
			return
		}
		logger.WithContext(ctx).Error("Failed to fetch user by email", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to fetch user", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User retrieved successfully", user))
}

func (h *UserHandler) GetByRole(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetByRole")

	roleID, ok := parsePositiveID(c.Param("roleId"))
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid role ID", nil))
		return
	}

	users, err := h.userService.GetByRole(ctx, roleID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to fetch users by role",
			zap.Uint("role_id", roleID),
			zap.Error(err),
		)
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to fetch users", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Users retrieved successfully", users))
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Create")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx).Warn("Invalid create user payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmailExists):
			c.JSON(http.StatusConflict, constants.BuildErrorResponse("Email already in use", nil))
		case errors.Is(err, apperrors.ErrMapping):
			logger.WithContext(ctx).Error("Mapping configuration defect", zap.Error(err))
			c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Mapping configuration error", nil))
		default:
			logger.WithContext(ctx).Error("Failed to create user", zap.Error(err))
			c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to create user", nil))
		}
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse("User created successfully", user))
}

func (h *UserHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Update")

	id, ok := parsePositiveID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", nil))
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx).Warn("Invalid update user payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	user, err := h.userService.Update(ctx, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, constants.BuildErrorResponse("User not found", nil))
		case errors.Is(err, apperrors.ErrEmailExists):
			c.JSON(http.StatusConflict, constants.BuildErrorResponse("Email already in use by another user", nil))
		default:
			logger.WithContext(ctx).Error("Failed to update user",
				zap.Uint("user_id", id),
				zap.Error(err),
			)
			c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to update user", nil))
		}
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User updated successfully", user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Delete")

	id, ok := parsePositiveID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", nil))
		return
	}

	deleted, err := h.userService.Delete(ctx, id)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete user", nil))
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, constants.BuildErrorResponse("User not found", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User deleted successfully", nil))
}

func (h *UserHandler) Statistics(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Statistics")

	stats, err := h.userService.Statistics(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to compute statistics", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to compute statistics", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Statistics retrieved successfully", stats))
}
