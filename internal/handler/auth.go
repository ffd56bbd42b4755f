package handler

import (
	"errors"
	"net/http"

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

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx).Warn("Invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.FormatBindingError(err)))
		return
	}

	result, err := h.userService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Invalid credentials", nil))
			return
		}
		logger.WithContext(ctx).Error("Login failed", zap.Error(err))
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Login failed", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Login successful", result))
}
