package middleware

import (
	"net/http"
	"strings"

	"github.com/devworkshop/usersvc/internal/constants"
	"github.com/devworkshop/usersvc/internal/service"
	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"github.com/devworkshop/usersvc/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	jwtService *service.JWTService
}

func NewJWTMiddleware(jwtService *service.JWTService) *JWTMiddleware {
	return &JWTMiddleware{jwtService: jwtService}
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// authenticated user id on the request context.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Token validation failed",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		// JSON numbers come back as float64
		if rawID, ok := claims["user_id"].(float64); ok {
			userID := uint(rawID)
			c.Set("user_id", userID)
			c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
		}

		c.Next()
	}
}
