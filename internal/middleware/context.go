package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/devworkshop/usersvc/internal/constants"
	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"github.com/gin-gonic/gin"
)

// RequestContext seeds every request with a request ID (propagated from
// X-Request-ID when the caller supplies one) and client metadata, so the
// lower layers can emit correlated log lines.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = newRequestID()
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}

func newRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}
