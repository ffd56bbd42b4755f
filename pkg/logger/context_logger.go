package logger

import (
	"context"

	ctxutil "github.com/devworkshop/usersvc/pkg/context"
	"go.uber.org/zap"
)

// WithContext returns the global logger enriched with whatever tracking
// fields the context carries (request id, module, function, user id).
func WithContext(ctx context.Context) *zap.Logger {
	l := GetLogger()
	if ctx == nil {
		return l
	}

	fields := make([]zap.Field, 0, 4)

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		fields = append(fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		fields = append(fields, zap.String("function", function))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		fields = append(fields, zap.Uint("auth_user_id", userID))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
