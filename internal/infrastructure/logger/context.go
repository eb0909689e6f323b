package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

// OperationIDKey is the context key for the operation ID assigned to one
// service call or CLI invocation
const OperationIDKey contextKey = "operation_id"

// WithOperationID adds the operation ID to context and returns an enriched logger.
// SQL trace lines emitted under this context carry the same ID, so one
// invocation can be followed through every statement it ran.
func WithOperationID(ctx context.Context, logger *zap.Logger, operationID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OperationIDKey, operationID)
	return ctx, logger.With(zap.String("operation_id", operationID))
}

// GetOperationID retrieves the operation ID from context
func GetOperationID(ctx context.Context) string {
	if operationID, ok := ctx.Value(OperationIDKey).(string); ok {
		return operationID
	}
	return ""
}
