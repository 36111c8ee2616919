package chat

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID attaches an id that Respond uses in its log records
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached to ctx, or a fresh one when absent
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
