// Package trace carries the per-request correlation id through context.
package trace

import (
	"context"

	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	HeaderAPIVersion = "X-API-Version"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored in ctx, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func NewRequestID() string {
	return uuid.NewString()
}
