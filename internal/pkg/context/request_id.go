// Package context carries the per-request id from the X-Request-Id
// middleware down to error envelopes and outbox trace_id fields.
package context

import "context"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request id or "" for background work
// (outbox worker, consumer) that runs outside an HTTP request.
func GetRequestID(ctx context.Context) string {
	v := ctx.Value(requestIDKey{})
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
