package httpx

import (
	"context"
	"time"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Identity is the authenticated admin attached to a request by
// SessionMiddleware. It only lives as long as the request does.
type Identity struct {
	UserID     int64
	Username   string
	SessionID  string
	Persistent bool
	ExpiresAt  time.Time
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the request identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	if !ok || id.UserID == 0 {
		return Identity{}, false
	}
	return id, true
}
