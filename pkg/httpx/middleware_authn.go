package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// ErrInvalidSession is returned by a SessionResolver when the cookie can
// never resolve again: bad signature, expired, revoked.
var ErrInvalidSession = errors.New("httpx: invalid session")

// SessionResolver turns a session cookie value into an Identity. Errors that
// do not wrap ErrInvalidSession are treated as temporary.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// SessionMiddleware attaches the Identity for a valid session cookie.
// Requests without a cookie, or with one that does not resolve, continue
// anonymously; RequireSession decides whether that is acceptable. The cookie
// is only dropped for ErrInvalidSession.
func SessionMiddleware(cookieName string, resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			id, err := resolver.Resolve(ctx, c.Value)
			if err != nil && !errors.Is(err, ErrInvalidSession) {
				slogx.FromContext(ctx).Error("session lookup failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slogx.FromContext(ctx).Debug("session cookie rejected", "err", err)

				// Drop the stale cookie so the browser stops sending it.
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = slogx.WithAttrs(ctx, "user_id", id.UserID, "username", id.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
