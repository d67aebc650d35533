package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

const (
	sessionCookieName = "inkwell_session"
	csrfCookieName    = "inkwell_csrf"
	csrfFieldName     = "csrf_token"
)

// sessionResolver adapts the session service to httpx.SessionMiddleware.
type sessionResolver struct {
	sessions *service.SessionService
}

func (s sessionResolver) Resolve(ctx context.Context, token string) (httpx.Identity, error) {
	sess, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, service.ErrSessionInvalid) {
		return httpx.Identity{}, errors.Join(httpx.ErrInvalidSession, err)
	}
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{
		UserID:     sess.User.ID,
		Username:   sess.User.Username,
		SessionID:  sess.SessionID,
		Persistent: sess.Persistent,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

// setSessionCookie stores the token. Short sessions get a browser-session
// cookie, remembered ones an explicit expiry.
func setSessionCookie(w http.ResponseWriter, sess service.IssuedSession, secure bool) {
	c := &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if sess.Persistent {
		c.Expires = sess.ExpiresAt
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
