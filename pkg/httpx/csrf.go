package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const ctxKeyCSRF ctxKey = "csrf_token"

// CSRFConfig configures the double-submit cookie check.
type CSRFConfig struct {
	CookieName string // defaults to "csrf_token"
	FieldName  string // form field, defaults to "csrf_token"
	Secure     bool
}

// CSRF issues a random token in a cookie and requires every unsafe request
// (anything but GET, HEAD, OPTIONS) to echo it back in a form field or the
// X-CSRF-Token header. Mismatches are rejected with 403.
func CSRF(cfg CSRFConfig) Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "csrf_token"
	}
	if cfg.FieldName == "" {
		cfg.FieldName = "csrf_token"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				token = c.Value
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				if token == "" {
					var err error
					token, err = cryptox.GenerateToken(cryptox.TokenSize256)
					if err != nil {
						slogx.FromContext(r.Context()).Error("csrf token generation failed", "error", err)
						http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
						return
					}
					http.SetCookie(w, &http.Cookie{
						Name:     cfg.CookieName,
						Value:    token,
						Path:     "/",
						HttpOnly: true,
						Secure:   cfg.Secure,
						SameSite: http.SameSiteLaxMode,
					})
				}

			default:
				sent := r.Header.Get("X-CSRF-Token")
				if sent == "" {
					sent = r.PostFormValue(cfg.FieldName)
				}
				if !cryptox.TokensEqual(token, sent) {
					slogx.FromContext(r.Context()).Warn("csrf token mismatch")
					http.Error(w, "Forbidden: invalid or missing CSRF token.", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyCSRF, token)))
		})
	}
}

// CSRFToken returns the token to embed in forms rendered for this request.
func CSRFToken(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyCSRF).(string)
	return s
}
