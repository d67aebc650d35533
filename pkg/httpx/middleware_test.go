package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]httpx.Identity

var errDatabaseDown = errors.New("database is down")

func (f fakeResolver) Resolve(_ context.Context, token string) (httpx.Identity, error) {
	if token == "flaky" {
		return httpx.Identity{}, errDatabaseDown
	}
	id, ok := f[token]
	if !ok {
		return httpx.Identity{}, fmt.Errorf("unknown session: %w", httpx.ErrInvalidSession)
	}
	return id, nil
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("a"), mark("b"), mark("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSessionMiddleware(t *testing.T) {
	resolver := fakeResolver{"good": {UserID: 1, Username: "alice", SessionID: "sid"}}

	var seen httpx.Identity
	var authed bool
	h := httpx.SessionMiddleware("inkwell_session", resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, authed = httpx.IdentityFromContext(r.Context())
	}))

	t.Run("no cookie is anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.False(t, authed)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("valid cookie attaches identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "inkwell_session", Value: "good"})
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.True(t, authed)
		require.Equal(t, "alice", seen.Username)
	})

	t.Run("stale cookie is cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "inkwell_session", Value: "revoked"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.False(t, authed)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, "inkwell_session", cookies[0].Name)
		require.Negative(t, cookies[0].MaxAge)
	})

	t.Run("lookup failure keeps the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "inkwell_session", Value: "flaky"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.False(t, authed)
		require.Empty(t, rec.Result().Cookies())
	})
}

func TestRequireSession(t *testing.T) {
	h := httpx.RequireSession("/login")(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(httpx.WithIdentity(req.Context(), httpx.Identity{UserID: 3}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
