package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSessionResolverErrors(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewEphemeralKeyManager("inkwell-test")
	require.NoError(t, err)

	sessions := &service.SessionService{Store: st, Signer: km.Signer, Verifier: km.Verifier, Issuer: "inkwell-test"}
	resolver := sessionResolver{sessions: sessions}

	user, err := st.Users().CreateUser(ctx, "alice", "hash", time.Now())
	require.NoError(t, err)
	issued, err := sessions.Establish(ctx, user, false)
	require.NoError(t, err)

	id, err := resolver.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, id.UserID)

	_, err = resolver.Resolve(ctx, "garbage")
	require.ErrorIs(t, err, httpx.ErrInvalidSession)

	require.NoError(t, st.Close())
	_, err = resolver.Resolve(ctx, issued.Token)
	require.Error(t, err)
	require.NotErrorIs(t, err, httpx.ErrInvalidSession)
}

func TestFlashCookieFollowsSecureFlag(t *testing.T) {
	for _, secure := range []bool{false, true} {
		rd := newRenderer("Inkwell")
		rd.secureCookies = secure

		rec := httptest.NewRecorder()
		rd.addFlash(rec, httptest.NewRequest(http.MethodPost, "/logout", nil), flashSuccess, "You have been logged out.")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, flashCookieName, cookies[0].Name)
		require.Equal(t, secure, cookies[0].Secure)

		// Reading the flash back clears it with the same flag.
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		rec = httptest.NewRecorder()
		flashes := rd.popFlashes(rec, req)

		require.Equal(t, []Flash{{Category: flashSuccess, Message: "You have been logged out."}}, flashes)
		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 1)
		require.Negative(t, cleared[0].MaxAge)
		require.Equal(t, secure, cleared[0].Secure)
	}
}
