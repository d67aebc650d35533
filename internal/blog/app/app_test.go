package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.DatabaseFile = filepath.Join(dir, "inkwell.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.SigningKeyFile = filepath.Join(dir, "keys", "signing.pem")
	cfg.Port = 0
	cfg.ShutdownGracePeriod = 2 * time.Second
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "mysql"

	_, err := NewWithLogger(cfg, slogx.Discard())
	require.Error(t, err)
}

func TestApplicationWiring(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewWithLogger(cfg, slogx.Discard())
	require.NoError(t, err)
	require.FileExists(t, cfg.PepperFile)
	require.FileExists(t, cfg.SigningKeyFile)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	require.NoError(t, app.Shutdown())
}

func TestServeStopsOnContextCancel(t *testing.T) {
	app, err := NewWithLogger(testConfig(t), slogx.Discard())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/livez")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&health) == nil
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, BuildVersion, health.Version)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
