package blog_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Checks  *struct {
		Database string `json:"database"`
		Signer   string `json:"signer"`
	} `json:"checks"`
}

func TestHealthEndpoints(t *testing.T) {
	baseURL := setupBlogContainer(t, false)
	b := newBrowser(t, baseURL)

	for _, path := range []string{"/livez", "/readyz"} {
		resp := b.get(path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health healthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
	}
}

// TestAdminJourney walks through the whole life of an admin: register, log
// in, publish, edit, delete and log out.
func TestAdminJourney(t *testing.T) {
	baseURL := setupBlogContainer(t, false)
	b := newBrowser(t, baseURL)

	requireRedirect(t, b.get("/admin"), "/login")

	requireRedirect(t, b.post("/register", url.Values{
		"username": {adminUsername},
		"password": {adminPassword},
	}), "/login")

	requireRedirect(t, b.post("/login", url.Values{
		"username":    {adminUsername},
		"password":    {adminPassword},
		"remember_me": {"on"},
	}), "/admin")
	require.Equal(t, http.StatusOK, b.get("/admin").StatusCode)

	requireRedirect(t, b.post("/admin/add", url.Values{
		"title":   {"From the container"},
		"content": {"# Hello\n\nWritten by the e2e suite."},
	}), "/articles")

	var list struct {
		Posts []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"posts"`
	}
	resp := b.get("/api/v1/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Posts, 1)
	id := list.Posts[0].ID

	postPath := fmt.Sprintf("/post/%d", id)
	resp = b.get(postPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "<h1>Hello</h1>")

	requireRedirect(t, b.post(fmt.Sprintf("/admin/edit/%d", id), url.Values{
		"title":   {"Edited"},
		"content": {"changed"},
	}), postPath)

	requireRedirect(t, b.post(fmt.Sprintf("/admin/delete/%d", id), nil), "/articles")
	require.Equal(t, http.StatusNotFound, b.get(postPath).StatusCode)

	requireRedirect(t, b.get("/logout"), "/")
	requireRedirect(t, b.get("/admin"), "/login")
}

func TestCSRFProtection(t *testing.T) {
	baseURL := setupBlogContainer(t, false)

	resp, err := http.PostForm(baseURL+"/register", url.Values{
		"username": {adminUsername},
		"password": {adminPassword},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	baseURL := setupBlogContainer(t, true)
	b := newBrowser(t, baseURL)

	form := func() url.Values {
		return url.Values{"username": {"nobody"}, "password": {"Wrong123"}}
	}
	for i := range 5 {
		resp := b.post("/login", form())
		require.Equal(t, http.StatusOK, resp.StatusCode, "attempt %d", i+1)
	}

	resp := b.post("/login", form())
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}
