package service

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPostLifecycle(t *testing.T) {
	clk := newClock(time.Date(2026, 2, 2, 8, 30, 0, 0, time.UTC))
	svc := &PostService{Store: newTestStore(t), Now: clk.Now}

	created, err := svc.Create(bg, "  Hello  ", "First *post*")
	require.NoError(t, err)
	require.Equal(t, "Hello", created.Title)
	require.Equal(t, clk.Now(), created.PublishedAt)

	got, err := svc.Get(bg, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	clk.Advance(time.Hour)
	updated, err := svc.Update(bg, created.ID, "Hello, again", "Edited")
	require.NoError(t, err)
	want := domain.Post{ID: created.ID, Title: "Hello, again", Content: "Edited", PublishedAt: created.PublishedAt}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Fatalf("update mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, svc.Delete(bg, created.ID))
	_, err = svc.Get(bg, created.ID)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostListOrder(t *testing.T) {
	svc := &PostService{Store: newTestStore(t)}

	empty, err := svc.List(bg)
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(bg, title, "")
		require.NoError(t, err)
	}

	posts, err := svc.List(bg)
	require.NoError(t, err)
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	require.Equal(t, []string{"one", "two", "three"}, titles)
}

func TestPostValidation(t *testing.T) {
	svc := &PostService{Store: newTestStore(t)}

	_, err := svc.Create(bg, "   ", "body")
	require.ErrorIs(t, err, ErrInvalidPost)
	require.True(t, IsValidation(err))

	_, err = svc.Create(bg, strings.Repeat("é", domain.MaxTitleLength+1), "body")
	require.ErrorIs(t, err, ErrInvalidPost)

	p, err := svc.Create(bg, strings.Repeat("é", domain.MaxTitleLength), "body")
	require.NoError(t, err)

	_, err = svc.Update(bg, p.ID, "", "body")
	require.ErrorIs(t, err, ErrInvalidPost)

	posts, err := svc.List(bg)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestPostNotFound(t *testing.T) {
	svc := &PostService{Store: newTestStore(t)}

	_, err := svc.Get(bg, 404)
	require.ErrorIs(t, err, ErrPostNotFound)
	_, err = svc.Update(bg, 404, "title", "")
	require.ErrorIs(t, err, ErrPostNotFound)
	require.ErrorIs(t, svc.Delete(bg, 404), ErrPostNotFound)
	require.False(t, IsValidation(ErrPostNotFound))
}
