package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

type PostService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *PostService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &FieldError{Field: "title", Message: "Title is required.", Err: ErrInvalidPost}
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", &FieldError{Field: "title", Message: "Title must be at most 100 characters long.", Err: ErrInvalidPost}
	}
	return title, nil
}

func mapPostErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

// Create publishes a new post with the current time as its publish date.
func (s *PostService) Create(ctx context.Context, title, content string) (domain.Post, error) {
	title, err := validateTitle(title)
	if err != nil {
		return domain.Post{}, err
	}

	p, err := s.Store.Posts().CreatePost(ctx, title, content, s.now())
	if err != nil {
		return domain.Post{}, err
	}

	slogx.FromContext(ctx).Info("post created", slog.Int64("post_id", p.ID))
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (domain.Post, error) {
	p, err := s.Store.Posts().GetPost(ctx, id)
	return p, mapPostErr(err)
}

// List returns all posts, oldest id first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}

// Update replaces title and content, keeping id and publish date.
func (s *PostService) Update(ctx context.Context, id int64, title, content string) (domain.Post, error) {
	title, err := validateTitle(title)
	if err != nil {
		return domain.Post{}, err
	}

	p, err := s.Store.Posts().UpdatePost(ctx, id, title, content)
	if err != nil {
		return domain.Post{}, mapPostErr(err)
	}

	slogx.FromContext(ctx).Info("post updated", slog.Int64("post_id", p.ID))
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Posts().DeletePost(ctx, id); err != nil {
		return mapPostErr(err)
	}

	slogx.FromContext(ctx).Info("post deleted", slog.Int64("post_id", id))
	return nil
}
