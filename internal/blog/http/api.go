package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
)

// PostResponse is the JSON form of a post.
type PostResponse struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title" example:"Hello, world"`
	Content     string    `json:"content" example:"My *first* post."`
	PublishedAt time.Time `json:"published_at" example:"2025-01-02T15:04:05Z"`
}

// PostListResponse wraps the post listing.
type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

func toPostResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		PublishedAt: p.PublishedAt.UTC(),
	}
}

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	PostService *service.PostService
}

// HandleList godoc
//
//	@Summary		List posts
//	@Description	Returns every published post, oldest first. Content is the raw Markdown source.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{object}	PostListResponse
//	@Failure		429	{object}	httpx.ErrorResponse	"rate limit exceeded"
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/v1/posts [get]
func (h *APIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not list posts")
		return
	}

	resp := PostListResponse{Posts: make([]PostResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, toPostResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary		Get a post
//	@Tags			Posts
//	@Produce		json
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	PostResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"no such post"
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/v1/posts/{id} [get]
func (h *APIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}

	post, err := h.PostService.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not load post")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}
