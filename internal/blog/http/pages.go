package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/pkg/markupx"
)

// PagesHandler serves the public pages and the admin landing page.
type PagesHandler struct {
	PostService *service.PostService

	view *renderer
}

func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "home", viewData{})
}

func (h *PagesHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "admin", viewData{})
}

func (h *PagesHandler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}
	h.view.render(w, r, http.StatusOK, "articles", viewData{Posts: posts})
}

func (h *PagesHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.view.notFound(w, r)
		return
	}

	post, err := h.PostService.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		h.view.notFound(w, r)
		return
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	body, err := markupx.Render(post.Content)
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}
	h.view.render(w, r, http.StatusOK, "post", viewData{Post: post, Body: body})
}

// NotFound catches every path no route matched.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.view.notFound(w, r)
}

// postID parses the {id} path value. Anything that is not a positive
// integer cannot name a post.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
