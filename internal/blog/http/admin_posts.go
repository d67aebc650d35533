package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/internal/blog/service"
)

// AdminPostsHandler serves the post editor. Every route is behind
// RequireSession.
type AdminPostsHandler struct {
	PostService *service.PostService

	view *renderer
}

func (h *AdminPostsHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "post_form", viewData{Action: "/admin/add"})
}

func (h *AdminPostsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	_, err := h.PostService.Create(r.Context(), title, content)
	if service.IsValidation(err) {
		h.view.render(w, r, http.StatusOK, "post_form", viewData{
			Action: "/admin/add",
			Error:  postFormMessage(err),
			Post:   domain.Post{Title: title, Content: content},
		})
		return
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.addFlash(w, r, flashSuccess, "Post created successfully!")
	http.Redirect(w, r, "/articles", http.StatusSeeOther)
}

func (h *AdminPostsHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r)
	if !ok {
		return
	}
	h.view.render(w, r, http.StatusOK, "post_form", viewData{
		Action: editPath(post.ID),
		Post:   post,
	})
}

func (h *AdminPostsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	updated, err := h.PostService.Update(r.Context(), post.ID, title, content)
	switch {
	case service.IsValidation(err):
		post.Title, post.Content = title, content
		h.view.render(w, r, http.StatusOK, "post_form", viewData{
			Action: editPath(post.ID),
			Error:  postFormMessage(err),
			Post:   post,
		})
		return
	case errors.Is(err, service.ErrPostNotFound):
		// Deleted between load and update.
		h.view.notFound(w, r)
		return
	case err != nil:
		h.view.serverError(w, r, err)
		return
	}

	h.view.addFlash(w, r, flashSuccess, "Post updated successfully!")
	http.Redirect(w, r, "/post/"+strconv.FormatInt(updated.ID, 10), http.StatusSeeOther)
}

func (h *AdminPostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.view.notFound(w, r)
		return
	}

	err := h.PostService.Delete(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		h.view.notFound(w, r)
		return
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.addFlash(w, r, flashSuccess, "Post deleted successfully")
	http.Redirect(w, r, "/articles", http.StatusSeeOther)
}

// load fetches the post named in the path, answering 404 itself when there
// is none.
func (h *AdminPostsHandler) load(w http.ResponseWriter, r *http.Request) (domain.Post, bool) {
	id, ok := postID(r)
	if !ok {
		h.view.notFound(w, r)
		return domain.Post{}, false
	}

	post, err := h.PostService.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		h.view.notFound(w, r)
		return domain.Post{}, false
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return domain.Post{}, false
	}
	return post, true
}

// postFormMessage is the inline error shown above the post editor.
func postFormMessage(err error) string {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Message
	}
	return "Please check the post and try again."
}

func editPath(id int64) string {
	return "/admin/edit/" + strconv.FormatInt(id, 10)
}
