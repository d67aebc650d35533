package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const invalidLoginMessage = "Invalid username or password. Please try again."

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
	CookieSecure   bool

	view *renderer
}

func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "register", viewData{})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	_, err := h.UserService.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case err == nil:
		h.view.addFlash(w, r, flashSuccess, "Registration successful! Please log in.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case service.IsValidation(err):
		h.view.addFlash(w, r, flashError, registrationMessage(err))
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	default:
		h.view.serverError(w, r, err)
	}
}

// registrationMessage turns a rejected registration into the flash text.
func registrationMessage(err error) string {
	var fieldErr *service.FieldError
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return "Username already exists. Please choose a different one."
	case errors.Is(err, service.ErrWeakPassword):
		return service.PasswordPolicyMessage
	case errors.As(err, &fieldErr):
		return fieldErr.Message
	default:
		return "Registration failed. Please check your details."
	}
}

func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.view.render(w, r, http.StatusOK, "login", viewData{})
}

// HandleLogin checks the credentials and starts a session. Failures
// re-render the form with a single generic message.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	remember := r.PostFormValue("remember_me") != ""

	user, err := h.UserService.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.view.render(w, r, http.StatusOK, "login", viewData{
			Error:    invalidLoginMessage,
			Username: username,
		})
		return
	}
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	sess, err := h.SessionService.Establish(r.Context(), user, remember)
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	setSessionCookie(w, sess, h.CookieSecure)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleLogout revokes the current session, if any. Anonymous clients are
// simply sent home.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		if err := h.SessionService.Revoke(r.Context(), c.Value); err != nil {
			slogx.FromContext(r.Context()).Error("session revoke failed", "error", err)
		}
	}

	clearSessionCookie(w, h.CookieSecure)
	h.view.addFlash(w, r, flashSuccess, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
