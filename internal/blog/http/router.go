package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"

	_ "github.com/aussiebroadwan/inkwell/api/blog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const loginPath = "/login"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	view         *renderer
	csrf         httpx.Middleware

	// CookieSecure marks the session and CSRF cookies as Secure.
	CookieSecure bool

	store          store.Store
	UserService    *service.UserService
	SessionService *service.SessionService
	PostService    *service.PostService
}

func NewRouter(
	keys *jwtx.KeySet,
	siteTitle, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		view:         newRenderer(siteTitle),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every route. The services and CookieSecure must be
// set first.
func (r *Router) ApplyRoutes() {
	r.view.secureCookies = r.CookieSecure
	r.middlewares = append(r.middlewares,
		httpx.SessionMiddleware(sessionCookieName, sessionResolver{sessions: r.SessionService}),
	)

	// CSRF sits on the HTML routes only, after RequireSession on admin
	// routes so anonymous clients are sent to the login page first.
	r.csrf = httpx.CSRF(httpx.CSRFConfig{
		CookieName: csrfCookieName,
		FieldName:  csrfFieldName,
		Secure:     r.CookieSecure,
	})

	r.registerPages()
	r.registerAuth()
	r.registerAdmin()
	r.registerAPI()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Inkwell Blog API
//	@version		0.1.0
//	@description	Read-only JSON access to the posts published on an Inkwell blog.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/inkwell
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	h := &PagesHandler{PostService: r.PostService, view: r.view}
	public := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.PublicLimit), r.csrf)
	}

	r.Mux.Handle("GET /{$}", public(h.HandleHome))
	r.Mux.Handle("GET /articles", public(h.HandleArticles))
	r.Mux.Handle("GET /post/{id}", public(h.HandlePost))
	r.Mux.Handle("/", public(h.NotFound))

	// The admin landing page only needs a session
	r.Mux.Handle("GET /admin", r.secured(h.HandleAdmin))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:    r.UserService,
		SessionService: r.SessionService,
		CookieSecure:   r.CookieSecure,
		view:           r.view,
	}

	r.Mux.Handle("GET /register", httpx.Chain(http.HandlerFunc(h.HandleRegisterForm),
		httpx.RateLimitByIP(httpx.PublicLimit),
		r.csrf,
	))
	r.Mux.Handle("GET /login", httpx.Chain(http.HandlerFunc(h.HandleLoginForm),
		httpx.RateLimitByIP(httpx.PublicLimit),
		r.csrf,
	))

	// POST /register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /register", httpx.Chain(http.HandlerFunc(h.HandleRegister),
		httpx.RateLimitByIP(httpx.StrictLimit),
		r.csrf,
	))

	// POST /login - strict rate limit by IP + username to slow password guessing
	r.Mux.Handle("POST /login", httpx.Chain(http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		r.csrf,
	))

	r.Mux.Handle("GET /logout", httpx.Chain(http.HandlerFunc(h.HandleLogout),
		httpx.RateLimitByIP(httpx.LenientLimit),
		r.csrf,
	))
}

func (r *Router) registerAdmin() {
	h := &AdminPostsHandler{PostService: r.PostService, view: r.view}

	r.Mux.Handle("GET /admin/add", r.secured(h.HandleAddForm))
	r.Mux.Handle("POST /admin/add", r.secured(h.HandleAdd))
	r.Mux.Handle("GET /admin/edit/{id}", r.secured(h.HandleEditForm))
	r.Mux.Handle("POST /admin/edit/{id}", r.secured(h.HandleEdit))
	r.Mux.Handle("POST /admin/delete/{id}", r.secured(h.HandleDelete))
}

// secured wraps an admin handler: login first, then the per-user rate
// limit, then the CSRF check.
func (r *Router) secured(fn http.HandlerFunc) http.Handler {
	return httpx.Chain(fn,
		httpx.RequireSession(loginPath),
		httpx.RateLimitByUser(httpx.ModerateLimit),
		r.csrf,
	)
}

func (r *Router) registerAPI() {
	h := &APIHandler{PostService: r.PostService}

	r.Mux.Handle("GET /api/v1/posts", httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
	r.Mux.Handle("GET /api/v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
