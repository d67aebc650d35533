package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/blog/domain"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/markupx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home",
	"register",
	"login",
	"admin",
	"articles",
	"post",
	"post_form",
	"error",
}

// viewData is what every page template receives. Pages only read the
// fields they need.
type viewData struct {
	SiteTitle string
	User      *httpx.Identity
	Flashes   []Flash
	CSRFToken string

	Error    string
	Username string
	Status   int
	Message  string
	Action   string

	Posts []domain.Post
	Post  domain.Post
	Body  template.HTML
}

type renderer struct {
	siteTitle string
	pages     map[string]*template.Template

	// secureCookies marks the flash cookie as Secure.
	secureCookies bool
}

func newRenderer(siteTitle string) *renderer {
	funcs := template.FuncMap{
		"date":    func(t time.Time) string { return t.Format("2 January 2006") },
		"excerpt": markupx.Excerpt,
	}

	r := &renderer{siteTitle: siteTitle, pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		r.pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return r
}

// render executes a page into a buffer first so a template error can still
// become a clean 500 instead of a half written page.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data viewData) {
	log := slogx.FromContext(r.Context())

	data.SiteTitle = rd.siteTitle
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		data.User = &id
	}
	data.CSRFToken = httpx.CSRFToken(r.Context())
	data.Flashes = append(rd.popFlashes(w, r), data.Flashes...)

	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error("unknown page template", slog.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("template execution failed", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *renderer) notFound(w http.ResponseWriter, r *http.Request) {
	rd.render(w, r, http.StatusNotFound, "error", viewData{
		Status:  http.StatusNotFound,
		Message: "The page you were looking for does not exist.",
	})
}

// serverError logs err with the request logger and shows a generic page.
func (rd *renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	rd.render(w, r, http.StatusInternalServerError, "error", viewData{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again later.",
	})
}
