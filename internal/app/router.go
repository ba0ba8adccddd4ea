package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/members"
	"github.com/meridian-club/meridian/internal/observability"
	"github.com/meridian-club/meridian/internal/platform/httpx"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/users"
	"github.com/meridian-club/meridian/internal/view"
	"github.com/meridian-club/meridian/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	MembersHandler *members.Handler
	UsersHandler   *users.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		renderHome(w, r, params.Logger, params.Templates, params.CSRFManager)
	})

	params.AuthHandler.MountRoutes(r)
	params.MembersHandler.MountRoutes(r)
	params.UsersHandler.MountRoutes(r)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	mountStatic(r, params.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderStatusPage(w, r, params.Logger, params.Templates, "pages/404.html", "Not found", http.StatusNotFound)
	})

	return r
}

// DegradedRouterParams carries what the degraded router still needs.
// There is no session manager here: the credential store is down, so
// nothing that depends on it is mounted.
type DegradedRouterParams struct {
	Logger    *slog.Logger
	Config    *Config
	Templates *view.Engine
}

// NewDegradedRouter serves home and static content only. Every
// store-backed route answers with a generic unavailable response
// instead of the process refusing to start.
func NewDegradedRouter(params DegradedRouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.RequestID, chimw.Recoverer, chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusServiceUnavailable, "Degraded", "credential store unreachable")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		viewData := view.TemplateData{Title: "Home", CurrentPath: r.URL.Path}
		if err := params.Templates.Render(w, "pages/home.html", viewData); err != nil {
			params.Logger.Error("render home degraded", slog.Any("error", err))
		}
	})

	unavailable := func(w http.ResponseWriter, r *http.Request) {
		renderStatusPage(w, r, params.Logger, params.Templates, "pages/error.html", "Unavailable", http.StatusServiceUnavailable)
	}
	for _, path := range []string{"/signup", "/login", "/logout", "/members", "/admin"} {
		r.Get(path, unavailable)
	}
	r.Post("/signup", unavailable)
	r.Post("/login", unavailable)
	r.Post("/admin/update-user", unavailable)

	mountStatic(r, params.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderStatusPage(w, r, params.Logger, params.Templates, "pages/404.html", "Not found", http.StatusNotFound)
	})

	return r
}

func renderHome(w http.ResponseWriter, r *http.Request, logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Home",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
	}
	if err := templates.Render(w, "pages/home.html", viewData); err != nil {
		logger.Error("render home", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderStatusPage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, templates *view.Engine, page, title string, status int) {
	viewData := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
	}
	w.WriteHeader(status)
	if err := templates.Render(w, page, viewData); err != nil {
		logger.Error("render status page", slog.String("page", page), slog.Any("error", err))
	}
}

func mountStatic(r chi.Router, logger *slog.Logger) {
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("create static sub filesystem", slog.Any("error", err))
		return
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	r.Handle("/static/*", staticCacheHandler(fileServer))
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
