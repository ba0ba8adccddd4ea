package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/view"
)

// Handler manages the admin user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, guard: guard}
}

// MountRoutes registers the admin routes behind the admin guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAdmin(h.renderForbidden))
		r.Get("/admin", h.listUsers)
		r.Post("/admin/update-user", h.updateUser)
	})
}

type adminPageData struct {
	Users  []User
	Errors map[string]string
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		h.render(w, r, adminPageData{Errors: map[string]string{"general": shared.UserSafeMessage(err)}}, http.StatusInternalServerError)
		return
	}
	h.render(w, r, adminPageData{Users: list}, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	actor := shared.CurrentUser(r.Context())
	if actor == nil {
		// Guard already rejected anonymous callers; this is a safety net.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	action := RoleAction(r.PostFormValue("action"))
	targetID, err := strconv.ParseInt(r.PostFormValue("user_id"), 10, 64)
	if err != nil || !action.Valid() {
		h.renderListWithError(w, r, "The requested role change is malformed", http.StatusBadRequest)
		return
	}

	if err := h.service.ChangeRole(r.Context(), actor.ID, targetID, action); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, shared.ErrSelfDemotion):
		case errors.Is(err, shared.ErrNotFound):
			status = http.StatusNotFound
		default:
			h.logger.Error("change role failed", slog.Any("error", err), slog.Int64("target_id", targetID))
			status = http.StatusInternalServerError
		}
		h.renderListWithError(w, r, shared.UserSafeMessage(err), status)
		return
	}

	h.redirectWithFlash(w, r, "/admin", "success", "User role updated")
}

func (h *Handler) renderListWithError(w http.ResponseWriter, r *http.Request, message string, status int) {
	list, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
	}
	h.render(w, r, adminPageData{Users: list, Errors: map[string]string{"general": message}}, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data adminPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Admin",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/admin.html", viewData); err != nil {
		h.logger.Error("render admin page", slog.Any("error", err))
	}
}

func (h *Handler) renderForbidden(w http.ResponseWriter, r *http.Request) {
	viewData := view.TemplateData{
		Title:       "Forbidden",
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
	}
	w.WriteHeader(http.StatusForbidden)
	if err := h.templates.Render(w, "pages/403.html", viewData); err != nil {
		h.logger.Error("render forbidden page", slog.Any("error", err))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
