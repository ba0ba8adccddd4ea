package members

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/view"
)

// Handler serves the members-only page. Pure read, no mutation.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	guard     auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, templates *view.Engine, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, templates: templates, guard: guard}
}

// MountRoutes registers the members route behind the login guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/members", h.showMembers)
	})
}

type membersPageData struct {
	Featured GalleryItem
	Gallery  []GalleryItem
}

func (h *Handler) showMembers(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Members",
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
		Data: membersPageData{
			Featured: Featured(),
			Gallery:  Gallery(),
		},
	}
	if err := h.templates.Render(w, "pages/members.html", viewData); err != nil {
		h.logger.Error("render members page", slog.Any("error", err))
	}
}
