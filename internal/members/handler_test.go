package members_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/members"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/view"
	_ "github.com/meridian-club/meridian/testing"
)

func newMembersRouter(t *testing.T, actor *shared.UserProjection) chi.Router {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := members.NewHandler(logger, templates, auth.Middleware{})

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &shared.Session{}
			if actor != nil {
				sess.SetUser(*actor)
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	})
	handler.MountRoutes(router)
	return router
}

func TestMembersPageRedirectsAnonymous(t *testing.T) {
	router := newMembersRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
	assert.NotContains(t, res.Body.String(), "gallery", "no gated content for anonymous callers")
}

func TestMembersPageRendersGallery(t *testing.T) {
	actor := &shared.UserProjection{ID: 1, Name: "Ada", Email: "ada@example.com", Role: shared.RoleUser}
	router := newMembersRouter(t, actor)

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Welcome back, Ada")
	for _, item := range members.Gallery() {
		assert.Contains(t, body, item.Image)
	}
}

func TestFeaturedComesFromGallery(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		seen[members.Featured().Image] = true
	}
	for image := range seen {
		found := false
		for _, item := range members.Gallery() {
			if item.Image == image {
				found = true
			}
		}
		assert.True(t, found, "featured item %s must be part of the gallery", image)
	}
}
