package users_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/users"
	"github.com/meridian-club/meridian/internal/view"
)

func newAdminRouter(t *testing.T, repo *mockRepo, actor *shared.UserProjection) chi.Router {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	csrf := shared.NewCSRFManager("csrfsecret")
	handler := users.NewHandler(logger, users.NewService(repo), templates, csrf, auth.Middleware{})

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

func postUpdateUser(router chi.Router, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/update-user", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func seededRepo() *mockRepo {
	return newMockRepo(
		users.User{ID: 1, Name: "Root", Email: "root@example.com", Role: shared.RoleAdmin},
		users.User{ID: 2, Name: "Ada", Email: "ada@example.com", Role: shared.RoleUser},
	)
}

var adminActor = &shared.UserProjection{ID: 1, Name: "Root", Email: "root@example.com", Role: shared.RoleAdmin}

func TestAdminListRequiresAdminRole(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(t, repo, &shared.UserProjection{ID: 2, Name: "Ada", Email: "ada@example.com", Role: shared.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Body.String(), "Not authorized")
	assert.NotContains(t, res.Body.String(), "root@example.com", "user list must not leak on forbidden")
}

func TestAdminListRedirectsAnonymous(t *testing.T) {
	router := newAdminRouter(t, seededRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}

func TestAdminListShowsUsers(t *testing.T) {
	router := newAdminRouter(t, seededRepo(), adminActor)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "root@example.com")
	assert.Contains(t, body, "ada@example.com")
}

func TestUpdateUserPromotes(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(t, repo, adminActor)

	form := url.Values{}
	form.Set("user_id", "2")
	form.Set("action", "promote")
	res := postUpdateUser(router, form)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin", res.Header().Get("Location"))
	assert.Equal(t, shared.RoleAdmin, repo.users[2].Role)
}

func TestUpdateUserRejectsSelfDemotion(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(t, repo, adminActor)

	form := url.Values{}
	form.Set("user_id", "1")
	form.Set("action", "demote")
	res := postUpdateUser(router, form)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "You cannot demote your own account")
	assert.Equal(t, shared.RoleAdmin, repo.users[1].Role)
}

func TestUpdateUserValidatesInput(t *testing.T) {
	repo := seededRepo()
	router := newAdminRouter(t, repo, adminActor)

	badAction := url.Values{}
	badAction.Set("user_id", "2")
	badAction.Set("action", "obliterate")
	res := postUpdateUser(router, badAction)
	require.Equal(t, http.StatusBadRequest, res.Code)

	badID := url.Values{}
	badID.Set("user_id", "two")
	badID.Set("action", "promote")
	res = postUpdateUser(router, badID)
	require.Equal(t, http.StatusBadRequest, res.Code)

	unknown := url.Values{}
	unknown.Set("user_id", "99")
	unknown.Set("action", "promote")
	res = postUpdateUser(router, unknown)
	require.Equal(t, http.StatusNotFound, res.Code)

	assert.Equal(t, shared.RoleUser, repo.users[2].Role)
}
