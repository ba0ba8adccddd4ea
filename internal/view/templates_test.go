package view_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/view"
	_ "github.com/meridian-club/meridian/testing"
)

func TestNewEngine(t *testing.T) {
	engine, err := view.NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderHomeAnonymous(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, "pages/home.html", view.TemplateData{Title: "Home"})
	require.NoError(t, err)
	assert.Contains(t, res.Body.String(), "Log in")
	assert.Contains(t, res.Header().Get("Content-Type"), "text/html")
}

func TestRenderHomeAuthenticated(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	user := &shared.UserProjection{ID: 1, Name: "Ada", Email: "ada@example.com", Role: shared.RoleAdmin}
	err = engine.Render(res, "pages/home.html", view.TemplateData{Title: "Home", User: user})
	require.NoError(t, err)

	body := res.Body.String()
	assert.Contains(t, body, "Hello, Ada")
	assert.Contains(t, body, "/admin", "admin link shown to admins")
	assert.Contains(t, body, "/logout")
}
