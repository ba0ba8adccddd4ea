package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-club/meridian/internal/shared"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	sm, _ := newManager(t)
	manager := shared.NewCSRFManager("csrfsecret")
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Stable across calls for the same session.
	again, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, manager.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, manager.VerifyToken(ctx, sess, "forged"), shared.ErrCSRFTokenMismatch)
	assert.ErrorIs(t, manager.VerifyToken(ctx, sess, ""), shared.ErrCSRFTokenMissing)
	assert.ErrorIs(t, manager.VerifyToken(ctx, nil, token), shared.ErrCSRFTokenMissing)
}

func TestCSRFTokenDiffersPerSession(t *testing.T) {
	sm, _ := newManager(t)
	manager := shared.NewCSRFManager("csrfsecret")
	ctx := context.Background()

	first, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	second, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	tokenA, err := manager.EnsureToken(ctx, first)
	require.NoError(t, err)
	tokenB, err := manager.EnsureToken(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, tokenA, tokenB)
}
