package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsan-khan/library-management-system/internal/config"
	"github.com/ihsan-khan/library-management-system/internal/store"
	"github.com/ihsan-khan/library-management-system/internal/store/db"
	"github.com/ihsan-khan/library-management-system/internal/version"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	config.GetDefaultOptions()

	d, err := db.NewDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	require.NoError(t, d.Migrate(context.Background()))
	s := store.NewStore(d.DB)
	t.Cleanup(func() { s.Close() })

	handler, err := setupHandler(s)
	require.NoError(t, err)
	return handler
}

func TestOperationalEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, version.GetCurrentVersion(), w.Body.String())
}

func TestPagesAreMounted(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/dashboard/", "/books/", "/books/add/", "/members/", "/members/add/", "/loans/", "/loans/overdue/", "/loans/issue/", "/loans/return/", "/authors/", "/categories/", "/search/"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
	}
}
