package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activeflow/auth"
	"activeflow/events"
	"activeflow/services"
	"activeflow/store"
)

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	tokens := auth.NewTokens("secret")
	sessions := store.NewMemorySessions()
	return NewRouter(Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		StaticDir:      staticDir,
		Log:            logger,
		Auth: &auth.Handler{
			Identity: store.NewMemoryIdentity(),
			Tokens:   tokens,
			Sessions: sessions,
			Log:      logger,
		},
		Workouts: &services.Workouts{
			Store:    store.NewMemoryStore(),
			Events:   events.Nop{},
			Tokens:   tokens,
			Sessions: sessions,
			Log:      logger,
		},
	})
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to ActiveFlow"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "activeflow_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/workouts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaticMountedWhenDirExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o644))

	r := newTestRouter(t, dir)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/hello.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())

	r = newTestRouter(t, filepath.Join(dir, "missing"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/hello.txt", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndToEndWorkoutFlow(t *testing.T) {
	r := newTestRouter(t, "")

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/api/auth/register", `{"email":"ana@example.com","password":"pw","username":"ana"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post("/api/auth/login", `{"email":"nobody@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post("/api/workouts", `{"user_id":"u1","type":"running","date":"2025-03-03T07:30:00Z","duration_minutes":30,"distance":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workouts?user_id=u1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"running"`)
}
