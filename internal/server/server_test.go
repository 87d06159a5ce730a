package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brainvault/internal/config"
	"brainvault/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      testSecret,
		Port:           "3000",
		DBDriver:       config.DriverSQLite,
		DBQueryTimeout: 5 * time.Second,
		AllowedOrigins: "*",
	}
}

func newTestEnv(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	srv, err := newServer(testConfig(), db, rdb, bcrypt.MinCost)
	require.NoError(t, err)
	return &testEnv{srv: srv, app: srv.NewApp(), db: db}
}

// do sends a JSON request and decodes the JSON response body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

// signup registers username and returns its token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/v1/signup", "", fiber.Map{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status, body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestNewServerWithDeps_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), nil)
	assert.Error(t, err)
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "up", body["status"])

	status, body = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	// Generate at least one auth failure so the counter is exported.
	status, _ := env.do(t, http.MethodGet, "/api/v1/content", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "brainvault_auth_failures_total")
}

func TestUnknownRouteKeepsStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	status, _ := env.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/content", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}
