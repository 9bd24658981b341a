package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type testEnv struct {
	db       database.Database
	router   http.Handler
	verifier *auth.Verifier
}

func setupTestDB(t *testing.T) database.Database {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "portfolio.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	d := database.New(db)
	require.NoError(t, d.Migrate())
	return d
}

// newTestEnv builds a router over a fresh SQLite database. cfg may be nil.
func newTestEnv(t *testing.T, cfg map[string]string, opts ...RouterOption) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = map[string]string{}
	}
	cfg["AUTH_SECRET"] = testSecret

	db := setupTestDB(t)
	opts = append([]RouterOption{WithConfig(cfg)}, opts...)
	return &testEnv{
		db:       db,
		router:   newRouter(db, opts...),
		verifier: auth.NewVerifier(testSecret),
	}
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	token, err := e.verifier.Issue(auth.Session{UserID: "user-1", Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.token(t, auth.RoleAdmin)
}

// do sends a request through the router. body is marshalled to JSON unless nil.
func (e *testEnv) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestAdminPagesGuard_Anonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/admin/posts?page=2", nil, "")

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "http", loc.Scheme)
	assert.Equal(t, "example.com", loc.Host)
	assert.Equal(t, "/api/auth/signin", loc.Path)
	assert.Equal(t, "http://example.com/admin/posts?page=2", loc.Query().Get("callbackUrl"))
}

func TestAdminPagesGuard_ForwardedOriginAndCustomSignIn(t *testing.T) {
	env := newTestEnv(t, map[string]string{"SIGN_IN_PATH": "https://auth.example.org/login"})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "site.example.org")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "auth.example.org", loc.Host)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "https://site.example.org/admin", loc.Query().Get("callbackUrl"))
}

func TestAdminPagesGuard_InvalidTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	forged, err := auth.NewVerifier("other-secret").Issue(auth.Session{UserID: "x", Role: auth.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/admin/projects", nil, forged)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "callbackUrl=")
}

func TestAdminPagesGuard_NonAdmin(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: env.token(t, "USER")})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://example.com/", rec.Header().Get("Location"))
}

func TestAdminPagesGuard_AdminPassesThrough(t *testing.T) {
	var upstreamPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamPath = r.URL.RequestURI()
		_, _ = io.WriteString(w, "admin ui")
	}))
	defer upstream.Close()

	env := newTestEnv(t, map[string]string{"ADMIN_UPSTREAM_URL": upstream.URL})

	rec := env.do(t, http.MethodGet, "/admin/blog?tab=drafts", nil, env.adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin ui", rec.Body.String())
	assert.Equal(t, "/admin/blog?tab=drafts", upstreamPath)
}

func TestAdminPagesGuard_AdminWithoutUpstream(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/admin", nil, env.adminToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAPI_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/admin/blog/posts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts", nil, env.token(t, "USER"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Rejected before the body is even read.
	rec = env.do(t, http.MethodPost, "/api/admin/projects", map[string]any{"name": ""}, env.token(t, "USER"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts", nil, env.adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/projects", nil, "").Code)

	rec := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "portfolio_http_requests_total")
	assert.Contains(t, body, `route="/api/projects"`)
	assert.Contains(t, body, "portfolio_http_request_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, map[string]string{"ACCEPTED_ORIGINS": "https://site.example.org"})

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://site.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "https://site.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
