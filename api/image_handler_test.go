package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (database.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return database.New(gormDB), mock
}

func TestImageEndpoints_ServeBytes(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/admin/blog/images", map[string]any{
		"image":     b64(pngBytes),
		"imageType": "image/webp",
		"altText":   "diagram",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	info := decode[BlogImageInfo](t, rec)
	assert.Equal(t, "/api/blog/images/"+info.ID, info.URL)

	rec = env.do(t, http.MethodGet, info.URL, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	// The declared type is served even though the bytes are a PNG.
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	rec = env.do(t, http.MethodGet, "/api/admin/blog/images", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]BlogImageInfo](t, rec), 1)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/admin/blog/images/"+info.ID, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, info.URL, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/admin/blog/images/"+info.ID, nil, admin).Code)
}

func TestImageEndpoints_Misses(t *testing.T) {
	env := newTestEnv(t, nil)
	project := createProject(t, env, projectBody("No Screenshot"))

	for _, target := range []string{
		"/api/projects/not-a-uuid/image",
		"/api/blog/posts/123/cover",
		"/api/blog/images/zzz",
		"/api/gallery/x/image",
	} {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, target, nil, "").Code, target)
	}

	for _, target := range []string{
		"/api/projects/" + project["id"].(string) + "/image",
		"/api/projects/1b4e28ba-2fa1-11d2-883f-0016d3cca427/image",
		"/api/blog/posts/1b4e28ba-2fa1-11d2-883f-0016d3cca427/cover",
		"/api/blog/images/1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		"/api/gallery/1b4e28ba-2fa1-11d2-883f-0016d3cca427/image",
	} {
		rec := env.do(t, http.MethodGet, target, nil, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Image not found", decode[ErrorResponse](t, rec).Error, target)
		assert.Empty(t, rec.Header().Get("Cache-Control"), target)
	}
}

func TestImageEndpoints_DatastoreFailureHidesDetail(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT image AS data, image_type AS mime_type FROM "projects"`).
		WillReturnError(errors.New("dial tcp 10.0.0.7:5432: connection refused"))

	router := newRouter(db, WithConfig(map[string]string{"AUTH_SECRET": testSecret}))
	req := httptest.NewRequest(http.MethodGet, "/api/projects/1b4e28ba-2fa1-11d2-883f-0016d3cca427/image", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.Empty(t, body.Details)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjects_DatastoreFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT .* FROM "projects"`).WillReturnError(errors.New("pq: relation does not exist"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects"`).WillReturnError(errors.New("pq: relation does not exist"))

	router := newRouter(db, WithConfig(map[string]string{"AUTH_SECRET": testSecret}))
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}
