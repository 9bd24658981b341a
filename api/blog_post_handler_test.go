package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postBody(title, slug string, published bool) map[string]any {
	return map[string]any{
		"title":     title,
		"slug":      slug,
		"excerpt":   title + " excerpt",
		"content":   "# " + title + "\n\nBody text.",
		"published": published,
		"tags":      "go, web",
	}
}

func createPost(t *testing.T, env *testEnv, body map[string]any) map[string]any {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/admin/blog/posts", body, env.adminToken(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)
}

func TestCreateBlogPost_PublishedAtRules(t *testing.T) {
	env := newTestEnv(t, nil)

	before := time.Now().Add(-time.Second)
	published := createPost(t, env, postBody("Hello", "hello", true))
	require.NotNil(t, published["publishedAt"])
	at, err := time.Parse(time.RFC3339Nano, published["publishedAt"].(string))
	require.NoError(t, err)
	assert.True(t, at.After(before), "publishedAt %v should be now", at)

	draftBody := postBody("Draft", "draft", false)
	draftBody["publishedAt"] = "2023-05-01T10:00:00Z"
	draft := createPost(t, env, draftBody)
	assert.Nil(t, draft["publishedAt"])

	explicitBody := postBody("Backdated", "backdated", true)
	explicitBody["publishedAt"] = "2023-05-01T10:00:00Z"
	explicit := createPost(t, env, explicitBody)
	explicitAt, err := time.Parse(time.RFC3339Nano, explicit["publishedAt"].(string))
	require.NoError(t, err)
	assert.True(t, explicitAt.Equal(time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestUpdateBlogPost_PublishingTransitions(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	backdated := postBody("Old News", "old-news", true)
	backdated["publishedAt"] = "2022-02-02T12:00:00Z"
	post := createPost(t, env, backdated)
	id := post["id"].(string)

	// Editing a published post keeps its original timestamp.
	edit := postBody("Old News, revised", "old-news", true)
	rec := env.do(t, http.MethodPut, "/api/admin/blog/posts/"+id, edit, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	at, err := time.Parse(time.RFC3339Nano, decode[map[string]any](t, rec)["publishedAt"].(string))
	require.NoError(t, err)
	assert.Equal(t, 2022, at.Year())

	// Unpublishing clears it.
	rec = env.do(t, http.MethodPut, "/api/admin/blog/posts/"+id, postBody("Old News", "old-news", false), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[map[string]any](t, rec)["publishedAt"])

	// Publishing again stamps now.
	rec = env.do(t, http.MethodPut, "/api/admin/blog/posts/"+id, postBody("Old News", "old-news", true), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	at, err = time.Parse(time.RFC3339Nano, decode[map[string]any](t, rec)["publishedAt"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), at, time.Minute)
}

func TestBlogPost_SlugConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	createPost(t, env, postBody("First", "same-slug", true))
	second := createPost(t, env, postBody("Second", "other-slug", true))

	rec := env.do(t, http.MethodPost, "/api/admin/blog/posts", postBody("Dup", "same-slug", false), admin)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slug", decode[ErrorResponse](t, rec).Field)

	rec = env.do(t, http.MethodPut, "/api/admin/blog/posts/"+second["id"].(string), postBody("Second", "same-slug", true), admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Keeping your own slug is not a conflict.
	rec = env.do(t, http.MethodPut, "/api/admin/blog/posts/"+second["id"].(string), postBody("Second!", "other-slug", true), admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/blog/posts", postBody("Bad", "Not A Slug", true), admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "slug", decode[ErrorResponse](t, rec).Field)
}

func TestBlogPost_PublicReadsHideDrafts(t *testing.T) {
	env := newTestEnv(t, nil)

	createPost(t, env, postBody("Live", "live", true))
	draft := createPost(t, env, postBody("Hidden", "hidden", false))

	rec := env.do(t, http.MethodGet, "/api/blog/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["total"])
	item := page["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "live", item["slug"])
	assert.NotContains(t, item, "content")

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/blog/posts/slug/live", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/blog/posts/slug/hidden", nil, "").Code)

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["total"])

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts/"+draft["id"].(string), nil, env.adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/blog/tags", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"go", "web"}, decode[TagsResponse](t, rec).Tags)
}

func TestBlogPost_Comments(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	live := createPost(t, env, postBody("Live", "live", true))
	draft := createPost(t, env, postBody("Draft", "draft", false))
	liveID := live["id"].(string)

	rec := env.do(t, http.MethodPost, "/api/blog/posts/"+liveID+"/comments", map[string]any{"name": "Ada", "content": "First!"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)

	rec = env.do(t, http.MethodPost, "/api/blog/posts/"+liveID+"/comments", map[string]any{"content": "Second"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/blog/posts/"+liveID+"/comments", map[string]any{"content": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/blog/posts/"+draft["id"].(string)+"/comments", map[string]any{"content": "Sneaky"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts/"+liveID+"/comments", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decode[map[string]any](t, rec)["comments"].([]any)
	require.Len(t, comments, 2)

	rec = env.do(t, http.MethodGet, "/api/admin/blog/posts", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, raw := range decode[map[string]any](t, rec)["items"].([]any) {
		item := raw.(map[string]any)
		if item["id"] == liveID {
			assert.EqualValues(t, 2, item["commentCount"])
		}
	}

	rec = env.do(t, http.MethodDelete, "/api/admin/blog/comments/"+first["id"].(string), nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/admin/blog/comments/"+first["id"].(string), nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/admin/blog/posts/"+liveID, nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/blog/posts/slug/live", nil, "").Code)
}

func TestBlogPost_CoverImage(t *testing.T) {
	env := newTestEnv(t, nil)

	body := postBody("Covered", "covered", true)
	body["coverImage"] = "data:image/png;base64," + b64(pngBytes)
	body["imageType"] = "image/png"
	post := createPost(t, env, body)
	assert.Equal(t, true, post["hasCoverImage"])

	rec := env.do(t, http.MethodGet, "/api/blog/posts/"+post["id"].(string)+"/cover", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	bad := postBody("Bad Cover", "bad-cover", true)
	bad["coverImage"] = b64([]byte("definitely not an image"))
	bad["imageType"] = "image/png"
	rec = env.do(t, http.MethodPost, "/api/admin/blog/posts", bad, env.adminToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "coverImage", decode[ErrorResponse](t, rec).Field)
}
