package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageItemBody(title string) map[string]any {
	return map[string]any{
		"title":     title,
		"mediaType": "IMAGE",
		"image":     b64(pngBytes),
		"imageType": "image/png",
		"tags":      "travel, food",
	}
}

func videoItemBody(title string) map[string]any {
	return map[string]any{
		"title":     title,
		"mediaType": "VIDEO",
		"videoUrl":  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"tags":      "talks",
	}
}

func TestCreateGalleryItem_ImageXorVideo(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"image item without image", func() map[string]any {
			b := imageItemBody("No image")
			delete(b, "image")
			return b
		}(), "image"},
		{"image item with video", func() map[string]any {
			b := imageItemBody("Both")
			b["videoUrl"] = "https://vimeo.com/1"
			return b
		}(), "videoUrl"},
		{"video item without url", func() map[string]any {
			b := videoItemBody("No url")
			delete(b, "videoUrl")
			return b
		}(), "videoUrl"},
		{"video item with image", func() map[string]any {
			b := videoItemBody("Both")
			b["image"] = b64(pngBytes)
			b["imageType"] = "image/png"
			return b
		}(), "image"},
		{"unknown media type", func() map[string]any {
			b := videoItemBody("Audio")
			b["mediaType"] = "AUDIO"
			return b
		}(), "mediaType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/admin/gallery", tt.body, env.adminToken(t))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.field, decode[ErrorResponse](t, rec).Field)
		})
	}
}

func TestGalleryItemLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/admin/gallery", imageItemBody("Sunset"), admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[map[string]any](t, rec)
	id := item["id"].(string)
	assert.Equal(t, true, item["hasImage"])

	rec = env.do(t, http.MethodPost, "/api/admin/gallery", videoItemBody("Talk"), admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/gallery?tags=travel", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["total"])
	assert.NotContains(t, page["items"].([]any)[0].(map[string]any), "image")

	rec = env.do(t, http.MethodGet, "/api/gallery/tags", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"food", "talks", "travel"}, decode[TagsResponse](t, rec).Tags)

	// Updating an image item without a new image keeps the stored one.
	keep := imageItemBody("Sunset again")
	delete(keep, "image")
	delete(keep, "imageType")
	rec = env.do(t, http.MethodPut, "/api/admin/gallery/"+id, keep, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/gallery/"+id+"/image", nil, "").Code)

	// Switching to a video drops the image.
	rec = env.do(t, http.MethodPut, "/api/admin/gallery/"+id, videoItemBody("Sunset video"), admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["hasImage"])

	rec = env.do(t, http.MethodGet, "/api/gallery/"+id+"/image", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Image not found", decode[ErrorResponse](t, rec).Error)

	// Back to an image item now needs a fresh image.
	noImage := imageItemBody("Sunset photo")
	delete(noImage, "image")
	delete(noImage, "imageType")
	rec = env.do(t, http.MethodPut, "/api/admin/gallery/"+id, noImage, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/gallery/"+id, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "VIDEO", decode[map[string]any](t, rec)["mediaType"])

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/admin/gallery/"+id, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/admin/gallery/"+id, nil, admin).Code)
}
