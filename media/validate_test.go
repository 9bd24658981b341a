package media

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func withPrefix(prefix []byte, size int) []byte {
	buf := make([]byte, size)
	copy(buf, prefix)
	return buf
}

func webpHeader() []byte {
	return []byte{'R', 'I', 'F', 'F', 0x10, 0, 0, 0, 'W', 'E', 'B', 'P', 'V', 'P', '8', ' '}
}

func TestValidateImage_AcceptsKnownFormats(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
	}{
		{"png", withPrefix([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, 64), "image/png"},
		{"jpeg", withPrefix([]byte{0xFF, 0xD8, 0xFF, 0xE0}, 64), "image/jpeg"},
		{"jpg alias", withPrefix([]byte{0xFF, 0xD8, 0xFF}, 64), "image/jpg"},
		{"webp", withPrefix(webpHeader(), 64), "image/webp"},
		{"gif", withPrefix([]byte("GIF89a"), 64), "image/gif"},
		{"jpeg declared as png", withPrefix([]byte{0xFF, 0xD8, 0xFF}, 64), "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateImage(encode(tt.data), tt.mimeType)
			require.NoError(t, err)
			assert.Equal(t, tt.data, out)
		})
	}
}

func TestValidateImage_TwoMegabyteJPEG(t *testing.T) {
	data := withPrefix([]byte{0xFF, 0xD8, 0xFF}, 2*1024*1024)

	out, err := ValidateImage(encode(data), "image/jpeg")
	require.NoError(t, err)
	assert.Len(t, out, len(data))
}

func TestValidateImage_SizeCap(t *testing.T) {
	atCap := withPrefix([]byte{0x89, 0x50, 0x4E, 0x47}, MaxImageSize)
	_, err := ValidateImage(encode(atCap), "image/png")
	assert.NoError(t, err)

	overCap := withPrefix([]byte{0x89, 0x50, 0x4E, 0x47}, MaxImageSize+1)
	_, err = ValidateImage(encode(overCap), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Image size exceeds 5MB limit")

	// Size is checked before content, so garbage over the cap reports size.
	garbage := bytes.Repeat([]byte{0x00}, MaxImageSize+1)
	_, err = ValidateImage(encode(garbage), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Image size exceeds 5MB limit")
}

func TestValidateImage_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		mimeType string
		field    string
		contains string
	}{
		{"empty payload", "", "image/png", "image", "Invalid image format"},
		{"text payload", encode([]byte("hello world, not an image")), "image/png", "image", "Invalid image format"},
		{"truncated png magic", encode([]byte{0x89, 0x50, 0x4E}), "image/png", "image", "Invalid image format"},
		{"riff without webp tag", encode(withPrefix([]byte("RIFFxxxxWAVE"), 32)), "image/webp", "image", "Invalid image format"},
		{"not base64", "%%%not-base64%%%", "image/png", "image", "not valid base64"},
		{"svg mime", encode(withPrefix([]byte{0x89, 0x50, 0x4E, 0x47}, 16)), "image/svg+xml", "imageType", "Unsupported image type"},
		{"empty mime", encode(withPrefix([]byte{0xFF, 0xD8, 0xFF}, 16)), "", "imageType", "Unsupported image type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateImage(tt.payload, tt.mimeType)
			assert.Nil(t, out)
			require.Error(t, err)

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.StatusCode)
			assert.Equal(t, tt.field, apiErr.Field)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateImage_DecodingVariants(t *testing.T) {
	data := withPrefix([]byte("GIF87a"), 10)

	raw := base64.RawStdEncoding.EncodeToString(data)
	out, err := ValidateImage(raw, "image/gif")
	require.NoError(t, err)
	assert.Equal(t, data, out)

	dataURL := "data:image/gif;base64," + encode(data)
	out, err = ValidateImage(dataURL, "image/gif")
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestHasImageSignature(t *testing.T) {
	assert.False(t, HasImageSignature(nil))
	assert.False(t, HasImageSignature([]byte{0xFF, 0xD8}))
	assert.True(t, HasImageSignature([]byte("GIF")))
	assert.True(t, HasImageSignature(webpHeader()[:12]))
	assert.False(t, HasImageSignature(webpHeader()[:11]))
}
