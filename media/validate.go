// Package media validates uploaded image payloads before they are stored.
package media

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

// MaxImageSize is the largest decoded image accepted for storage.
const MaxImageSize = 5 * 1024 * 1024

var allowedTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/webp": {},
	"image/gif":  {},
}

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	webpMagic = []byte{0x57, 0x45, 0x42, 0x50}
	gifMagic  = []byte{0x47, 0x49, 0x46}
)

// AllowedTypes lists the accepted MIME types.
func AllowedTypes() []string {
	return []string{"image/png", "image/jpeg", "image/jpg", "image/webp", "image/gif"}
}

// ValidateImage decodes a base64 image payload and checks it against the size
// cap, the recognised format signatures and the MIME allowlist. It returns the
// decoded bytes ready to be stored.
//
// The declared MIME type and the detected signature are checked independently;
// a JPEG declared as image/png is accepted.
func ValidateImage(payload, mimeType string) ([]byte, error) {
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, errs.NewBadRequestErrorWithField("invalid image", "image", "Image payload is not valid base64")
	}

	if len(data) > MaxImageSize {
		return nil, errs.NewBadRequestErrorWithField("invalid image", "image", "Image size exceeds 5MB limit")
	}

	if !HasImageSignature(data) {
		return nil, errs.NewBadRequestErrorWithField("invalid image", "image", "Invalid image format. Only PNG, JPEG, WEBP, and GIF are allowed")
	}

	if !IsAllowedType(mimeType) {
		return nil, errs.NewUnsupportedImageTypeError(mimeType, AllowedTypes())
	}

	return data, nil
}

// HasImageSignature reports whether the leading bytes match PNG, JPEG, WEBP or GIF.
// WEBP is recognised by its format tag at offset 8 alone.
func HasImageSignature(data []byte) bool {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return true
	case bytes.HasPrefix(data, jpegMagic):
		return true
	case len(data) >= 12 && bytes.Equal(data[8:12], webpMagic):
		return true
	case bytes.HasPrefix(data, gifMagic):
		return true
	}
	return false
}

func IsAllowedType(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}

// decodeBase64 accepts padded or unpadded standard base64, with or without a
// data URL prefix.
func decodeBase64(payload string) ([]byte, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	payload = strings.TrimSpace(payload)

	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}
