package types

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// MaxImageSize is the upload ceiling for recipe images
const MaxImageSize = 5 * 1024 * 1024

// CheckImage enforces the image mimetype and size ceiling and returns the
// effective content type. An empty or generic content type is sniffed from
// the data.
func CheckImage(contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("image is empty")
	}
	if len(data) > MaxImageSize {
		return "", apperrors.NewValidationError(fmt.Sprintf("image exceeds %d MB", MaxImageSize/(1024*1024)))
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.NewValidationError("file must be an image")
	}
	return contentType, nil
}
