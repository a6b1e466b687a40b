package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/mocks"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	data := []byte("\x89PNG\r\n\x1a\n")
	images := new(mocks.MockImageService)
	images.On("Upload", mock.Anything, "soup.png", "image/png", data).
		Return("https://cdn.test/recipe-images/1-abc.png", nil)

	r := newTestEngine()
	r.POST("/api/v1/images", NewImageHandler(images).UploadImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "file", "soup.png", "image/png", data))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp types.ImageUploadResponse
	decode(t, w, &resp)
	assert.Equal(t, "https://cdn.test/recipe-images/1-abc.png", resp.ImageURL)
	images.AssertExpectations(t)
}

func TestUploadImageRejected(t *testing.T) {
	images := new(mocks.MockImageService)
	images.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", apperrors.NewValidationError("file must be an image"))

	r := newTestEngine()
	r.POST("/api/v1/images", NewImageHandler(images).UploadImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "other", "soup.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageTooLarge(t *testing.T) {
	images := new(mocks.MockImageService)

	r := newTestEngine()
	r.POST("/api/v1/images", NewImageHandler(images).UploadImage)

	w := httptest.NewRecorder()
	big := bytes.Repeat([]byte{0xff}, types.MaxImageSize+1)
	r.ServeHTTP(w, multipartRequest(t, "file", "huge.jpg", "image/jpeg", big))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImageStoreFailure(t *testing.T) {
	images := new(mocks.MockImageService)
	images.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", apperrors.NewStoreError("upload image", errors.New("bucket gone")))

	r := newTestEngine()
	r.POST("/api/v1/images", NewImageHandler(images).UploadImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "file", "soup.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
