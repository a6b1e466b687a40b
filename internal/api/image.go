package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// ImageHandler accepts recipe image uploads
type ImageHandler struct {
	images service.IImageService
}

// NewImageHandler creates a new ImageHandler instance
func NewImageHandler(images service.IImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// UploadImage stores the multipart "file" field and returns its public URL
func (h *ImageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, types.MaxImageSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.NewValidationError(fmt.Sprintf("file is required: %v", err)))
		return
	}
	if header.Size > types.MaxImageSize {
		_ = c.Error(apperrors.NewValidationError("image exceeds 5 MB"))
		return
	}

	f, err := header.Open()
	if err != nil {
		_ = c.Error(apperrors.NewInputError("failed to open upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		_ = c.Error(apperrors.NewInputError("failed to read upload", err))
		return
	}

	url, err := h.images.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, types.ImageUploadResponse{ImageURL: url})
}
