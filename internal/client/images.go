package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/types"
)

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// ImagePicker is the two-step image flow of the recipe form: a selected file
// is previewed at once and uploaded in the background. Selecting another
// file abandons the previous upload.
type ImagePicker struct {
	uploader ImageUploader
	logger   *zap.Logger

	mu        sync.Mutex
	preview   string
	imageURL  string
	uploading bool
	lastErr   error
	gen       int
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewImagePicker creates a picker with no image
func NewImagePicker(uploader ImageUploader, logger *zap.Logger) *ImagePicker {
	return &ImagePicker{uploader: uploader, logger: logger.Named("image_picker")}
}

// Select validates the file, sets the preview and starts the upload. Invalid
// files are rejected without touching the current image.
func (p *ImagePicker) Select(ctx context.Context, filename, contentType string, data []byte) error {
	contentType, err := types.CheckImage(contentType, data)
	if err != nil {
		return err
	}

	uploadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.preview = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	p.uploading = true
	p.lastErr = nil
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		url, err := p.uploader.UploadImage(uploadCtx, filename, contentType, data)

		p.mu.Lock()
		defer p.mu.Unlock()
		if gen != p.gen {
			return
		}
		p.uploading = false
		p.cancel = nil
		if err != nil {
			p.logger.Error("error uploading image", zap.String("filename", filename), zap.Error(err))
			p.lastErr = err
			p.preview = ""
			return
		}
		p.imageURL = url
	}()

	return nil
}

// Wait blocks until the current upload finishes and returns its error
func (p *ImagePicker) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Remove clears the preview and the image URL, abandoning any upload
func (p *ImagePicker) Remove() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.preview = ""
	p.imageURL = ""
	p.uploading = false
	p.lastErr = nil
}

// SetImageURL seeds the picker from an existing recipe
func (p *ImagePicker) SetImageURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageURL = url
	p.preview = url
}

// ImageURL is the uploaded image's public URL, empty until an upload succeeds
func (p *ImagePicker) ImageURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageURL
}

// Preview is the locally rendered image shown while uploading
func (p *ImagePicker) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// Uploading reports whether an upload is in flight
func (p *ImagePicker) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading
}

// DetectContentType sniffs the content type of a local file's bytes
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}
