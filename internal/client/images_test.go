package client

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/types"
	"github.com/pageza/khana/backend/pkg/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type funcUploader func(ctx context.Context, filename, contentType string, data []byte) (string, error)

func (f funcUploader) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	return f(ctx, filename, contentType, data)
}

func TestImagePickerUploads(t *testing.T) {
	p := NewImagePicker(funcUploader(func(ctx context.Context, filename, contentType string, data []byte) (string, error) {
		assert.Equal(t, "soup.png", filename)
		assert.Equal(t, "image/png", contentType)
		return "https://cdn.test/soup.png", nil
	}), logger.Nop())

	require.NoError(t, p.Select(context.Background(), "soup.png", "image/png", pngBytes))
	assert.True(t, strings.HasPrefix(p.Preview(), "data:image/png;base64,"))

	require.NoError(t, p.Wait())
	assert.Equal(t, "https://cdn.test/soup.png", p.ImageURL())
	assert.False(t, p.Uploading())
}

func TestImagePickerFailureDiscardsPreview(t *testing.T) {
	p := NewImagePicker(funcUploader(func(ctx context.Context, filename, contentType string, data []byte) (string, error) {
		return "", errors.New("bucket unavailable")
	}), logger.Nop())
	p.SetImageURL("https://cdn.test/old.png")

	require.NoError(t, p.Select(context.Background(), "soup.png", "image/png", pngBytes))
	assert.Error(t, p.Wait())
	assert.Empty(t, p.Preview())
	assert.Equal(t, "https://cdn.test/old.png", p.ImageURL())
}

func TestImagePickerRejectsInvalidFiles(t *testing.T) {
	called := false
	p := NewImagePicker(funcUploader(func(ctx context.Context, filename, contentType string, data []byte) (string, error) {
		called = true
		return "", nil
	}), logger.Nop())

	assert.Error(t, p.Select(context.Background(), "notes.txt", "text/plain", []byte("hi")))
	assert.Error(t, p.Select(context.Background(), "huge.jpg", "image/jpeg", make([]byte, types.MaxImageSize+1)))
	assert.Empty(t, p.Preview())
	assert.False(t, called)
}

func TestImagePickerReselectAbandonsUpload(t *testing.T) {
	firstStarted := make(chan struct{})
	p := NewImagePicker(funcUploader(func(ctx context.Context, filename, contentType string, data []byte) (string, error) {
		if filename == "first.png" {
			close(firstStarted)
			<-ctx.Done()
			return "https://cdn.test/first.png", ctx.Err()
		}
		return "https://cdn.test/second.png", nil
	}), logger.Nop())

	require.NoError(t, p.Select(context.Background(), "first.png", "image/png", pngBytes))
	select {
	case <-firstStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("first upload never started")
	}

	require.NoError(t, p.Select(context.Background(), "second.png", "image/png", pngBytes))
	require.NoError(t, p.Wait())

	assert.Equal(t, "https://cdn.test/second.png", p.ImageURL())
	assert.NotEmpty(t, p.Preview())
}

func TestImagePickerRemove(t *testing.T) {
	p := NewImagePicker(funcUploader(func(ctx context.Context, filename, contentType string, data []byte) (string, error) {
		return "https://cdn.test/soup.png", nil
	}), logger.Nop())

	require.NoError(t, p.Select(context.Background(), "soup.png", "image/png", pngBytes))
	require.NoError(t, p.Wait())
	p.Remove()

	assert.Empty(t, p.ImageURL())
	assert.Empty(t, p.Preview())
}
