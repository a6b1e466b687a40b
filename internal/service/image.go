package service

import (
	"context"
	"fmt"
	"math/rand"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

const imagePrefix = "recipe-images"

// ImageService stores recipe images in the blob store
type ImageService struct {
	store   BlobStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewImageService creates a new ImageService instance
func NewImageService(store BlobStore, logger *zap.Logger, m *metrics.Metrics) *ImageService {
	return &ImageService{
		store:   store,
		logger:  logger.Named("images"),
		metrics: m,
		now:     time.Now,
	}
}

// Upload validates an image and stores it under a unique key, returning its
// public URL. An empty content type is sniffed from the data.
func (s *ImageService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	contentType, err := types.CheckImage(contentType, data)
	if err != nil {
		s.metrics.ObserveImageUpload(err)
		return "", err
	}

	key := s.objectKey(filename, contentType)
	if err := s.store.Upload(ctx, key, contentType, data); err != nil {
		s.metrics.ObserveImageUpload(err)
		s.logger.Error("failed to store image", zap.String("key", key), zap.Error(err))
		return "", apperrors.NewStoreError("upload image", err)
	}
	s.metrics.ObserveImageUpload(nil)

	url := s.store.PublicURL(key)
	s.logger.Info("image uploaded", zap.String("key", key), zap.Int("size", len(data)))
	return url, nil
}

// objectKey names the object <prefix>/<unixmillis>-<random>.<ext>
func (s *ImageService) objectKey(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
	}
	return fmt.Sprintf("%s/%d-%s%s", imagePrefix, s.now().UnixMilli(), randomSuffix(), ext)
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
