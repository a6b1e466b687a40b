package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

// Upload mocks the Upload method
func (m *MockImageService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, data)
	return args.String(0), args.Error(1)
}
