package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/khana/backend/internal/types"
)

// MockChatService is a mock implementation of the chat service
type MockChatService struct {
	mock.Mock
}

// Reply mocks the Reply method
func (m *MockChatService) Reply(ctx context.Context, req *types.ChatRequest) string {
	args := m.Called(ctx, req)
	return args.String(0)
}

// MockCompletionProvider is a mock completion backend
type MockCompletionProvider struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
