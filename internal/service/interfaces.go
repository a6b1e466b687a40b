package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context) ([]model.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Create(ctx context.Context, in *types.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, in *types.RecipeInput) (*model.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*types.RecipeStats, error)
}

// IChatService answers chat requests. Reply never fails: every error becomes
// one of the fallback replies.
type IChatService interface {
	Reply(ctx context.Context, req *types.ChatRequest) string
}

// IImageService stores uploaded recipe images
type IImageService interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// CompletionProvider sends one prompt to a text completion backend and returns
// the first choice's raw text
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BlobStore holds uploaded files and serves them under public URLs
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}
