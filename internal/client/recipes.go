package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
)

// RecipeStore is the record store the recipe book reads and writes
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	CreateRecipe(ctx context.Context, in types.RecipeInput) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in types.RecipeInput) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// RecipeBook is the client-side recipe list. Every change is followed by a
// full reload; the list is never patched in place.
type RecipeBook struct {
	store  RecipeStore
	logger *zap.Logger

	mu      sync.RWMutex
	recipes []model.Recipe
	loading bool
}

// NewRecipeBook creates an empty recipe book
func NewRecipeBook(store RecipeStore, logger *zap.Logger) *RecipeBook {
	return &RecipeBook{
		store:   store,
		logger:  logger.Named("recipe_book"),
		recipes: []model.Recipe{},
	}
}

// Refresh replaces the list with the store's contents. On failure the error
// is logged, the previous list is kept and the error is returned.
func (b *RecipeBook) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	recipes, err := b.store.ListRecipes(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		b.logger.Error("error fetching recipes", zap.Error(err))
		return err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	b.recipes = recipes
	return nil
}

// Save creates the recipe when id is empty and updates it otherwise, then
// reloads the list. A failed write is logged and returned so the caller can
// keep its form open.
func (b *RecipeBook) Save(ctx context.Context, id string, in types.RecipeInput) error {
	var err error
	if id == "" {
		_, err = b.store.CreateRecipe(ctx, in)
	} else {
		_, err = b.store.UpdateRecipe(ctx, id, in)
	}
	if err != nil {
		b.logger.Error("error saving recipe", zap.String("id", id), zap.Error(err))
		return err
	}

	_ = b.Refresh(ctx)
	return nil
}

// Delete removes the recipe then reloads the list
func (b *RecipeBook) Delete(ctx context.Context, id string) error {
	if err := b.store.DeleteRecipe(ctx, id); err != nil {
		b.logger.Error("error deleting recipe", zap.String("id", id), zap.Error(err))
		return err
	}

	_ = b.Refresh(ctx)
	return nil
}

// Recipes returns a copy of the current list
func (b *RecipeBook) Recipes() []model.Recipe {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Recipe, len(b.recipes))
	copy(out, b.recipes)
	return out
}

// Find returns the recipe with id from the current list
func (b *RecipeBook) Find(id string) (model.Recipe, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, r := range b.recipes {
		if r.ID.String() == id {
			return r, true
		}
	}
	return model.Recipe{}, false
}

// Loading reports whether a refresh is in flight
func (b *RecipeBook) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Visible applies filter to the current list
func (b *RecipeBook) Visible(filter model.RecipeFilter) []model.Recipe {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return filter.Apply(b.recipes)
}

// EmptyState is the heading and hint shown when nothing is visible
type EmptyState struct {
	Title string
	Hint  string
}

// EmptyStateFor distinguishes an empty collection from a filter that
// matches nothing
func EmptyStateFor(filter model.RecipeFilter) EmptyState {
	if !filter.IsZero() {
		return EmptyState{
			Title: "No recipes found",
			Hint:  "Try adjusting your search or filters",
		}
	}
	return EmptyState{
		Title: "No recipes yet",
		Hint:  "Start building your recipe collection by adding your first recipe",
	}
}
