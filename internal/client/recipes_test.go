package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
	"github.com/pageza/khana/backend/pkg/logger"
)

// fakeStore is an in-memory RecipeStore that can be told to fail
type fakeStore struct {
	mu       sync.Mutex
	recipes  []model.Recipe
	listErr  error
	writeErr error
	lists    int
}

func (f *fakeStore) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Recipe, len(f.recipes))
	copy(out, f.recipes)
	return out, nil
}

func (f *fakeStore) CreateRecipe(ctx context.Context, in types.RecipeInput) (*model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	r := in.NewRecipe()
	r.ID = uuid.New()
	f.recipes = append([]model.Recipe{*r}, f.recipes...)
	return r, nil
}

func (f *fakeStore) UpdateRecipe(ctx context.Context, id string, in types.RecipeInput) (*model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i := range f.recipes {
		if f.recipes[i].ID.String() == id {
			in.ApplyTo(&f.recipes[i])
			r := f.recipes[i]
			return &r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeStore) DeleteRecipe(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.recipes {
		if f.recipes[i].ID.String() == id {
			f.recipes = append(f.recipes[:i], f.recipes[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func TestRecipeBookSaveRefreshes(t *testing.T) {
	store := &fakeStore{}
	book := NewRecipeBook(store, logger.Nop())
	ctx := context.Background()

	require.NoError(t, book.Save(ctx, "", types.RecipeInput{Title: "Soup"}))
	require.Len(t, book.Recipes(), 1)
	id := book.Recipes()[0].ID.String()

	require.NoError(t, book.Save(ctx, id, types.RecipeInput{Title: "Stew"}))
	r, ok := book.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Stew", r.Title)

	require.NoError(t, book.Delete(ctx, id))
	assert.Empty(t, book.Recipes())
	assert.Equal(t, 3, store.lists)
}

func TestRecipeBookRefreshFailureKeepsList(t *testing.T) {
	store := &fakeStore{recipes: []model.Recipe{{ID: uuid.New(), Title: "Soup"}}}
	book := NewRecipeBook(store, logger.Nop())
	ctx := context.Background()
	require.NoError(t, book.Refresh(ctx))

	store.listErr = errors.New("network down")
	assert.Error(t, book.Refresh(ctx))
	assert.False(t, book.Loading())
	require.Len(t, book.Recipes(), 1)
	assert.Equal(t, "Soup", book.Recipes()[0].Title)
}

func TestRecipeBookWriteFailure(t *testing.T) {
	store := &fakeStore{}
	book := NewRecipeBook(store, logger.Nop())
	ctx := context.Background()
	require.NoError(t, book.Save(ctx, "", types.RecipeInput{Title: "Soup"}))
	listsBefore := store.lists

	store.writeErr = errors.New("permission denied")
	assert.Error(t, book.Save(ctx, "", types.RecipeInput{Title: "Cake"}))
	assert.Error(t, book.Delete(ctx, book.Recipes()[0].ID.String()))

	assert.Equal(t, listsBefore, store.lists, "failed writes do not reload")
	assert.Len(t, book.Recipes(), 1)
}

func TestRecipeBookVisible(t *testing.T) {
	store := &fakeStore{recipes: []model.Recipe{
		{ID: uuid.New(), Title: "Chocolate Cake", Category: model.CategoryDessert},
		{ID: uuid.New(), Title: "Tomato Soup", Category: model.CategoryLunch},
	}}
	book := NewRecipeBook(store, logger.Nop())
	require.NoError(t, book.Refresh(context.Background()))

	assert.Len(t, book.Visible(model.RecipeFilter{}), 2)
	visible := book.Visible(model.RecipeFilter{Search: "soup", Category: model.CategoryAll})
	require.Len(t, visible, 1)
	assert.Equal(t, "Tomato Soup", visible[0].Title)
	assert.Empty(t, book.Visible(model.RecipeFilter{Category: model.CategoryDrink}))
}

func TestEmptyStateFor(t *testing.T) {
	assert.Equal(t, "No recipes yet", EmptyStateFor(model.RecipeFilter{Category: model.CategoryAll}).Title)
	assert.Equal(t, "No recipes found", EmptyStateFor(model.RecipeFilter{Search: "x"}).Title)
	assert.Equal(t, "No recipes found", EmptyStateFor(model.RecipeFilter{Category: model.CategorySnack}).Title)
}
