package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/database"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/pkg/logger"
)

func TestFactoryInputsValidate(t *testing.T) {
	f := NewRecipeFactory(42)
	for i := 0; i < 50; i++ {
		in := f.RecipeInput()
		require.NoError(t, in.Validate(), "input %d: %+v", i, in)
		assert.True(t, in.Category.Valid())
		assert.NotEmpty(t, model.Lines(in.Ingredients))
		assert.NotEmpty(t, model.Lines(in.Instructions))
	}
}

func TestFactoryIsDeterministic(t *testing.T) {
	a := NewRecipeFactory(7).RecipeInputFor(model.CategoryDessert)
	b := NewRecipeFactory(7).RecipeInputFor(model.CategoryDessert)
	assert.Equal(t, a, b)
	assert.Equal(t, model.CategoryDessert, a.Category)
}

func TestRecipesCreatesThroughStore(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	svc := service.NewRecipeService(db, logger.Nop(), metrics.Discard())

	created, err := Recipes(context.Background(), svc, NewRecipeFactory(1), 5, nil)
	require.NoError(t, err)
	assert.Len(t, created, 5)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}
