package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/model"
)

func TestChatRecipesFromSendsWholeRecipe(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := model.Recipe{
		ID:           uuid.New(),
		Title:        "Dal",
		Description:  "Lentils",
		Ingredients:  "lentils\nturmeric",
		Instructions: "Simmer",
		PrepTime:     10,
		CookTime:     30,
		Servings:     4,
		Category:     model.CategoryDinner,
		ImageURL:     "https://cdn.test/dal.png",
		SourceLink:   "https://example.com/dal",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	got := ChatRecipesFrom([]model.Recipe{r})
	require.Len(t, got, 1)
	assert.Equal(t, ChatRecipe{
		ID:           r.ID.String(),
		Title:        "Dal",
		Description:  "Lentils",
		Ingredients:  "lentils\nturmeric",
		Instructions: "Simmer",
		PrepTime:     10,
		CookTime:     30,
		Servings:     4,
		Category:     "dinner",
		ImageURL:     "https://cdn.test/dal.png",
		SourceLink:   "https://example.com/dal",
		CreatedAt:    "2024-03-01T12:00:00Z",
		UpdatedAt:    "2024-03-01T12:00:00Z",
	}, got[0])

	assert.NotNil(t, ChatRecipesFrom(nil))
}

func TestChatRequestDecodesStoredRecipeJSON(t *testing.T) {
	recipe := model.Recipe{ID: uuid.New(), Title: "Soup", Category: model.CategoryLunch, PrepTime: 5}
	raw, err := json.Marshal(map[string]interface{}{
		"message": "hi",
		"recipes": []model.Recipe{recipe},
	})
	require.NoError(t, err)

	var req ChatRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	require.NoError(t, req.Validate())
	require.Len(t, req.Recipes, 1)
	assert.Equal(t, "Soup", req.Recipes[0].Title)
	assert.Equal(t, 5, req.Recipes[0].PrepTime)
	assert.Equal(t, recipe.ID.String(), req.Recipes[0].ID)
	assert.Empty(t, req.ConversationHistory)
}
