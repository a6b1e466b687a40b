package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLinesDropsBlankLines(t *testing.T) {
	r := Recipe{
		Ingredients:  "2 eggs\n\n  \n1 cup flour\r\nsalt\n",
		Instructions: "\nWhisk\n\nBake\n",
	}

	assert.Equal(t, []string{"2 eggs", "1 cup flour", "salt"}, r.IngredientLines())
	assert.Equal(t, []string{"Whisk", "Bake"}, r.InstructionLines())
	assert.Empty(t, Lines(""))
	assert.NotNil(t, Lines(""))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, CategoryAll.Valid())
	assert.False(t, Category("brunch").Valid())
	assert.False(t, Category("").Valid())
}

func TestBeforeCreateAssignsID(t *testing.T) {
	r := &Recipe{Title: "Soup"}
	assert.NoError(t, r.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, r.ID)

	existing := uuid.New()
	r = &Recipe{ID: existing}
	assert.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, existing, r.ID)
}

func TestTotalTime(t *testing.T) {
	r := Recipe{PrepTime: 10, CookTime: 25}
	assert.Equal(t, 35, r.TotalTime())
}
