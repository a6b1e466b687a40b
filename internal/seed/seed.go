// Package seed generates sample recipes for local development and tests
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
)

// RecipeFactory builds plausible recipe inputs from a seeded faker
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a factory. The same seed yields the same recipes.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// dish returns a dish name that fits the category
func (f *RecipeFactory) dish(c model.Category) string {
	switch c {
	case model.CategoryBreakfast:
		return f.faker.Breakfast()
	case model.CategoryLunch:
		return f.faker.Lunch()
	case model.CategoryDinner:
		return f.faker.Dinner()
	case model.CategoryDessert:
		return f.faker.Dessert()
	case model.CategorySnack, model.CategoryAppetizer:
		return f.faker.Snack()
	case model.CategoryDrink:
		return f.faker.Drink()
	default:
		return f.faker.Adjective() + " " + f.faker.Vegetable() + " " + f.faker.RandomString([]string{"bowl", "bake", "skillet", "salad"})
	}
}

// Category picks one of the recipe categories
func (f *RecipeFactory) Category() model.Category {
	return model.Categories[f.faker.Number(0, len(model.Categories)-1)]
}

// RecipeInput returns a valid input with a random category
func (f *RecipeFactory) RecipeInput() types.RecipeInput {
	return f.RecipeInputFor(f.Category())
}

// RecipeInputFor returns a valid input in the given category
func (f *RecipeFactory) RecipeInputFor(c model.Category) types.RecipeInput {
	ingredients := make([]string, f.faker.Number(3, 8))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d %s %s",
			f.faker.Number(1, 4),
			f.faker.RandomString([]string{"cup", "tbsp", "tsp", "g", "pinch"}),
			strings.ToLower(f.faker.RandomString([]string{f.faker.Fruit(), f.faker.Vegetable(), f.faker.Noun()})))
	}

	steps := make([]string, f.faker.Number(2, 6))
	for i := range steps {
		steps[i] = f.faker.Sentence(f.faker.Number(6, 12))
	}

	in := types.RecipeInput{
		Title:        strings.TrimSpace(f.dish(c)),
		Description:  f.faker.Sentence(f.faker.Number(8, 16)),
		Ingredients:  strings.Join(ingredients, "\n"),
		Instructions: strings.Join(steps, "\n"),
		PrepTime:     f.faker.Number(0, 45),
		CookTime:     f.faker.Number(0, 120),
		Servings:     f.faker.Number(1, 8),
		Category:     c,
	}
	if f.faker.Bool() {
		in.SourceLink = f.faker.URL()
	}
	return in
}

// Recipes creates n recipes through the store and returns them in creation order
func Recipes(ctx context.Context, svc service.IRecipeService, factory *RecipeFactory, n int, log *zap.Logger) ([]model.Recipe, error) {
	if log == nil {
		log = zap.NewNop()
	}
	created := make([]model.Recipe, 0, n)
	for i := 0; i < n; i++ {
		in := factory.RecipeInput()
		r, err := svc.Create(ctx, &in)
		if err != nil {
			return created, fmt.Errorf("failed to seed recipe %d: %w", i+1, err)
		}
		log.Debug("seeded recipe", zap.String("id", r.ID.String()), zap.String("title", r.Title))
		created = append(created, *r)
	}
	return created, nil
}
