package types

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/khana/backend/internal/model"
)

// validate checks the same tags gin uses for request binding, so inputs built
// outside a handler go through identical rules.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// RecipeInput holds the caller-supplied mutable fields of a recipe. Id and
// timestamps are assigned by the store.
type RecipeInput struct {
	Title        string         `json:"title" binding:"required,max=255"`
	Description  string         `json:"description"`
	Ingredients  string         `json:"ingredients"`
	Instructions string         `json:"instructions"`
	PrepTime     int            `json:"prep_time" binding:"min=0"`
	CookTime     int            `json:"cook_time" binding:"min=0"`
	Servings     int            `json:"servings" binding:"omitempty,min=1"`
	Category     model.Category `json:"category" binding:"omitempty,oneof=breakfast lunch dinner dessert appetizer snack drink other"`
	ImageURL     string         `json:"image_url" binding:"omitempty,url"`
	SourceLink   string         `json:"source_link" binding:"omitempty,url"`
}

// Normalize trims the title and applies the defaults for servings and category
func (in *RecipeInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.Servings == 0 {
		in.Servings = 1
	}
	if in.Category == "" {
		in.Category = model.CategoryOther
	}
}

// Validate normalizes the input and checks it
func (in *RecipeInput) Validate() error {
	in.Normalize()
	return validate.Struct(in)
}

// ApplyTo replaces every mutable field of r
func (in *RecipeInput) ApplyTo(r *model.Recipe) {
	r.Title = in.Title
	r.Description = in.Description
	r.Ingredients = in.Ingredients
	r.Instructions = in.Instructions
	r.PrepTime = in.PrepTime
	r.CookTime = in.CookTime
	r.Servings = in.Servings
	r.Category = in.Category
	r.ImageURL = in.ImageURL
	r.SourceLink = in.SourceLink
}

// NewRecipe builds an unsaved recipe from the input
func (in *RecipeInput) NewRecipe() *model.Recipe {
	r := &model.Recipe{}
	in.ApplyTo(r)
	return r
}

// InputFromRecipe returns the editable fields of an existing recipe
func InputFromRecipe(r *model.Recipe) RecipeInput {
	return RecipeInput{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Category:     r.Category,
		ImageURL:     r.ImageURL,
		SourceLink:   r.SourceLink,
	}
}

// RecipeListResponse is the body of GET /api/v1/recipes
type RecipeListResponse struct {
	Recipes []model.Recipe `json:"recipes"`
}

// RecipeResponse is the body of single-recipe responses
type RecipeResponse struct {
	Recipe model.Recipe `json:"recipe"`
}

// RecipeStats summarizes the collection for GET /api/v1/dashboard/stats
type RecipeStats struct {
	Total      int                    `json:"total"`
	ThisWeek   int                    `json:"this_week"`
	ByCategory map[model.Category]int `json:"by_category"`
}

// NewRecipeStats returns zeroed stats with every category present
func NewRecipeStats() *RecipeStats {
	stats := &RecipeStats{ByCategory: make(map[model.Category]int, len(model.Categories))}
	for _, c := range model.Categories {
		stats.ByCategory[c] = 0
	}
	return stats
}

// ImageUploadResponse is the body of POST /api/v1/images
type ImageUploadResponse struct {
	ImageURL string `json:"image_url"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
