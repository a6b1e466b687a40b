package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// RecipeHandler exposes the record store over HTTP
type RecipeHandler struct {
	recipes service.IRecipeService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes mounts the recipe routes. Writes go through the extra
// middleware, typically the rate limiter.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", Chain(writes, h.CreateRecipe)...)
		recipes.PUT("/:id", Chain(writes, h.UpdateRecipe)...)
		recipes.DELETE("/:id", Chain(writes, h.DeleteRecipe)...)
	}
}

// ListRecipes returns all recipes newest first, optionally narrowed by the
// q and category query parameters
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := model.RecipeFilter{
		Search:   c.Query("q"),
		Category: model.Category(c.Query("category")),
	}
	if !filter.Category.Valid() && filter.Category != "" && filter.Category != model.CategoryAll {
		_ = c.Error(apperrors.NewValidationError("unknown category " + string(filter.Category)))
		return
	}

	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RecipeListResponse{Recipes: filter.Apply(recipes)})
}

// GetRecipe returns one recipe
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RecipeResponse{Recipe: *recipe})
}

// CreateRecipe inserts a recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in types.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), &in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, types.RecipeResponse{Recipe: *recipe})
}

// UpdateRecipe replaces every mutable field of a recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var in types.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, &in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.RecipeResponse{Recipe: *recipe})
}

// DeleteRecipe removes a recipe
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.NewAppError(apperrors.CodeBadRequest, "invalid recipe ID", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// Chain returns middleware followed by handler in a fresh slice
func Chain(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, handler)
}
