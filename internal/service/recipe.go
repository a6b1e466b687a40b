package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

const statsWindow = 7 * 24 * time.Hour

// RecipeService handles recipe operations against the record store
type RecipeService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, logger *zap.Logger, m *metrics.Metrics) *RecipeService {
	return &RecipeService{
		db:      db,
		logger:  logger.Named("recipes"),
		metrics: m,
	}
}

// List returns every recipe, newest first
func (s *RecipeService) List(ctx context.Context) ([]model.Recipe, error) {
	recipes := make([]model.Recipe, 0)
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error
	s.metrics.ObserveStore("list", err)
	if err != nil {
		s.logger.Error("failed to list recipes", zap.Error(err))
		return nil, apperrors.NewStoreError("list recipes", err)
	}
	return recipes, nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.find(ctx, id)
	s.metrics.ObserveStore("get", err)
	return recipe, err
}

// Create inserts a recipe built from in. The store assigns id and timestamps.
func (s *RecipeService) Create(ctx context.Context, in *types.RecipeInput) (*model.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	recipe := in.NewRecipe()
	err := s.db.WithContext(ctx).Create(recipe).Error
	s.metrics.ObserveStore("create", err)
	if err != nil {
		s.logger.Error("failed to create recipe", zap.String("title", in.Title), zap.Error(err))
		return nil, apperrors.NewStoreError("create recipe", err)
	}

	s.logger.Info("recipe created", zap.String("id", recipe.ID.String()))
	return recipe, nil
}

// Update replaces every mutable field of the recipe with id
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, in *types.RecipeInput) (*model.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	recipe, err := s.find(ctx, id)
	if err != nil {
		s.metrics.ObserveStore("update", err)
		return nil, err
	}

	in.ApplyTo(recipe)
	err = s.db.WithContext(ctx).Save(recipe).Error
	s.metrics.ObserveStore("update", err)
	if err != nil {
		s.logger.Error("failed to update recipe", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.NewStoreError("update recipe", err)
	}
	return recipe, nil
}

// Delete removes the recipe with id. Deleting a missing recipe fails.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id)
	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = apperrors.NewNotFoundError(id.String())
	}
	s.metrics.ObserveStore("delete", err)

	if err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		s.logger.Error("failed to delete recipe", zap.String("id", id.String()), zap.Error(err))
		return apperrors.NewStoreError("delete recipe", err)
	}

	s.logger.Info("recipe deleted", zap.String("id", id.String()))
	return nil
}

// Stats counts the collection per category and the recipes added in the
// last seven days. Every category is present in ByCategory.
func (s *RecipeService) Stats(ctx context.Context) (*types.RecipeStats, error) {
	stats, err := s.stats(ctx)
	s.metrics.ObserveStore("stats", err)
	if err != nil {
		s.logger.Error("failed to compute recipe stats", zap.Error(err))
		return nil, apperrors.NewStoreError("recipe stats", err)
	}
	return stats, nil
}

func (s *RecipeService) stats(ctx context.Context) (*types.RecipeStats, error) {
	var rows []struct {
		Category model.Category
		Count    int
	}
	err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("category, count(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var thisWeek int64
	err = s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("created_at >= ?", time.Now().Add(-statsWindow)).
		Count(&thisWeek).Error
	if err != nil {
		return nil, err
	}

	stats := types.NewRecipeStats()
	stats.ThisWeek = int(thisWeek)
	for _, row := range rows {
		stats.ByCategory[row.Category] += row.Count
		stats.Total += row.Count
	}
	return stats, nil
}

func (s *RecipeService) find(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(id.String())
		}
		s.logger.Error("failed to get recipe", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.NewStoreError("get recipe", err)
	}
	return &recipe, nil
}
