package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/api"
	"github.com/pageza/khana/backend/internal/client"
	"github.com/pageza/khana/backend/internal/database"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/middleware"
	"github.com/pageza/khana/backend/internal/mocks"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/router"
	"github.com/pageza/khana/backend/internal/seed"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/testhelpers"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
	"github.com/pageza/khana/backend/pkg/logger"
)

func TestRecipeStoreOnPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db, logger.Nop(), metrics.Discard())
	ctx := context.Background()

	factory := seed.NewRecipeFactory(99)
	firstIn := factory.RecipeInputFor(model.CategoryDinner)
	first, err := svc.Create(ctx, &firstIn)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	secondIn := factory.RecipeInputFor(model.CategoryDessert)
	second, err := svc.Create(ctx, &secondIn)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	in := types.InputFromRecipe(first)
	in.Title = "Renamed"
	updated, err := svc.Update(ctx, first.ID, &in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(first.UpdatedAt))

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeRecipeNotFound))

	err = svc.Delete(ctx, uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeRecipeNotFound))
}

func TestSchemaRejectsInvalidRows(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	err := db.Exec(`INSERT INTO recipes (title, category) VALUES ('Soup', 'brunch')`).Error
	assert.Error(t, err)

	err = db.Exec(`INSERT INTO recipes (title, prep_time) VALUES ('Soup', -1)`).Error
	assert.Error(t, err)

	err = db.Exec(`INSERT INTO recipes (title) VALUES ('Soup')`).Error
	assert.NoError(t, err)
}

func TestMigrationsRollBack(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	version, dirty, err := database.MigrationVersion(sqlDB)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	require.NoError(t, database.MigrateDown(sqlDB))
	assert.False(t, db.Migrator().HasTable("recipes"))

	require.NoError(t, database.MigrateUp(sqlDB))
	assert.True(t, db.Migrator().HasTable("recipes"))
}

func TestClientAgainstPostgresBackend(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	provider := new(mocks.MockCompletionProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("Try roasting it.", nil)

	limitCfg := middleware.RateLimitConfig{Window: time.Minute, Limit: 100, KeyPrefix: "test"}
	handler := router.SetupRouter(router.Dependencies{
		Recipes:         api.NewRecipeHandler(service.NewRecipeService(db, log, metrics.Discard())),
		Chat:            api.NewChatHandler(service.NewChatService(provider, log, metrics.Discard()), log),
		Health:          api.NewHealthHandler(db),
		WriteLimiter:    middleware.NewLimiter(nil, limitCfg),
		RateLimitConfig: limitCfg,
		Logger:          log,
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c := client.New(srv.URL)
	ctx := context.Background()
	book := client.NewRecipeBook(c, log)

	in := seed.NewRecipeFactory(3).RecipeInputFor(model.CategoryLunch)
	require.NoError(t, book.Save(ctx, "", in))
	require.Len(t, book.Recipes(), 1)

	session := client.NewChatSession(c, book.Recipes, log)
	reply, err := session.Send(ctx, "what should I cook?")
	require.NoError(t, err)
	assert.Equal(t, "Try roasting it.", reply)
	provider.AssertExpectations(t)
}
