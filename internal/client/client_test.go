package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/internal/api"
	"github.com/pageza/khana/backend/internal/database"
	"github.com/pageza/khana/backend/internal/metrics"
	"github.com/pageza/khana/backend/internal/middleware"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/router"
	"github.com/pageza/khana/backend/internal/service"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
	"github.com/pageza/khana/backend/pkg/logger"
)

type memoryBlobStore struct{}

func (memoryBlobStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	return nil
}

func (memoryBlobStore) PublicURL(key string) string { return "https://cdn.test/" + key }

type echoProvider struct{}

func (echoProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return " Here is an idea. ", nil
}

// newTestServer runs the full router over an in-memory store
func newTestServer(t *testing.T, validator *middleware.KeyValidator) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	handler := router.SetupRouter(router.Dependencies{
		Recipes:      api.NewRecipeHandler(service.NewRecipeService(db, log, m)),
		Chat:         api.NewChatHandler(service.NewChatService(echoProvider{}, log, m), log),
		Images:       api.NewImageHandler(service.NewImageService(memoryBlobStore{}, log, m)),
		Health:       api.NewHealthHandler(db),
		KeyValidator: validator,
		Metrics:      m,
		Gatherer:     reg,
		Logger:       log,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRecipeLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	c := New(srv.URL)
	ctx := context.Background()

	recipes, err := c.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	created, err := c.CreateRecipe(ctx, types.RecipeInput{Title: "Soup", Category: model.CategoryLunch})
	require.NoError(t, err)
	assert.Equal(t, "Soup", created.Title)

	got, err := c.GetRecipe(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := c.UpdateRecipe(ctx, created.ID.String(), types.RecipeInput{Title: "Stew"})
	require.NoError(t, err)
	assert.Equal(t, "Stew", updated.Title)
	assert.Equal(t, model.CategoryOther, updated.Category)

	found, err := c.SearchRecipes(ctx, model.RecipeFilter{Search: "ste", Category: model.CategoryOther})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, c.DeleteRecipe(ctx, created.ID.String()))

	_, err = c.GetRecipe(ctx, created.ID.String())
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, string(apperrors.CodeRecipeNotFound), statusErr.Code)
}

func TestClientUploadImage(t *testing.T) {
	srv := newTestServer(t, nil)
	c := New(srv.URL)

	url, err := c.UploadImage(context.Background(), "soup.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	assert.Regexp(t, `^https://cdn\.test/recipe-images/\d+-[a-z0-9]+\.png$`, url)

	_, err = c.UploadImage(context.Background(), "notes.txt", "text/plain", []byte("hello"))
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))
}

func TestClientSendsAPIKey(t *testing.T) {
	validator := middleware.NewKeyValidator("secret")
	srv := newTestServer(t, validator)

	_, err := New(srv.URL).ListRecipes(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)

	key, err := validator.Sign(middleware.RoleAnon)
	require.NoError(t, err)
	_, err = New(srv.URL, WithAPIKey(key)).ListRecipes(context.Background())
	assert.NoError(t, err)
}

func TestEndToEndChat(t *testing.T) {
	srv := newTestServer(t, nil)
	c := New(srv.URL, WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	ctx := context.Background()

	book := NewRecipeBook(c, logger.Nop())
	require.NoError(t, book.Save(ctx, "", types.RecipeInput{Title: "Soup"}))

	session := NewChatSession(c, book.Recipes, logger.Nop())
	reply, err := session.Send(ctx, "What should I cook?")
	require.NoError(t, err)
	assert.Equal(t, "Here is an idea.", reply)

	messages := session.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, types.RoleUser, messages[1].Role)
	assert.Equal(t, "Here is an idea.", messages[2].Content)
}
