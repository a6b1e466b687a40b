package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/khana/backend/config"
	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/pkg/logger"
)

func TestOpenMemoryAppliesSchema(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&model.Recipe{}))

	r := model.Recipe{Title: "Soup", Category: model.CategoryLunch, Servings: 1}
	require.NoError(t, db.Create(&r).Error)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		Environment: config.Test,
		DBDriver:    "sqlite",
		SQLitePath:  t.TempDir() + "/khana.db",
	}

	db, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	assert.True(t, db.Migrator().HasTable("recipes"))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle"}, logger.Nop())
	assert.Error(t, err)
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(&config.Config{}, logger.Nop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}
