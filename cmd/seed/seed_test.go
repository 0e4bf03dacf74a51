package main

import (
	"context"
	"testing"

	"food-ordering-api/config"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/services"
	"food-ordering-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleMenuIsValid(t *testing.T) {
	items := sampleMenu()
	require.Len(t, items, 10)
	for _, it := range items {
		assert.True(t, it.Category.Valid(), it.Name)
		assert.Positive(t, it.Price, it.Name)
		assert.True(t, it.IsAvailable)
	}
}

func TestSeedCatalogReplacesMenu(t *testing.T) {
	ctx := context.Background()
	db, err := config.OpenStore(ctx, config.Database{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.CreateMenuItems(ctx, &models.MenuItem{Name: "Old", Description: "old", Price: 1, Category: models.CategoryDessert}))

	n, err := seedCatalog(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// Running twice must not duplicate the catalog.
	_, err = seedCatalog(ctx, db)
	require.NoError(t, err)
	items, err := db.ListMenuItems(ctx, store.MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

func TestResetAdminPassword(t *testing.T) {
	ctx := context.Background()
	db, err := config.OpenStore(ctx, config.Database{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	admins := services.NewAdminService(db, logger.Discard())

	assert.Error(t, resetAdminPassword(ctx, db, admins, "nobody@example.com", "secret123"))

	_, err = admins.Create(ctx, "Admin", "admin@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, resetAdminPassword(ctx, db, admins, "admin@example.com", "changed123"))
}
