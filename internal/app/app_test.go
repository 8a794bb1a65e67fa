package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phenrril/galeria/internal/config"
	"github.com/phenrril/galeria/internal/usecase"
)

func TestNewApp_MemoryDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorageDir = t.TempDir()
	ctx := context.Background()

	a, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	require.Nil(t, a.DB)
	require.Nil(t, a.Queue)
	require.NotNil(t, a.Inline)
	require.NoError(t, a.RunNotifyWorker(ctx))

	require.NoError(t, a.MigrateAndSeed(ctx, true))
	require.NoError(t, a.MigrateAndSeed(ctx, true), "seeding twice leaves the catalog alone")

	watches, err := a.CatalogUC.Watches(ctx, usecase.ListQuery{})
	require.NoError(t, err)
	require.Len(t, watches, len(sampleWatches()))

	brands, err := a.CatalogUC.Brands(ctx)
	require.NoError(t, err)
	require.Equal(t, "Rolex", brands[0].Name)
	require.Equal(t, 2, brands[0].Models)

	feed, err := a.CatalogUC.NewArrivals(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Watches, 2)
	require.Len(t, feed.Art, 1)

	art, err := a.CatalogUC.ArtPieces(ctx, usecase.ListQuery{})
	require.NoError(t, err)
	require.True(t, art[0].Price.IsOnRequest())

	require.NotNil(t, a.HTTPHandler())
}
