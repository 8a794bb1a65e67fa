package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/galeria/internal/domain"
)

// requirePostgres opens GALERIA_TEST_DSN or skips the test.
func requirePostgres(t *testing.T) *DocumentRepo {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Postgres test in short mode")
	}
	dsn := os.Getenv("GALERIA_TEST_DSN")
	if dsn == "" {
		t.Skip("GALERIA_TEST_DSN not set")
	}
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	repo := NewDocumentRepo(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func TestDocumentRepo(t *testing.T) {
	repo := requirePostgres(t)
	ctx := context.Background()
	col := "test_" + uuid.New().String()[:8]

	d, err := repo.Create(ctx, col, map[string]any{"brand": "Rolex", "image": []any{"a", "b"}})
	require.NoError(t, err)

	got, err := repo.FetchByID(ctx, col, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Rolex", got.Data["brand"])
	require.Equal(t, []any{"a", "b"}, got.Data["image"])

	require.NoError(t, repo.Update(ctx, col, d.ID, map[string]any{"delivery": map[string]any{"state": "SUCCESS"}}))
	got, err = repo.FetchByID(ctx, col, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Rolex", got.Data["brand"])
	require.NotNil(t, got.Data["delivery"])

	all, err := repo.FetchAll(ctx, col)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = repo.Create(ctx, col, map[string]any{"id": d.ID, "brand": "Omega"})
	require.ErrorIs(t, err, domain.ErrConflict)
	all, err = repo.FetchAll(ctx, col)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = repo.FetchByID(ctx, col, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, col, "missing", nil), domain.ErrNotFound)
}

func TestDocumentRepo_MigrateReportsFailures(t *testing.T) {
	repo := requirePostgres(t)
	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	require.Error(t, repo.createIndexes())
	require.Error(t, repo.Migrate())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	require.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(errors.New("connection refused")))
}
