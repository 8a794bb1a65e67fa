package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phenrril/galeria/internal/domain"
)

func TestDocumentRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAssignsIDAndKeepsOrder", func(t *testing.T) {
		r := NewDocumentRepo()
		a, err := r.Create(ctx, domain.CollectionWatches, map[string]any{"brand": "Rolex"})
		require.NoError(t, err)
		require.NotEmpty(t, a.ID)
		_, err = r.Create(ctx, domain.CollectionWatches, map[string]any{"id": "fixed", "brand": "Omega"})
		require.NoError(t, err)

		all, err := r.FetchAll(ctx, domain.CollectionWatches)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, a.ID, all[0].ID)
		require.Equal(t, "fixed", all[1].ID)
		require.NotContains(t, all[1].Data, "id")
	})

	t.Run("DuplicateIDConflicts", func(t *testing.T) {
		r := NewDocumentRepo()
		_, err := r.Create(ctx, domain.CollectionWatches, map[string]any{"id": "w1", "brand": "Rolex"})
		require.NoError(t, err)
		_, err = r.Create(ctx, domain.CollectionWatches, map[string]any{"id": "w1", "brand": "Omega"})
		require.ErrorIs(t, err, domain.ErrConflict)

		all, err := r.FetchAll(ctx, domain.CollectionWatches)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "Rolex", all[0].Data["brand"])

		_, err = r.Create(ctx, domain.CollectionArt, map[string]any{"id": "w1"})
		require.NoError(t, err, "ids are scoped per collection")
	})

	t.Run("FetchByIDNotFound", func(t *testing.T) {
		r := NewDocumentRepo()
		_, err := r.FetchByID(ctx, domain.CollectionArt, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateMergesFields", func(t *testing.T) {
		r := NewDocumentRepo()
		d, err := r.Create(ctx, domain.CollectionContacts, map[string]any{"name": "Ana"})
		require.NoError(t, err)
		require.NoError(t, r.Update(ctx, domain.CollectionContacts, d.ID, map[string]any{"delivery": "ok"}))

		got, err := r.FetchByID(ctx, domain.CollectionContacts, d.ID)
		require.NoError(t, err)
		require.Equal(t, "Ana", got.Data["name"])
		require.Equal(t, "ok", got.Data["delivery"])

		require.ErrorIs(t, r.Update(ctx, domain.CollectionContacts, "missing", nil), domain.ErrNotFound)
	})

	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) {
		r := NewDocumentRepo()
		d, _ := r.Create(ctx, domain.CollectionWatches, map[string]any{"brand": "Rolex"})
		d.Data["brand"] = "changed"
		got, _ := r.FetchByID(ctx, domain.CollectionWatches, d.ID)
		require.Equal(t, "Rolex", got.Data["brand"])
	})

	t.Run("CancelledContext", func(t *testing.T) {
		r := NewDocumentRepo()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.FetchAll(cctx, domain.CollectionWatches)
		require.ErrorIs(t, err, context.Canceled)
	})
}
