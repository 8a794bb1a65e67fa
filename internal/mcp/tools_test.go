package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/galeria/internal/adapters/repo/memory"
	"github.com/phenrril/galeria/internal/adapters/search/local"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/usecase"
)

func newHandlers(t *testing.T, withSearch bool) *handlers {
	t.Helper()
	ctx := context.Background()
	docs := memory.NewDocumentRepo()
	for _, d := range []map[string]any{
		{"id": "w1", "brand": "Rolex", "model": "Submariner", "price": 12000},
		{"id": "w2", "brand": "Omega", "model": "Seamaster", "price": 5000},
		{"id": "w3", "brand": "Rolex", "model": "Explorer", "price": 8000},
	} {
		_, err := docs.Create(ctx, domain.CollectionWatches, d)
		require.NoError(t, err)
	}
	_, err := docs.Create(ctx, domain.CollectionArt, map[string]any{"id": "p1", "title": "Harbour", "artist": "Vera Lind"})
	require.NoError(t, err)

	h := &handlers{catalog: &usecase.CatalogUC{Docs: docs}}
	if withSearch {
		h.search = usecase.NewSearchUC(local.NewIndex(docs, domain.CollectionWatches, 20))
	}
	return h
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestSearchWatches(t *testing.T) {
	for _, withSearch := range []bool{true, false} {
		h := newHandlers(t, withSearch)
		res, err := h.searchWatches(context.Background(), call(map[string]any{"q": "rolex", "sort": "price_asc"}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var got []domain.Watch
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
		require.Len(t, got, 2)
		require.Equal(t, "w3", got[0].ID)
		require.Equal(t, "w1", got[1].ID)
	}
}

func TestSearchWatches_RequiresQuery(t *testing.T) {
	h := newHandlers(t, false)
	res, err := h.searchWatches(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestListBrands(t *testing.T) {
	h := newHandlers(t, false)
	res, err := h.listBrands(context.Background(), call(nil))
	require.NoError(t, err)

	var got []domain.BrandSummary
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	require.Equal(t, "Rolex", got[0].Name)
	require.Equal(t, 2, got[0].Models)
}

func TestGetWatch(t *testing.T) {
	h := newHandlers(t, false)
	res, err := h.getWatch(context.Background(), call(map[string]any{"id": "w2"}))
	require.NoError(t, err)
	require.Contains(t, text(t, res), `"model": "Seamaster"`)

	res, err = h.getWatch(context.Background(), call(map[string]any{"id": "nope"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, text(t, res), "not found")
}

func TestListArt(t *testing.T) {
	h := newHandlers(t, false)
	res, err := h.listArt(context.Background(), call(map[string]any{"q": "lind"}))
	require.NoError(t, err)
	require.Contains(t, text(t, res), `"price": "Price Upon Request"`)
}

func TestNewServer(t *testing.T) {
	h := newHandlers(t, false)
	require.NotNil(t, NewServer(h.catalog, nil))
}
