package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/phenrril/galeria/internal/catalog"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/usecase"
)

// searchKey fences MCP searches; tool calls share one logical session.
const searchKey = "mcp"

type handlers struct {
	catalog *usecase.CatalogUC
	search  *usecase.SearchUC
}

func registerTools(s *server.MCPServer, h *handlers) {
	// search_watches
	searchTool := mcp.NewTool("search_watches",
		mcp.WithDescription("Search watches by brand or model"),
		mcp.WithString("q",
			mcp.Required(),
			mcp.Description("Search text"),
		),
		mcp.WithString("sort",
			mcp.Description("Price order: none, price_asc, price_desc (default: none)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Result page, starting at 0 (default: 0)"),
		),
	)
	s.AddTool(searchTool, h.searchWatches)

	// list_brands
	brandsTool := mcp.NewTool("list_brands",
		mcp.WithDescription("List watch brands with model counts, featured brands first"),
	)
	s.AddTool(brandsTool, h.listBrands)

	// get_watch
	watchTool := mcp.NewTool("get_watch",
		mcp.WithDescription("Get one watch by id"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Watch id"),
		),
	)
	s.AddTool(watchTool, h.getWatch)

	// list_art
	artTool := mcp.NewTool("list_art",
		mcp.WithDescription("List art pieces, optionally filtered by title or artist"),
		mcp.WithString("q",
			mcp.Description("Filter text"),
		),
		mcp.WithString("sort",
			mcp.Description("Price order: none, price_asc, price_desc (default: none)"),
		),
	)
	s.AddTool(artTool, h.listArt)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) searchWatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := request.GetString("q", "")
	if q == "" {
		return mcp.NewToolResultError("q is required"), nil
	}
	sort := domain.ParseSortOption(request.GetString("sort", ""))
	page := request.GetInt("page", 0)

	var (
		list []domain.Watch
		err  error
	)
	if h.search != nil {
		list, err = h.search.Search(ctx, searchKey, q, page, sort)
	} else {
		list, err = h.catalog.Watches(ctx, usecase.ListQuery{
			Query:  q,
			Sort:   sort,
			Fields: []catalog.WatchField{catalog.FieldBrand, catalog.FieldModel},
		})
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	return jsonResult(list)
}

func (h *handlers) listBrands(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	brands, err := h.catalog.Brands(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("brands error: %v", err)), nil
	}
	return jsonResult(brands)
}

func (h *handlers) getWatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	w, err := h.catalog.Watch(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("watch %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("watch error: %v", err)), nil
	}
	return jsonResult(w)
}

func (h *handlers) listArt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.catalog.ArtPieces(ctx, usecase.ListQuery{
		Query: request.GetString("q", ""),
		Sort:  domain.ParseSortOption(request.GetString("sort", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("art error: %v", err)), nil
	}
	return jsonResult(list)
}
