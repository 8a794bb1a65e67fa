// Package mcp exposes the catalog as MCP tools so assistants can browse
// watches and art.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/phenrril/galeria/internal/usecase"
)

const (
	serverName    = "galeria"
	serverVersion = "1.0.0"
)

// NewServer builds the MCP server with all tools registered.
func NewServer(cat *usecase.CatalogUC, search *usecase.SearchUC) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, &handlers{catalog: cat, search: search})
	return s
}

// Serve runs the stdio transport until stdin closes.
func Serve(cat *usecase.CatalogUC, search *usecase.SearchUC) error {
	return server.ServeStdio(NewServer(cat, search))
}
