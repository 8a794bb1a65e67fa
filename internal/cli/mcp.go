package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phenrril/galeria/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP tool server over stdio",
	Long:  "Start the MCP tool server over stdio. Logs go to stderr; stdout carries the protocol.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), true)
		if err != nil {
			return err
		}
		defer a.Close()
		return mcp.Serve(a.CatalogUC, a.SearchUC)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
