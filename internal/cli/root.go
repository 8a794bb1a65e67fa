package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phenrril/galeria/internal/app"
	"github.com/phenrril/galeria/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "galeria",
	Short:        "Galeria - watch & fine-art catalog service",
	Long:         "Catalog API, MCP tool server and back-office tooling for the watch and fine-art storefront.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("dsn", "", "Postgres DSN (default: DB_DSN / DB_* env, empty for in-memory)")
	rootCmd.PersistentFlags().String("env", "", "Application environment: development, production")
	rootCmd.PersistentFlags().StringSlice("brand-priority", nil, "Featured brands, in order")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("dsn"); v != "" {
		cfg.DSN = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("env"); v != "" {
		cfg.AppEnv = v
	}
	if v, _ := rootCmd.PersistentFlags().GetStringSlice("brand-priority"); len(v) > 0 {
		cfg.BrandPriority = v
	}
}

// openApp builds the application and prepares its store.
func openApp(ctx context.Context, seed bool) (*app.App, error) {
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create app: %w", err)
	}
	if err := a.MigrateAndSeed(ctx, seed); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}
