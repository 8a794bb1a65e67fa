package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/galeria/internal/adapters/sheet"
	"github.com/phenrril/galeria/internal/domain"
	"github.com/phenrril/galeria/internal/usecase"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List watch brands with model counts",
	RunE:  runBrands,
}

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export the watch or art catalog to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file.xlsx]",
	Short: "Import watches from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and optionally seed sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetBool("seed")
		a, err := openApp(context.Background(), seed)
		if err != nil {
			return err
		}
		defer a.Close()
		log.Info().Bool("seed", seed).Msg("migrated")
		return nil
	},
}

func init() {
	brandsCmd.Flags().String("format", "table", "Output format: json, table")
	exportCmd.Flags().String("kind", "watches", "Catalog to export: watches, art")
	migrateCmd.Flags().Bool("seed", false, "Seed empty catalog collections with sample data")
	rootCmd.AddCommand(brandsCmd, exportCmd, importCmd, migrateCmd)
}

func runBrands(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	brands, err := a.CatalogUC.Brands(ctx)
	if err != nil {
		return fmt.Errorf("brands: %w", err)
	}
	format, _ := cmd.Flags().GetString("format")
	return printBrands(cmd.OutOrStdout(), brands, format)
}

func printBrands(w io.Writer, brands []domain.BrandSummary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(brands)
	}
	for i, b := range brands {
		noun := "models"
		if b.Models == 1 {
			noun = "model"
		}
		fmt.Fprintf(w, " %d. %s  (%d %s)\n", i+1, b.Name, b.Models, noun)
		if b.Image != "" {
			fmt.Fprintf(w, "    %s\n", b.Image)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	kind, _ := cmd.Flags().GetString("kind")
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	switch kind {
	case "watches":
		list, err := a.CatalogUC.Watches(ctx, usecase.ListQuery{})
		if err != nil {
			return err
		}
		if err := sheet.ExportWatches(f, list); err != nil {
			return err
		}
		log.Info().Int("rows", len(list)).Str("file", args[0]).Msg("exported watches")
	case "art":
		list, err := a.CatalogUC.ArtPieces(ctx, usecase.ListQuery{})
		if err != nil {
			return err
		}
		if err := sheet.ExportArt(f, list); err != nil {
			return err
		}
		log.Info().Int("rows", len(list)).Str("file", args[0]).Msg("exported art")
	default:
		return fmt.Errorf("unknown kind %q: use watches or art", kind)
	}
	return f.Close()
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	docs, err := sheet.ImportWatches(f)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.CatalogUC.ImportWatches(ctx, docs)
	log.Info().Int("created", res.Created).Int("updated", res.Updated).Str("file", args[0]).Msg("imported")
	return err
}
