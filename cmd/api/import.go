package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restobar-api/pkg/config"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-products [archivo.csv]",
		Short: "Carga el catálogo de productos desde un CSV (columnas sku, name, category, unit, price, min_quantity, type).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			charset, _ := cmd.Flags().GetString("charset")
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			importer := catalog.NewProductImporter(catalog.NewProductUseCase(postgres.NewProductRepository(pool)))
			res, err := importer.Import(cmd.Context(), f, charset)
			if err != nil {
				return err
			}
			for _, fl := range res.Failures {
				log.Warn().Int("line", fl.Line).Str("sku", fl.SKU).Str("reason", fl.Reason).Msg("línea rechazada")
			}
			log.Info().
				Int("created", res.Created).
				Int("skipped", res.Skipped).
				Int("failed", len(res.Failures)).
				Msg("importación de productos terminada")
			return nil
		},
	}
	cmd.Flags().String("charset", "utf-8", "Codificación del archivo: utf-8, latin1, windows-1252")
	return cmd
}
