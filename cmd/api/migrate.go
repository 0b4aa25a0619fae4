package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Restobar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Restobar-api/pkg/config"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de PostgreSQL embebidas en el binario.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log, verbose); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Muestra cada migración aplicada")
	return cmd
}
