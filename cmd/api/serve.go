package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Restobar-api/internal/application/catalog"
	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/internal/application/recipe"
	"github.com/jhoicas/Restobar-api/internal/application/sales"
	costs "github.com/jhoicas/Restobar-api/internal/domain/inventory"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/events"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/memory"
	"github.com/jhoicas/Restobar-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Restobar-api/internal/interfaces/http"
	"github.com/jhoicas/Restobar-api/pkg/config"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runMigrations, _ := cmd.Flags().GetBool("migrate")
			store, _ := cmd.Flags().GetString("store")
			return serve(cmd.Context(), runMigrations, store)
		},
	}
	cmd.Flags().Bool("migrate", false, "Aplica las migraciones antes de arrancar (solo postgres)")
	cmd.Flags().String("store", "", "Sobrescribe STORE_DRIVER (postgres | memory)")
	return cmd
}

func serve(ctx context.Context, runMigrations bool, storeOverride string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if storeOverride != "" {
		cfg.Ledger.StoreDriver = storeOverride
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.StoreDriver).
		Msg("iniciando aplicación")

	fallback, err := costs.ParseFallbackTable(cfg.Ledger.FallbackLocations, cfg.Ledger.DefaultLocation)
	if err != nil {
		return fmt.Errorf("tabla de ubicaciones por defecto: %w", err)
	}

	// Persistencia: el TxRunner entrega repos atados a la transacción; repos queda para lecturas.
	var (
		tx    inventory.TxRunner
		repos inventory.Repos
	)
	switch cfg.Ledger.StoreDriver {
	case "memory":
		mem := memory.NewSeeded().WithTxTimeout(cfg.Ledger.TxTimeout)
		tx, repos = mem, mem.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		if runMigrations {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log, false); err != nil {
				return fmt.Errorf("migraciones: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		runner, err := postgres.NewTxRunner(pool, cfg.Ledger.TxIsolation, cfg.Ledger.TxTimeout, log)
		if err != nil {
			return err
		}
		tx, repos = runner, postgres.NewRepos(pool)
	}

	var publisher sales.SaleEventPublisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.SaleTopic, log)
		if err != nil {
			return err
		}
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.SaleTopic).Msg("publicando eventos de venta en Kafka")
	}

	ledger := inventory.NewLedger(cfg.Ledger.CostScale, log)
	resolver := recipe.NewResolver(fallback)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); cfg.HTTP.SwaggerFile != "" && err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Restobar API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("documentación OpenAPI no disponible, /docs desactivado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory: httpRouter.InventoryUseCases{
			Receive:  inventory.NewReceiveStockUseCase(tx, ledger, log),
			Count:    inventory.NewCountUseCase(tx, ledger, log),
			Transfer: inventory.NewTransferUseCase(tx, ledger, log),
			Outbound: inventory.NewOutboundUseCase(tx, ledger, log),
			Cost:     inventory.NewCostOverrideUseCase(tx, ledger, log),
			Query:    inventory.NewQueryUseCase(repos),
		},
		Products:  catalog.NewProductUseCase(repos.Products),
		Locations: catalog.NewLocationUseCase(repos.Locations),
		Recipes:   catalog.NewRecipeUseCase(tx, repos, resolver),
		Orders:    sales.NewOrderUseCase(tx, repos, log),
		CloseSale: sales.NewCloseSaleUseCase(tx, ledger, resolver, publisher, log).WithPublishTimeout(cfg.Kafka.PublishTimeout),
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
