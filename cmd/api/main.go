package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tu-usuario/labstock-api/internal/application/batch"
	"github.com/tu-usuario/labstock-api/internal/application/catalog"
	"github.com/tu-usuario/labstock-api/internal/application/fulfillment"
	"github.com/tu-usuario/labstock-api/internal/application/inventory"
	"github.com/tu-usuario/labstock-api/internal/application/resources"
	"github.com/tu-usuario/labstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/labstock-api/internal/interfaces/http"
	"github.com/tu-usuario/labstock-api/pkg/config"
	"github.com/tu-usuario/labstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (solo lecturas); las escrituras pasan por el TxRunner.
	catalogRepo := postgres.NewCatalogItemRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	resourceRepo := postgres.NewResourceRepository(pool)
	stockRepo := postgres.NewStockRecordRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	noteRepo := postgres.NewDeliveryNoteRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := inventory.NewConsumptionResolver(catalogRepo, bomRepo, resourceRepo, stockRepo)
	catalogUC := catalog.NewUseCase(txRunner, catalogRepo, bomRepo, resourceRepo, stockRepo, log)
	resourceUC := resources.NewUseCase(txRunner, resourceRepo, stockRepo, log)
	fulfillmentUC := fulfillment.NewUseCase(txRunner, resolver, noteRepo, log)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, catalogRepo, stockRepo, movRepo)
	lowStockUC := inventory.NewLowStockUseCase(stockRepo)
	batchUC := batch.NewUseCase(txRunner, batchRepo, log)

	// Reconciliación al arrancar: repara historiales de lote que quedaron sin
	// vigente o con varios tras una caída.
	repaired, err := batchUC.Reconcile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliación de lotes")
	}
	if repaired > 0 {
		log.Warn().Int("materials", repaired).Msg("historiales de lote reparados al arrancar")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LabStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:     catalogUC,
		ResourceUC:    resourceUC,
		FulfillmentUC: fulfillmentUC,
		AdjustUC:      adjustUC,
		LowStockUC:    lowStockUC,
		BatchUC:       batchUC,
		JWTSecret:     cfg.JWT.Secret,
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
}
