package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appinventory "github.com/jhoicas/finca-api/internal/application/inventory"
	infrapdf "github.com/jhoicas/finca-api/internal/infrastructure/pdf"
	"github.com/jhoicas/finca-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/finca-api/internal/interfaces/http"
	"github.com/jhoicas/finca-api/pkg/config"
	"github.com/jhoicas/finca-api/pkg/logger"
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

	// Motor de ajustes: la única vía de mutación del stock. Cada lote corre en
	// una transacción propia vía TxRunner.
	txRunner := postgres.NewTxRunner(pool)
	resolver := appinventory.NewResolver()
	adjustUC := appinventory.NewAdjustStockUseCase(txRunner, resolver)

	// Lado de lectura: repos sobre el pool, fuera de transacción.
	itemRepo := postgres.NewInventoryItemRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	queryUC := appinventory.NewMovementQueryUseCase(movRepo, itemRepo)
	reportUC := appinventory.NewMovementReportUseCase(movRepo, infrapdf.NewMarotoReportGenerator())

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
		Title:    "Finca API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustStock:   adjustUC,
		MovementQuery: queryUC,
		Report:        reportUC,
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
