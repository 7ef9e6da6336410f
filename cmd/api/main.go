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

	"github.com/jhoicas/medidor-api/internal/application/measure"
	infraai "github.com/jhoicas/medidor-api/internal/infrastructure/ai"
	"github.com/jhoicas/medidor-api/internal/infrastructure/postgres"
	"github.com/jhoicas/medidor-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/medidor-api/internal/interfaces/http"
	"github.com/jhoicas/medidor-api/pkg/config"
	"github.com/jhoicas/medidor-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	imageStore, err := storage.NewLocalImageStore(cfg.Storage.ImageDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de imágenes")
	}

	measureRepo := postgres.NewMeasureRepository(pool)
	visionSvc := infraai.NewGeminiVisionService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	measureUC := measure.NewUseCase(measureRepo, visionSvc, imageStore, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    16 * 1024 * 1024, // imágenes en base64 dentro del JSON
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Medidor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MeasureHandler: httpRouter.NewMeasureHandler(measureUC, log),
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
