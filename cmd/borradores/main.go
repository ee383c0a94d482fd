// borradores sirve la edición de borradores de factura: catálogo por borrador,
// líneas con totales recalculados y envío a la API de facturación.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-simulada/internal/application/drafting"
	"github.com/jhoicas/facturacion-simulada/internal/application/session"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/cache"
	"github.com/jhoicas/facturacion-simulada/internal/infrastructure/catalogapi"
	httpRouter "github.com/jhoicas/facturacion-simulada/internal/interfaces/http"
	"github.com/jhoicas/facturacion-simulada/pkg/config"
	"github.com/jhoicas/facturacion-simulada/pkg/logger"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "borradores",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("catalog_api", cfg.Catalog.BaseURL).
		Str("cache", cfg.Catalog.CacheDriver).
		Msg("iniciando servicio de borradores")

	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	var snapshots drafting.SnapshotCache
	switch cfg.Catalog.CacheDriver {
	case cache.DriverRedis:
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log.Component("cache"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		snapshots = rdb
	default:
		snapshots = cache.NewMemory()
	}

	api := catalogapi.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log.Component("catalogapi"))
	sources := func(token string) drafting.CatalogSource { return api.WithToken(token) }

	svc := drafting.NewService(
		drafting.NewStore(),
		drafting.NewLoader(snapshots, cfg.Catalog.TTL, log.Component("catalog")),
		drafting.NewDebouncer(cfg.Catalog.Debounce),
		sources,
		cfg.Catalog.PageSize,
		log.Component("drafts"),
	)
	sessions := session.NewManager(log.Component("session"))
	sessions.OnTeardown(svc.DropSession)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-borradores",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Catalog.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "borradores", "sessions": sessions.Len()})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.DraftRouter(app, httpRouter.DraftRouterDeps{
		Sessions:  sessions,
		Drafts:    svc,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.Drafts.Addr()); err != nil {
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

	log.Info().Msg("servicio detenido")
}
