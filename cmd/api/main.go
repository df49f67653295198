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
	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/cache"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/memory"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/recepcion-api/internal/interfaces/http"
	"github.com/jhoicas/recepcion-api/pkg/config"
	"github.com/jhoicas/recepcion-api/pkg/jwt"
	"github.com/jhoicas/recepcion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Receiving.StorageDriver).
		Str("sequence", cfg.Receiving.SequenceDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	m := metrics.New()

	var (
		txRunner receiving.TxRunner
		deps     readRepos
	)
	switch cfg.Receiving.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		txRunner = store
		deps = readRepos{po: store.PurchaseOrders(), grn: store.GoodsReceipts(), warehouse: store.Warehouses()}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		deps = readRepos{
			po:        postgres.NewPurchaseOrderRepository(pool),
			grn:       postgres.NewGoodsReceiptRepository(pool),
			warehouse: postgres.NewWarehouseRepository(pool),
		}
	}

	var numbers receiving.NumberGenerator = receiving.NewSequenceNumbers(cfg.Receiving.GRNPrefix)
	if cfg.Receiving.SequenceDriver == config.SequenceDriverRedis {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		numbers = cache.NewRedisSequenceNumbers(client, cfg.Receiving.GRNPrefix)
	}

	goodsReceiptUC := receiving.NewGoodsReceiptUseCase(
		txRunner, deps.po, deps.grn, deps.warehouse, numbers,
		log.Component("receiving"),
		receiving.WithRecorder(m),
	)

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
		Title:    "Recepción de mercancía API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	verifier, err := jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET requerido")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		GoodsReceiptUC: goodsReceiptUC,
		JWT:            verifier,
		Logger:         log,
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
