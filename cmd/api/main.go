package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/application/cart"
	"github.com/jhoicas/jugueteria-api/internal/application/usecase"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
	inframemcache "github.com/jhoicas/jugueteria-api/internal/infrastructure/memcache"
	"github.com/jhoicas/jugueteria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/jugueteria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/jugueteria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/jugueteria-api/internal/interfaces/http"
	"github.com/jhoicas/jugueteria-api/pkg/config"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
	"github.com/jhoicas/jugueteria-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: os.Getenv("LOG_LEVEL"),
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("session_store", cfg.Session.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	var sessions repository.SessionRepository
	switch cfg.Session.Store {
	case config.SessionStoreMemcache:
		addrs := strings.Split(cfg.Session.MemcacheAddr, ",")
		client := memcache.New(addrs...)
		if err := client.Ping(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Session.MemcacheAddr).Msg("conexión a Memcached")
		}
		sessions = inframemcache.NewSessionStore(client)
	case config.SessionStoreMemory:
		store := memory.NewSessionStore(10000)
		defer store.Stop()
		sessions = store
	default:
		store := postgres.NewSessionRepository(pool)
		go purgeSessions(ctx, store, log.Component("session"))
		sessions = store
	}

	m := metrics.New("jugueteria")

	authUC := auth.NewAuthUseCase(userRepo, sessions, auth.Config{
		SessionTTL: cfg.Session.TTL,
		BcryptCost: cfg.App.BcryptCost,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	cartUC := cart.NewCartUseCase(productRepo, sessions, infrapdf.NewMarotoQuoteGenerator("Juguetería"))
	cartUC.SetObserver(m)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		// Los DTOs y las sesiones guardan strings del body más allá del handler;
		// sin Immutable fasthttp reutiliza esos buffers en la siguiente petición.
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsFile,
			Path:     "docs",
			Title:    "Jugueteria API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		CartUC:    cartUC,
		Sessions:  sessions,
		Cookie: httpRouter.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secret: cfg.Session.Secret,
			Issuer: cfg.App.Name,
			Secure: cfg.Session.Secure,
		},
		Metrics:   m,
		Logger:    log,
		PublicDir: cfg.App.PublicDir,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeSessions borra las sesiones vencidas al arrancar y luego cada hora.
func purgeSessions(ctx context.Context, store *postgres.SessionRepo, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := store.PurgeExpired(ctx)
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("purga de sesiones vencidas")
		} else if n > 0 {
			log.Info().Int64("deleted", n).Msg("sesiones vencidas eliminadas")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
