package http

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/application/cart"
	"github.com/jhoicas/jugueteria-api/internal/application/usecase"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
	"github.com/jhoicas/jugueteria-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	CartUC    *cart.CartUseCase
	Sessions  repository.SessionRepository
	Cookie    SessionCookie
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
	PublicDir string // vacío: no se sirven archivos estáticos
}

// Router registra las rutas del sitio y de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Component("http")

	app.Use(SessionMiddleware(deps.Sessions, deps.Cookie, log))

	// Auth (formularios del sitio)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, deps.Metrics, log)
	app.Post("/register-process", authHandler.Register)
	app.Post("/login-process", authHandler.Login)
	app.Get("/logout", authHandler.Logout)
	app.Get("/usuario", authHandler.Me)

	api := app.Group("/api")

	// Catálogo (público) y alta (admin)
	productHandler := NewProductHandler(deps.ProductUC, log)
	api.Get("/productos", productHandler.List)
	api.Post("/admin/agregar-producto", RequireAuth(auth.RequireAdmin), productHandler.Create)

	// Carrito (requiere sesión)
	carrito := api.Group("/carrito", RequireAuth(auth.RequireSession))
	cartHandler := NewCartHandler(deps.CartUC, deps.Metrics, log)
	carrito.Get("/", cartHandler.View)
	carrito.Post("/agregar", cartHandler.Add)
	carrito.Post("/eliminar", cartHandler.Remove)
	carrito.Post("/vaciar", cartHandler.Clear)
	carrito.Get("/cotizacion", cartHandler.Quote)

	if deps.PublicDir != "" {
		inicio := filepath.Join(deps.PublicDir, "Inicio.html")
		app.Get("/", func(c *fiber.Ctx) error {
			if _, err := os.Stat(inicio); err != nil {
				return fiber.ErrNotFound
			}
			return c.SendFile(inicio)
		})
		app.Static("/", deps.PublicDir)
	}
}
