package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Schema         graphql.Schema
	Identity       *auth.IdentityResolver
	OrderUC        *usecase.OrderUseCase
	Cookie         config.CookieConfig
	AllowedOrigins []string
	Log            zerolog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // nil = sin /metrics
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log, deps.Metrics))
	if len(deps.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(deps.AllowedOrigins, ","),
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(deps.Gatherer)))
	}

	// A partir de aquí cada petición lleva su Principal (anónimo si no hay sesión).
	app.Use(IdentityMiddleware(deps.Identity))

	gqlHandler := NewGraphQLHandler(deps.Schema, deps.Cookie)
	app.Post("/graphql", gqlHandler.Post)
	app.Get("/graphql", gqlHandler.Get)

	api := app.Group("/api")
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/:id/receipt", orderHandler.Receipt)
}
