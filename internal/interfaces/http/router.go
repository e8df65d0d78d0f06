package http

import (
	"context"
	nethttp "net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/ordenes-api/internal/application/auth"
	"github.com/jhoicas/ordenes-api/internal/application/catalog"
	"github.com/jhoicas/ordenes-api/internal/application/order"
)

// Pinger comprueba el almacenamiento para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC      *order.UseCase
	ProductUC    *catalog.ProductUseCase
	AuthUC       *auth.AuthUseCase
	Receipts     order.ReceiptRenderer
	Storage      Pinger
	Metrics      nethttp.Handler // exposición /metrics; nil la desactiva
	JWTSecret    string
	AuthRequired bool
	ServiceName  string
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name           string
	SwaggerFile    string
	Log            zerolog.Logger
	Observer       HTTPObserver
	TracerProvider trace.TracerProvider
}

// NewApp construye la aplicación fiber con middlewares, swagger y rutas.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	tp := cfg.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	app.Use(requestid.New())
	app.Use(RequestLogger(cfg.Log, cfg.Observer))
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(Tracing(tp))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Ordenes API",
			}))
		} else {
			cfg.Log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	Router(app, deps)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "ruta no encontrada: "+c.Method()+" "+c.Path())
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Storage != nil {
			if err := deps.Storage.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "down", "service": deps.ServiceName, "error": err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/auth/login", authHandler.Login)

	// Products (público, solo lectura)
	products := app.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Orders (Bearer Token si AUTH_REQUIRED)
	var orders fiber.Router = app.Group("/orders")
	if deps.AuthRequired {
		orders = app.Group("/orders", AuthMiddleware(deps.JWTSecret))
	}
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Receipts)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	orders.Put("/:id/status/:status", orderHandler.UpdateStatus)
	orders.Get("/:id/receipt", orderHandler.Receipt)
}
