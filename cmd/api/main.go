package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/ordenes-api/internal/application/auth"
	"github.com/jhoicas/ordenes-api/internal/application/catalog"
	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/messaging"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/ordenes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/storage"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/tracing"
	httpRouter "github.com/jhoicas/ordenes-api/internal/interfaces/http"
	"github.com/jhoicas/ordenes-api/pkg/config"
	"github.com/jhoicas/ordenes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run arma las dependencias y sirve hasta recibir SIGINT o SIGTERM.
// Los defers liberan lo abierto también cuando el arranque falla a mitad de camino.
func run(cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("notifier", cfg.Notifier.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tp, shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("configurar tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error().Err(err).Msg("apagado del tracing")
		}
	}()

	backend, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		return fmt.Errorf("abrir almacenamiento: %w", err)
	}
	defer backend.Close()

	// En memoria el catálogo arranca vacío: se carga el de ejemplo.
	if backend.Driver == config.StorageMemory {
		if _, _, err := storage.Seed(ctx, backend.Tx, storage.DemoData(), log.Component("seed")); err != nil {
			return fmt.Errorf("seed en memoria: %w", err)
		}
	}

	notifier, err := messaging.New(cfg.Notifier, tp, log.Zerolog())
	if err != nil {
		return fmt.Errorf("crear notificador: %w", err)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar notificador")
		}
	}()

	m := metrics.New()
	orderUC := order.NewUseCase(backend.Tx, notifier, m, log.Zerolog())
	// publicaciones en curso antes de cerrar el notificador
	defer orderUC.Wait()
	productUC := catalog.NewProductUseCase(backend.Products)
	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		SwaggerFile:    cfg.HTTP.SwaggerFile,
		Log:            log.Component("http"),
		Observer:       m,
		TracerProvider: tp,
	}, httpRouter.RouterDeps{
		OrderUC:      orderUC,
		ProductUC:    productUC,
		AuthUC:       authUC,
		Receipts:     infrapdf.NewMarotoReceiptGenerator(cfg.App.Name),
		Storage:      backend,
		Metrics:      m.Handler(),
		JWTSecret:    cfg.JWT.Secret,
		AuthRequired: cfg.JWT.Required,
		ServiceName:  cfg.App.Name,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
