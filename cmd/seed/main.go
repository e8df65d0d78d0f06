// seed inserta usuarios (contraseña con bcrypt) y productos en el almacenamiento configurado.
// Es idempotente: omite usuarios cuyo username ya existe y productos cuyo id ya existe.
//
// Uso: go run ./cmd/seed [ruta/seed.json]
// Sin argumento usa el catálogo de ejemplo.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/ordenes-api/internal/infrastructure/storage"
	"github.com/jhoicas/ordenes-api/pkg/config"
	"github.com/jhoicas/ordenes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})
	if err := run(cfg, log, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("seed fallido")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger, args []string) error {
	data := storage.DemoData()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("abrir archivo de seed %s: %w", args[0], err)
		}
		data, err = storage.ReadSeedData(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("leer archivo de seed: %w", err)
		}
	}

	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: el seed no persiste al terminar el proceso")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		return fmt.Errorf("abrir almacenamiento: %w", err)
	}
	defer backend.Close()

	_, _, err = storage.Seed(ctx, backend.Tx, data, log.Zerolog())
	return err
}
