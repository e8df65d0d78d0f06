// Package storage abre el almacenamiento configurado (PostgreSQL o memoria).
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/memory"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ordenes-api/pkg/config"
)

// Backend repositorios y runner transaccional del driver elegido.
type Backend struct {
	Tx       order.TxRunner
	Users    repository.UserRepository
	Products repository.ProductRepository
	Driver   string

	ping  func(ctx context.Context) error
	close func()
}

// Ping comprueba la conexión (para /health).
func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

// Close libera el pool si lo hay.
func (b *Backend) Close() { b.close() }

// Open conecta según cfg.Storage.Driver. Con postgres y DB_AUTO_MIGRATE aplica el esquema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Backend{
			Tx:       store,
			Users:    store.Users(),
			Products: store.Products(),
			Driver:   config.StorageMemory,
			ping:     store.Ping,
			close:    func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("aplicar esquema: %w", err)
			}
			log.Info().Msg("esquema aplicado")
		}
		tx := postgres.NewTxRunner(pool)
		stores := postgres.NewStores(pool)
		return &Backend{
			Tx:       tx,
			Users:    stores.Users,
			Products: stores.Products,
			Driver:   config.StoragePostgres,
			ping:     tx.Ping,
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
	}
}
