//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ordenes"),
		tcpostgres.WithUsername("ordenes"),
		tcpostgres.WithPassword("ordenes"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	require.NoError(t, postgres.EnsureSchema(ctx, pool), "el esquema debe ser idempotente")
	return pool
}

type seeded struct {
	userID, productID string
}

func seed(t *testing.T, pool *pgxpool.Pool, stock int) seeded {
	t.Helper()
	ctx := context.Background()
	s := postgres.NewStores(pool)
	now := time.Now()
	out := seeded{userID: uuid.NewString(), productID: uuid.NewString()}
	require.NoError(t, s.Users.Create(ctx, &entity.User{
		ID: out.userID, Name: "Ana", Username: "ana-" + out.userID[:8], PasswordHash: "x", CreatedAt: now,
	}))
	require.NoError(t, s.Products.Create(ctx, &entity.Product{
		ID: out.productID, Type: entity.ProductTypeShirt, Name: "Camisa",
		UnitPrice: decimal.RequireFromString("5.00"), Quantity: stock, CreatedAt: now, UpdatedAt: now,
	}))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_CicloDeOrden(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	ids := seed(t, pool, 10)
	stores := postgres.NewStores(pool)
	uc := order.NewUseCase(postgres.NewTxRunner(pool), nil, nil, zerolog.Nop())

	o, err := uc.AddOrder(ctx, ids.userID, []order.LineInput{{ProductID: ids.productID, Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("15.00")))

	p, err := stores.Products.GetByID(ctx, ids.productID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantity)

	updated, err := uc.UpdateOrder(ctx, o.ID, ids.userID, o.Version, []order.LineInput{{ProductID: ids.productID, Quantity: 5}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("25.00")))

	_, err = uc.UpdateOrder(ctx, o.ID, ids.userID, o.Version, []order.LineInput{{ProductID: ids.productID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrVersionMismatch)

	require.NoError(t, uc.DeleteOrder(ctx, o.ID))
	p, err = stores.Products.GetByID(ctx, ids.productID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)
}

func TestPostgres_StockInsuficienteHaceRollback(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	ids := seed(t, pool, 2)
	stores := postgres.NewStores(pool)

	err := postgres.NewTxRunner(pool).Run(ctx, func(s order.Stores) error {
		require.NoError(t, s.Products.AdjustStock(ctx, ids.productID, -1))
		return s.Products.AdjustStock(ctx, ids.productID, -5)
	})
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)

	p, err := stores.Products.GetByID(ctx, ids.productID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Quantity)

	err = stores.Products.AdjustStock(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPostgres_IdNoUUIDEsNoEncontrado(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	stores := postgres.NewStores(pool)

	o, err := stores.Orders.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, o)

	uc := order.NewUseCase(postgres.NewTxRunner(pool), nil, nil, zerolog.Nop())
	_, err = uc.GetOrder(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestPostgres_LineaDuplicada(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	ids := seed(t, pool, 5)
	stores := postgres.NewStores(pool)

	o := &entity.Order{ID: uuid.NewString(), UserID: ids.userID, Status: entity.OrderStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, stores.Orders.Create(ctx, o))
	line := entity.OrderLine{ID: uuid.NewString(), OrderID: o.ID, ProductID: ids.productID, Quantity: 1,
		UnitPrice: decimal.NewFromInt(5), Price: decimal.NewFromInt(5), CreatedAt: time.Now()}
	require.NoError(t, stores.Lines.Create(ctx, &line))

	line.ID = uuid.NewString()
	assert.ErrorIs(t, stores.Lines.Create(ctx, &line), domain.ErrDuplicate)
}

func TestPostgres_GetByIDSoloBloqueaEnModificaciones(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	ids := seed(t, pool, 5)

	o := &entity.Order{ID: uuid.NewString(), UserID: ids.userID, Status: entity.OrderStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, postgres.NewStores(pool).Orders.Create(ctx, o))

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	locked, err := postgres.NewStores(holder).Orders.GetByIDForUpdate(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, locked)

	// una lectura simple no espera al bloqueo
	readCtx, cancelRead := context.WithTimeout(ctx, 2*time.Second)
	defer cancelRead()
	plain, err := postgres.NewStores(pool).Orders.GetByID(readCtx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, plain.ID)

	// otra reserva sí espera hasta el fin de la transacción que la tiene
	other, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = other.Rollback(ctx) }()
	lockCtx, cancelLock := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancelLock()
	_, err = postgres.NewStores(other).Orders.GetByIDForUpdate(lockCtx, o.ID)
	assert.Error(t, err)
}
