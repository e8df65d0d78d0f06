package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, s *memory.Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, Type: entity.ProductTypeShirt, Name: "Camisa " + id,
		UnitPrice: decimal.RequireFromString("5.00"), Quantity: qty, CreatedAt: time.Now(),
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_DescuentaYDevuelve(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	require.NoError(t, s.Products().AdjustStock(ctx, "p1", -3))
	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantity)

	require.NoError(t, s.Products().AdjustStock(ctx, "p1", 3))
	p, _ = s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 10, p.Quantity)
}

func TestAdjustStock_NoPermiteNegativo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 2)

	err := s.Products().AdjustStock(ctx, "p1", -3)
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 2, p.Quantity, "el stock no debe cambiar")

	err = s.Products().AdjustStock(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductList_Pagina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "a", 1)
	seedProduct(t, s, "b", 1)
	seedProduct(t, s, "c", 1)

	list, err := s.Products().List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)

	list, err = s.Products().List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes y versión optimista
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderUpdate_IncrementaVersion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	o := &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending, CreatedAt: time.Now()}
	require.NoError(t, s.Orders().Create(ctx, o))

	o.Status = entity.OrderStatusProcessing
	require.NoError(t, s.Orders().Update(ctx, o))
	assert.Equal(t, int64(1), o.Version)

	stored, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, entity.OrderStatusProcessing, stored.Status)
}

func TestOrderGetByIDForUpdate_MismaLecturaQueGetByID(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending, CreatedAt: time.Now()}))

	locked, err := s.Orders().GetByIDForUpdate(ctx, "o1")
	require.NoError(t, err)
	plain, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, plain, locked)

	missing, err := s.Orders().GetByIDForUpdate(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderUpdate_VersionDesactualizada(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: "o1", Status: entity.OrderStatusPending}))

	stale := &entity.Order{ID: "o1", Status: entity.OrderStatusPending, Version: 3}
	err := s.Orders().Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrVersionMismatch)
	assert.True(t, domain.IsNotFound(err))
}

func TestOrderLine_UnaLineaPorProducto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: "o1"}))

	require.NoError(t, s.Lines().Create(ctx, &entity.OrderLine{ID: "l1", OrderID: "o1", ProductID: "p1", Quantity: 1}))
	err := s.Lines().Create(ctx, &entity.OrderLine{ID: "l2", OrderID: "o1", ProductID: "p1", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Lines().Create(ctx, &entity.OrderLine{ID: "l3", OrderID: "missing", ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	found, err := s.Lines().GetByOrderAndProduct(ctx, "o1", "p1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "l1", found.ID)

	missing, err := s.Lines().GetByOrderAndProduct(ctx, "o1", "p2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_RestauraEstadoSiFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(st order.Stores) error {
		require.NoError(t, st.Products.AdjustStock(ctx, "p1", -4))
		require.NoError(t, st.Orders.Create(ctx, &entity.Order{ID: "o1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 10, p.Quantity, "el stock debe volver al valor previo")
	o, _ := s.Orders().GetByID(ctx, "o1")
	assert.Nil(t, o, "la orden no debe quedar persistida")
}

func TestRun_ConfirmaSiTermina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", 10)

	err := s.Run(ctx, func(st order.Stores) error {
		return st.Products.AdjustStock(ctx, "p1", -4)
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 6, p.Quantity)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := memory.NewStore().Run(ctx, func(order.Stores) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
