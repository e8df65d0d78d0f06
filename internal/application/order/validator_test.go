package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado (tabla completa)
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckStatusTransition(t *testing.T) {
	pending, processing, completed := entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusCompleted
	cases := []struct {
		current, next entity.OrderStatus
		ok            bool
	}{
		{pending, pending, false},
		{pending, processing, true},
		{pending, completed, false},
		{processing, pending, false},
		{processing, processing, false},
		{processing, completed, true},
		{completed, pending, false},
		{completed, processing, false},
		{completed, completed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.current)+"->"+string(tc.next), func(t *testing.T) {
			err := order.CheckStatusTransition(tc.current, tc.next)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
			assert.True(t, domain.IsBusinessRule(err))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Nueva orden
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateNewOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := order.NewValidator(f.store.Stores())

	cases := []struct {
		name   string
		userID string
		lines  []order.LineInput
		want   error
	}{
		{"válida", userID, []order.LineInput{{ProductID: shirtID, Quantity: 10}}, nil},
		{"usuario inexistente", "ghost", []order.LineInput{{ProductID: shirtID, Quantity: 1}}, domain.ErrUserNotFound},
		{"producto inexistente", userID, []order.LineInput{{ProductID: "ghost", Quantity: 1}}, domain.ErrProductNotFound},
		{"cantidad cero", userID, []order.LineInput{{ProductID: shirtID, Quantity: 0}}, domain.ErrQuantityMismatch},
		{"cantidad negativa", userID, []order.LineInput{{ProductID: shirtID, Quantity: -1}}, domain.ErrQuantityMismatch},
		{"supera stock", userID, []order.LineInput{{ProductID: shirtID, Quantity: 11}}, domain.ErrQuantityMismatch},
		{"sin líneas", userID, nil, domain.ErrInvalidInput},
		{"producto repetido", userID, []order.LineInput{{ProductID: shirtID, Quantity: 1}, {ProductID: shirtID, Quantity: 1}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateNewOrder(ctx, tc.userID, tc.lines)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Modificación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateOrderUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.uc.AddOrder(ctx, userID, []order.LineInput{{ProductID: shirtID, Quantity: 3}})
	require.NoError(t, err)
	v := order.NewValidator(f.store.Stores())

	t.Run("versión distinta es NotFound", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, created.ID, userID, created.Version+1,
			[]order.LineInput{{ProductID: shirtID, Quantity: 4}})
		assert.ErrorIs(t, err, domain.ErrVersionMismatch)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("usuario que no es dueño", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, created.ID, otherUserID, created.Version,
			[]order.LineInput{{ProductID: shirtID, Quantity: 4}})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("aumento dentro del stock restante", func(t *testing.T) {
		// quedan 7: pasar de 3 a 10 pide 7 más
		_, err := v.ValidateOrderUpdate(ctx, created.ID, userID, created.Version,
			[]order.LineInput{{ProductID: shirtID, Quantity: 10}})
		assert.NoError(t, err)
	})

	t.Run("aumento que supera el stock restante", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, created.ID, userID, created.Version,
			[]order.LineInput{{ProductID: shirtID, Quantity: 11}})
		assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
	})

	t.Run("producto nuevo que supera el stock", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, created.ID, userID, created.Version,
			[]order.LineInput{{ProductID: shoeID, Quantity: 3}})
		assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
	})

	t.Run("cantidad negativa", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, created.ID, userID, created.Version,
			[]order.LineInput{{ProductID: shirtID, Quantity: -1}})
		assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
	})

	t.Run("orden inexistente", func(t *testing.T) {
		_, err := v.ValidateOrderUpdate(ctx, "ghost", userID, 0,
			[]order.LineInput{{ProductID: shirtID, Quantity: 1}})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestValidateOrderUpdate_SoloEnPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.uc.AddOrder(ctx, userID, []order.LineInput{{ProductID: shirtID, Quantity: 1}})
	require.NoError(t, err)
	processing, err := f.uc.UpdateOrderStatus(ctx, created.ID, entity.OrderStatusProcessing)
	require.NoError(t, err)

	_, err = order.NewValidator(f.store.Stores()).ValidateOrderUpdate(ctx, created.ID, userID, processing.Version,
		[]order.LineInput{{ProductID: shirtID, Quantity: 2}})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestValidateDeletable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.uc.AddOrder(ctx, userID, []order.LineInput{{ProductID: shirtID, Quantity: 1}})
	require.NoError(t, err)
	v := order.NewValidator(f.store.Stores())

	_, err = v.ValidateDeletable(ctx, created.ID)
	assert.NoError(t, err)

	_, err = f.uc.UpdateOrderStatus(ctx, created.ID, entity.OrderStatusProcessing)
	require.NoError(t, err)
	_, err = v.ValidateDeletable(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotDeletable)
	assert.True(t, domain.IsBusinessRule(err))

	_, err = v.ValidateDeletable(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
