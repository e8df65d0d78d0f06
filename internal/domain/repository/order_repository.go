package repository

import (
	"context"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para la cabecera de Order.
// Las líneas se guardan aparte con OrderLineRepository; GetByID y List no las cargan.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDForUpdate lee la orden y la reserva para modificarla dentro de la transacción en curso.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	// Update persiste la orden solo si la versión almacenada coincide con order.Version
	// y la incrementa en order; si no coincide devuelve domain.ErrVersionMismatch.
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
}

// OrderLineRepository define el puerto de persistencia para OrderLine.
// Como máximo existe una línea por (orden, producto).
type OrderLineRepository interface {
	Create(ctx context.Context, line *entity.OrderLine) error
	Update(ctx context.Context, line *entity.OrderLine) error
	GetByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.OrderLine, error)
	ListByOrder(ctx context.Context, orderID string) ([]entity.OrderLine, error)
	Delete(ctx context.Context, id string) error
}
