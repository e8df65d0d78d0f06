package repository

import (
	"context"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// AdjustStock suma delta (negativo para reservar) al stock de forma atómica.
	// Devuelve domain.ErrQuantityMismatch si el resultado sería negativo y
	// domain.ErrProductNotFound si el producto no existe.
	AdjustStock(ctx context.Context, id string, delta int) error
}
