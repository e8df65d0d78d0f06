package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// Create guarda el producto.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.products[product.ID] = *product
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List pagina los productos ordenados por nombre. limit <= 0 devuelve todos.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	if offset > 0 {
		if offset >= len(list) {
			return []*entity.Product{}, nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// AdjustStock suma delta al stock si el resultado no queda negativo.
func (r *ProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.st.products[id]
	if !ok {
		return fmt.Errorf("%w: id %s", domain.ErrProductNotFound, id)
	}
	if p.Quantity+delta < 0 {
		return fmt.Errorf("%w: stock insuficiente para el producto %s (%d disponibles)",
			domain.ErrQuantityMismatch, id, p.Quantity)
	}
	p.Quantity += delta
	p.UpdatedAt = time.Now()
	r.s.st.products[id] = p
	return nil
}
