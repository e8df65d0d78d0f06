package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.OrderLineRepository = (*OrderLineRepo)(nil)
)

// OrderRepo implementación en memoria de OrderRepository. Guarda la cabecera sin líneas.
type OrderRepo struct {
	s *Store
}

// Create guarda una orden nueva.
func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	stored := *order
	stored.Lines = nil
	r.s.st.orders[order.ID] = stored
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetByIDForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todas las órdenes por fecha de creación.
func (r *OrderRepo) List(_ context.Context) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]*entity.Order, 0, len(r.s.st.orders))
	for _, o := range r.s.st.orders {
		o := o
		list = append(list, &o)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Update sobrescribe la orden si la versión coincide e incrementa order.Version.
func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.st.orders[order.ID]
	if !ok {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, order.ID)
	}
	if current.Version != order.Version {
		return fmt.Errorf("%w: versión %d, actual %d", domain.ErrVersionMismatch, order.Version, current.Version)
	}
	order.Version++
	stored := *order
	stored.Lines = nil
	stored.CreatedAt = current.CreatedAt
	r.s.st.orders[order.ID] = stored
	return nil
}

// Delete elimina la orden.
func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.orders[id]; !ok {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	delete(r.s.st.orders, id)
	return nil
}

// OrderLineRepo implementación en memoria de OrderLineRepository.
type OrderLineRepo struct {
	s *Store
}

// Create guarda la línea; la orden debe existir y no puede haber otra línea del mismo producto.
func (r *OrderLineRepo) Create(_ context.Context, line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.orders[line.OrderID]; !ok {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, line.OrderID)
	}
	for _, l := range r.s.st.lines {
		if l.ID == line.ID || (l.OrderID == line.OrderID && l.ProductID == line.ProductID) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.lines[line.ID] = *line
	return nil
}

// Update sobrescribe cantidad y precio de la línea.
func (r *OrderLineRepo) Update(_ context.Context, line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.st.lines[line.ID]
	if !ok {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, line.ID)
	}
	current.Quantity = line.Quantity
	current.Price = line.Price
	r.s.st.lines[line.ID] = current
	return nil
}

// GetByOrderAndProduct devuelve (nil, nil) si la orden no tiene línea para el producto.
func (r *OrderLineRepo) GetByOrderAndProduct(_ context.Context, orderID, productID string) (*entity.OrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, l := range r.s.st.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

// ListByOrder devuelve las líneas de la orden por fecha de creación.
func (r *OrderLineRepo) ListByOrder(_ context.Context, orderID string) ([]entity.OrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := []entity.OrderLine{}
	for _, l := range r.s.st.lines {
		if l.OrderID == orderID {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ProductID < list[j].ProductID
	})
	return list, nil
}

// Delete elimina la línea.
func (r *OrderLineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.lines[id]; !ok {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, id)
	}
	delete(r.s.st.lines, id)
	return nil
}
