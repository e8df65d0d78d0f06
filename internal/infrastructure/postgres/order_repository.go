package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, status, total_price, version, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.UserID, string(o.Status), o.TotalPrice, o.Version, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: id %s", domain.ErrUserNotFound, o.UserID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de la orden; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	var o entity.Order
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &status, &o.TotalPrice, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// List lista todas las órdenes por fecha de creación, sin líneas.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := []*entity.Order{}
	for rows.Next() {
		var o entity.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &status, &o.TotalPrice, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Update compara y reemplaza sobre version; en éxito deja order.Version con el valor nuevo.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	var version int64
	err := r.q.QueryRow(ctx, `
		UPDATE orders SET status = $3, total_price = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`,
		o.ID, o.Version, string(o.Status), o.TotalPrice, o.UpdatedAt,
	).Scan(&version)
	if err == nil {
		o.Version = version
		return nil
	}
	if !noRow(err) {
		return fmt.Errorf("update order: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, o.ID)
	}
	return fmt.Errorf("%w: versión %d", domain.ErrVersionMismatch, o.Version)
}

// Delete elimina la orden (las líneas se borran antes desde el caso de uso).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	return nil
}
