package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

var _ repository.OrderLineRepository = (*OrderLineRepo)(nil)

const lineColumns = `id, order_id, product_id, quantity, unit_price, price, created_at`

// OrderLineRepo implementación de OrderLineRepository sobre PostgreSQL.
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

// Create persiste la línea. (order_id, product_id) es único.
func (r *OrderLineRepo) Create(ctx context.Context, l *entity.OrderLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_lines (`+lineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Price, l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: orden %s o producto %s", domain.ErrNotFound, l.OrderID, l.ProductID)
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// Update actualiza cantidad y precio de la línea.
func (r *OrderLineRepo) Update(ctx context.Context, l *entity.OrderLine) error {
	cmd, err := r.q.Exec(ctx, `UPDATE order_lines SET quantity = $2, price = $3 WHERE id = $1`,
		l.ID, l.Quantity, l.Price)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.ID)
	}
	return nil
}

// GetByOrderAndProduct devuelve (nil, nil) si la orden no tiene línea para el producto.
func (r *OrderLineRepo) GetByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.OrderLine, error) {
	if !validID(orderID) || !validID(productID) {
		return nil, nil
	}
	var l entity.OrderLine
	err := r.q.QueryRow(ctx, `
		SELECT `+lineColumns+` FROM order_lines
		WHERE order_id = $1 AND product_id = $2`, orderID, productID).Scan(
		&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Price, &l.CreatedAt,
	)
	if err != nil {
		if noRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order line: %w", err)
	}
	return &l, nil
}

// ListByOrder lista las líneas de la orden por fecha de creación.
func (r *OrderLineRepo) ListByOrder(ctx context.Context, orderID string) ([]entity.OrderLine, error) {
	if !validID(orderID) {
		return []entity.OrderLine{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+lineColumns+` FROM order_lines
		WHERE order_id = $1 ORDER BY created_at, product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	list := []entity.OrderLine{}
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Price, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Delete elimina la línea.
func (r *OrderLineRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	return nil
}
