package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// Validator decide si una mutación pedida es aceptable sobre el estado actual del almacén.
// Nunca modifica datos; cada rechazo es un error de dominio tipado.
type Validator struct {
	s Stores
}

// NewValidator construye el validador sobre los repositorios de la transacción en curso.
func NewValidator(s Stores) *Validator {
	return &Validator{s: s}
}

// ValidateNewOrder rechaza si el usuario no existe, si algún producto no existe,
// si alguna cantidad es menor que 1 o si supera el stock actual del producto.
func (v *Validator) ValidateNewOrder(ctx context.Context, userID string, lines []LineInput) error {
	if err := v.validateUser(ctx, userID); err != nil {
		return err
	}
	if err := checkLines(lines); err != nil {
		return err
	}
	for _, in := range lines {
		product, err := v.product(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.Quantity < 1 {
			return fmt.Errorf("%w: la cantidad %d debe ser positiva para el producto %s",
				domain.ErrQuantityMismatch, in.Quantity, in.ProductID)
		}
		if in.Quantity > product.Quantity {
			return fmt.Errorf("%w: no se pueden suministrar %d unidades del producto %s, solo hay %d disponibles",
				domain.ErrQuantityMismatch, in.Quantity, in.ProductID, product.Quantity)
		}
	}
	return nil
}

// ValidateOrderExists devuelve la orden o domain.ErrOrderNotFound.
func (v *Validator) ValidateOrderExists(ctx context.Context, id string) (*entity.Order, error) {
	o, err := v.s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	return o, nil
}

// lockedOrder es ValidateOrderExists para las mutaciones: la fila queda reservada hasta el commit.
func (v *Validator) lockedOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := v.s.Orders.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	return o, nil
}

// ValidateStatusTransition comprueba que la orden exista y que pueda pasar a next.
func (v *Validator) ValidateStatusTransition(ctx context.Context, id string, next entity.OrderStatus) (*entity.Order, error) {
	o, err := v.lockedOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckStatusTransition(o.Status, next); err != nil {
		return nil, err
	}
	return o, nil
}

// CheckStatusTransition aplica las reglas de avance de estado:
// nunca se vuelve a PENDING, PROCESSING exige PENDING y COMPLETED exige PROCESSING.
func CheckStatusTransition(current, next entity.OrderStatus) error {
	switch next {
	case entity.OrderStatusPending:
		return fmt.Errorf("%w: el estado no puede volver a %s", domain.ErrInvalidStatusTransition, entity.OrderStatusPending)
	case entity.OrderStatusProcessing:
		if current != entity.OrderStatusPending {
			return fmt.Errorf("%w: una orden en %s no puede pasar a %s", domain.ErrInvalidStatusTransition, current, next)
		}
	case entity.OrderStatusCompleted:
		if current != entity.OrderStatusProcessing {
			return fmt.Errorf("%w: una orden en %s no puede pasar a %s", domain.ErrInvalidStatusTransition, current, next)
		}
	}
	return nil
}

// ValidateDeletable solo acepta órdenes en PENDING.
func (v *Validator) ValidateDeletable(ctx context.Context, id string) (*entity.Order, error) {
	o, err := v.lockedOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusPending {
		return nil, fmt.Errorf("%w: solo se eliminan órdenes en %s, la orden %s está en %s",
			domain.ErrOrderNotDeletable, entity.OrderStatusPending, id, o.Status)
	}
	return o, nil
}

// ValidateOrderUpdate valida una modificación: la orden existe, la versión coincide,
// el usuario existe y es el dueño, la orden sigue en PENDING y cada línea cabe en el stock.
// Para una línea existente solo cuenta el aumento (nuevo - anterior) frente al stock restante.
func (v *Validator) ValidateOrderUpdate(ctx context.Context, id, userID string, version int64, lines []LineInput) (*entity.Order, error) {
	o, err := v.lockedOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Version != version {
		return nil, fmt.Errorf("%w: versión enviada %d, versión actual %d", domain.ErrVersionMismatch, version, o.Version)
	}
	if err := v.validateUser(ctx, userID); err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("%w: el usuario %s no es dueño de la orden %s", domain.ErrUserNotFound, userID, id)
	}
	if o.Status != entity.OrderStatusPending {
		return nil, fmt.Errorf("%w: la orden no se puede modificar en estado %s", domain.ErrInvalidStatusTransition, o.Status)
	}
	if err := checkLines(lines); err != nil {
		return nil, err
	}
	for _, in := range lines {
		product, err := v.product(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if in.Quantity < 0 {
			return nil, fmt.Errorf("%w: la cantidad %d debe ser positiva para el producto %s",
				domain.ErrQuantityMismatch, in.Quantity, in.ProductID)
		}
		existing, err := v.s.Lines.GetByOrderAndProduct(ctx, o.ID, in.ProductID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if diff := in.Quantity - existing.Quantity; diff > product.Quantity {
				return nil, fmt.Errorf("%w: no se pueden entregar %d unidades más del producto %s",
					domain.ErrQuantityMismatch, diff, in.ProductID)
			}
			continue
		}
		if in.Quantity > product.Quantity {
			return nil, fmt.Errorf("%w: no se pueden suministrar %d unidades del producto %s",
				domain.ErrQuantityMismatch, in.Quantity, in.ProductID)
		}
	}
	return o, nil
}

func (v *Validator) validateUser(ctx context.Context, userID string) error {
	u, err := v.s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: id %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

func (v *Validator) product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := v.s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: id %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

// checkLines exige al menos una línea y un producto por línea.
func checkLines(lines []LineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos un producto", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(lines))
	for _, in := range lines {
		if in.ProductID == "" {
			return fmt.Errorf("%w: id de producto requerido", domain.ErrInvalidInput)
		}
		if _, dup := seen[in.ProductID]; dup {
			return fmt.Errorf("%w: producto %s repetido en la solicitud", domain.ErrInvalidInput, in.ProductID)
		}
		seen[in.ProductID] = struct{}{}
	}
	return nil
}
