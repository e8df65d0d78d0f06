package order

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// Receipt datos necesarios para el comprobante de una orden.
type Receipt struct {
	Order    *entity.Order
	User     *entity.User
	Products map[string]*entity.Product
}

// ProductName nombre del producto de la línea, o su id si ya no está en el catálogo.
func (r Receipt) ProductName(productID string) string {
	if p, ok := r.Products[productID]; ok && p != nil {
		return p.Name
	}
	return productID
}

// ReceiptRenderer genera el documento del comprobante (PDF).
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, r Receipt) ([]byte, error)
}

// GetReceipt carga la orden con sus líneas, el dueño y los productos referenciados.
func (uc *UseCase) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "order.GetReceipt", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	var out *Receipt
	err := uc.tx.Run(ctx, func(s Stores) error {
		o, err := NewValidator(s).ValidateOrderExists(ctx, id)
		if err != nil {
			return err
		}
		if o.Lines, err = s.Lines.ListByOrder(ctx, id); err != nil {
			return err
		}
		user, err := s.Users.GetByID(ctx, o.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: id %s", domain.ErrUserNotFound, o.UserID)
		}
		products := make(map[string]*entity.Product, len(o.Lines))
		for _, l := range o.Lines {
			p, err := s.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			products[l.ProductID] = p
		}
		out = &Receipt{Order: o, User: user, Products: products}
		return nil
	})
	if err != nil {
		uc.reject(span, err, "comprobante de orden fallido")
		return nil, err
	}
	return out, nil
}
