package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// OrderProductRequest un producto pedido dentro de una orden.
type OrderProductRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required,min=0"`
}

// CreateOrderRequest cuerpo de POST /orders.
type CreateOrderRequest struct {
	UserID   string                `json:"userId" validate:"required"`
	Products []OrderProductRequest `json:"products" validate:"required,min=1,dive"`
}

// UpdateOrderRequest cuerpo de PUT /orders/{id}. Version debe ser la versión leída.
type UpdateOrderRequest struct {
	UserID   string                `json:"userId" validate:"required"`
	Version  *int64                `json:"version" validate:"required,min=0"`
	Products []OrderProductRequest `json:"products" validate:"required,min=1,dive"`
}

// LineInputs convierte los productos pedidos en entradas del caso de uso.
func LineInputs(products []OrderProductRequest) []order.LineInput {
	out := make([]order.LineInput, 0, len(products))
	for _, p := range products {
		qty := 0
		if p.Quantity != nil {
			qty = *p.Quantity
		}
		out = append(out, order.LineInput{ProductID: p.ID, Quantity: qty})
	}
	return out
}

// OrderLineResponse una línea de la orden.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Price     decimal.Decimal `json:"price"`
}

// OrderSummaryResponse vista resumen de GET /orders (sin productos).
type OrderSummaryResponse struct {
	ID         string             `json:"id"`
	Version    int64              `json:"version"`
	Status     entity.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

// OrderResponse vista detallada con productos.
type OrderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	Version    int64               `json:"version"`
	Status     entity.OrderStatus  `json:"status"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Products   []OrderLineResponse `json:"products"`
}

// NewOrderSummary convierte la orden en su vista resumen.
func NewOrderSummary(o *entity.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:         o.ID,
		Version:    o.Version,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
	}
}

// NewOrderResponse convierte la orden y sus líneas en la vista detallada.
func NewOrderResponse(o *entity.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:        l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Price:     l.Price,
		})
	}
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Version:    o.Version,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Products:   lines,
	}
}
