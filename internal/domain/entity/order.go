package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de una orden.
type OrderStatus string

// Estados válidos. El avance es PENDING -> PROCESSING -> COMPLETED; PENDING no se recupera.
const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// ParseOrderStatus convierte un texto (sin distinguir mayúsculas) en OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted:
		return status, nil
	}
	return "", fmt.Errorf("estado de orden desconocido: %q", s)
}

// NotifiesFulfillment indica si entrar en este estado debe publicar un mensaje.
func (s OrderStatus) NotifiesFulfillment() bool {
	return s == OrderStatusProcessing || s == OrderStatusCompleted
}

// Order agrega el estado de una orden de compra. TotalPrice es siempre la suma de Lines[].Price.
// Version se incrementa en cada escritura persistida (bloqueo optimista).
type Order struct {
	ID         string
	UserID     string
	Status     OrderStatus
	TotalPrice decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Lines      []OrderLine
}

// OrderLine una línea producto/cantidad de la orden con el precio capturado al crearla.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
	CreatedAt time.Time
}

// LinePrice calcula precio unitario × cantidad.
func LinePrice(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// TotalOf suma los precios de las líneas.
func TotalOf(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price)
	}
	return total
}
