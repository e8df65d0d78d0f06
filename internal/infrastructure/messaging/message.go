// Package messaging publica los cambios de estado de órdenes (Kafka vía sarama o kafka-go, o log).
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// OrderMessage cuerpo JSON publicado: la orden completa con sus líneas.
type OrderMessage struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Products   []LineMessage   `json:"products"`
}

// LineMessage una línea dentro de OrderMessage.
type LineMessage struct {
	ID        string          `json:"id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Price     decimal.Decimal `json:"price"`
}

// NewOrderMessage arma el mensaje a partir de la orden.
func NewOrderMessage(o entity.Order) OrderMessage {
	lines := make([]LineMessage, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineMessage{ID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Price: l.Price})
	}
	return OrderMessage{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		Version:    o.Version,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Products:   lines,
	}
}

// Encode serializa la orden; la clave del mensaje es el id de la orden.
func Encode(o entity.Order) (key, value []byte, err error) {
	value, err = json.Marshal(NewOrderMessage(o))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal order message: %w", err)
	}
	return []byte(o.ID), value, nil
}
