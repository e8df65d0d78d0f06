package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto del catálogo.
const (
	ProductTypeShirt     = "SHIRT"
	ProductTypeTrouser   = "TROUSER"
	ProductTypeShoe      = "SHOE"
	ProductTypeAccessory = "ACCESSORY"
)

// Product representa un producto del catálogo con su stock disponible.
// Quantity solo cambia al crear, modificar o eliminar órdenes y nunca es negativo.
type Product struct {
	ID        string
	Type      string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
