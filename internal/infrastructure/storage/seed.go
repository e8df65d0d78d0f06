package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ordenes-api/internal/application/auth"
	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

// SeedData usuarios y productos a insertar.
type SeedData struct {
	Users    []SeedUser    `json:"users"`
	Products []SeedProduct `json:"products"`
}

// SeedUser usuario con contraseña en claro (se guarda con bcrypt).
type SeedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SeedProduct producto del catálogo con su stock inicial.
type SeedProduct struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// DemoData catálogo de ejemplo con ids fijos.
func DemoData() SeedData {
	return SeedData{
		Users: []SeedUser{
			{ID: "3f1c9a52-6b1e-4a8e-9a51-0c2d7e9b1a01", Name: "Ana Pérez", Username: "ana", Password: "ana12345"},
			{ID: "3f1c9a52-6b1e-4a8e-9a51-0c2d7e9b1a02", Name: "Luis Gómez", Username: "luis", Password: "luis12345"},
		},
		Products: []SeedProduct{
			{ID: "8d0f6b3e-2c4a-4f7e-b1d2-5a9c3e7f2b01", Type: entity.ProductTypeShirt, Name: "Camisa Oxford", UnitPrice: decimal.RequireFromString("29.90"), Quantity: 50},
			{ID: "8d0f6b3e-2c4a-4f7e-b1d2-5a9c3e7f2b02", Type: entity.ProductTypeTrouser, Name: "Pantalón Chino", UnitPrice: decimal.RequireFromString("45.00"), Quantity: 30},
			{ID: "8d0f6b3e-2c4a-4f7e-b1d2-5a9c3e7f2b03", Type: entity.ProductTypeShoe, Name: "Zapato Derby", UnitPrice: decimal.RequireFromString("89.50"), Quantity: 12},
			{ID: "8d0f6b3e-2c4a-4f7e-b1d2-5a9c3e7f2b04", Type: entity.ProductTypeAccessory, Name: "Cinturón de cuero", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 40},
		},
	}
}

// ReadSeedData decodifica un SeedData en JSON.
func ReadSeedData(r io.Reader) (SeedData, error) {
	var d SeedData
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return SeedData{}, fmt.Errorf("leer datos de seed: %w", err)
	}
	return d, nil
}

// Seed inserta en una transacción los usuarios (si el username no existe) y los productos (si el id no existe).
// Devuelve cuántos de cada uno se crearon.
func Seed(ctx context.Context, tx order.TxRunner, data SeedData, log zerolog.Logger) (users, products int, err error) {
	err = tx.Run(ctx, func(s order.Stores) error {
		users, products = 0, 0
		now := time.Now()
		for _, u := range data.Users {
			existing, err := s.Users.GetByUsername(ctx, u.Username)
			if err != nil {
				return err
			}
			if existing != nil {
				log.Debug().Str("username", u.Username).Msg("usuario ya existe")
				continue
			}
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return err
			}
			id := u.ID
			if id == "" {
				id = uuid.NewString()
			}
			if err := s.Users.Create(ctx, &entity.User{
				ID: id, Name: u.Name, Username: u.Username, PasswordHash: hash, CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("usuario %s: %w", u.Username, err)
			}
			users++
		}
		for _, p := range data.Products {
			if p.Quantity < 0 {
				return fmt.Errorf("producto %s: stock negativo", p.Name)
			}
			id := p.ID
			if id == "" {
				id = uuid.NewString()
			} else if existing, err := s.Products.GetByID(ctx, id); err != nil {
				return err
			} else if existing != nil {
				continue
			}
			if err := s.Products.Create(ctx, &entity.Product{
				ID: id, Type: p.Type, Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity,
				CreatedAt: now, UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("producto %s: %w", p.Name, err)
			}
			products++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	log.Info().Int("users", users).Int("products", products).Msg("seed aplicado")
	return users, products, nil
}
