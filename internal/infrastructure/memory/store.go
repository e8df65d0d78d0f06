// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory y pruebas).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var _ order.TxRunner = (*Store)(nil)

type state struct {
	users     map[string]entity.User
	usernames map[string]string
	products  map[string]entity.Product
	orders    map[string]entity.Order
	lines     map[string]entity.OrderLine
}

func newState() *state {
	return &state{
		users:     make(map[string]entity.User),
		usernames: make(map[string]string),
		products:  make(map[string]entity.Product),
		orders:    make(map[string]entity.Order),
		lines:     make(map[string]entity.OrderLine),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.usernames {
		c.usernames[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.lines {
		c.lines[k] = v
	}
	return c
}

// Store guarda usuarios, productos, órdenes y líneas en mapas protegidos por mutex.
// Run serializa las transacciones y restaura una copia del estado si fn falla.
// Fuera de Run cada llamada es atómica por sí sola.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios sobre el almacén; si fn devuelve error el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(stores order.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(s.Stores()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Stores devuelve los repositorios del almacén.
func (s *Store) Stores() order.Stores {
	return order.Stores{
		Users:    s.Users(),
		Products: s.Products(),
		Orders:   s.Orders(),
		Lines:    s.Lines(),
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Orders repositorio de cabeceras de orden.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Lines repositorio de líneas de orden.
func (s *Store) Lines() *OrderLineRepo { return &OrderLineRepo{s: s} }

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
