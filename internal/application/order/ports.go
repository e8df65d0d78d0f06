package order

import (
	"context"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

// Stores agrupa los repositorios atados a una misma transacción.
type Stores struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Lines    repository.OrderLineRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error no queda ningún cambio persistido (stock incluido).
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}

// Notifier publica el estado de una orden cuando entra en un estado relevante para despacho.
// Es fire-and-forget: el caso de uso registra el error pero no lo propaga.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, order entity.Order) error
}

// Recorder recibe los eventos del caso de uso para métricas.
type Recorder interface {
	OrderCreated()
	OrderDeleted()
	StatusChanged(status entity.OrderStatus)
	NotificationSent(err error)
}

// LineInput producto y cantidad pedidos en una creación o modificación.
type LineInput struct {
	ProductID string
	Quantity  int
}

type noopRecorder struct{}

func (noopRecorder) OrderCreated()                    {}
func (noopRecorder) OrderDeleted()                    {}
func (noopRecorder) StatusChanged(entity.OrderStatus) {}
func (noopRecorder) NotificationSent(error)           {}

type noopNotifier struct{}

func (noopNotifier) NotifyStatusChange(context.Context, entity.Order) error { return nil }
