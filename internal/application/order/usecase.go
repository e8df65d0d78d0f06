package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var tracer = otel.Tracer("github.com/jhoicas/ordenes-api/internal/application/order")

// notifyTimeout acota cada publicación; corre fuera de la solicitud que la originó.
const notifyTimeout = 10 * time.Second

// UseCase orquesta validador, repositorios y notificador para cada operación sobre órdenes.
// Cada operación corre en una sola transacción: validación y escritura ven el mismo estado.
type UseCase struct {
	tx       TxRunner
	notifier Notifier
	metrics  Recorder
	log      zerolog.Logger
	inflight sync.WaitGroup
}

// NewUseCase construye el caso de uso. notifier y metrics pueden ser nil.
func NewUseCase(tx TxRunner, notifier Notifier, metrics Recorder, log zerolog.Logger) *UseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &UseCase{
		tx:       tx,
		notifier: notifier,
		metrics:  metrics,
		log:      log.With().Str("component", "order").Logger(),
	}
}

// AddOrder crea una orden PENDING, captura el precio unitario de cada línea y descuenta el stock.
func (uc *UseCase) AddOrder(ctx context.Context, userID string, lines []LineInput) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "order.AddOrder", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	uc.log.Info().Str("user_id", userID).Int("lines", len(lines)).Msg("validando nueva orden")
	var created *entity.Order
	err := uc.tx.Run(ctx, func(s Stores) error {
		if err := NewValidator(s).ValidateNewOrder(ctx, userID, lines); err != nil {
			return err
		}
		now := time.Now()
		o := &entity.Order{
			ID:        uuid.New().String(),
			UserID:    userID,
			Status:    entity.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, in := range lines {
			line, err := reserveLine(ctx, s, o.ID, in, now)
			if err != nil {
				return err
			}
			o.Lines = append(o.Lines, *line)
		}
		o.TotalPrice = entity.TotalOf(o.Lines)

		if err := s.Orders.Create(ctx, o); err != nil {
			return err
		}
		for i := range o.Lines {
			if err := s.Lines.Create(ctx, &o.Lines[i]); err != nil {
				return err
			}
		}
		created = o
		return nil
	})
	if err != nil {
		uc.reject(span, err, "orden rechazada")
		return nil, err
	}
	uc.metrics.OrderCreated()
	uc.log.Info().Str("order_id", created.ID).Str("total", created.TotalPrice.String()).Msg("orden creada")
	return created, nil
}

// GetOrders devuelve todas las órdenes sin sus líneas (vista resumen).
func (uc *UseCase) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "order.GetOrders")
	defer span.End()

	var list []*entity.Order
	err := uc.tx.Run(ctx, func(s Stores) error {
		var err error
		list, err = s.Orders.List(ctx)
		return err
	})
	if err != nil {
		uc.reject(span, err, "listado de órdenes fallido")
		return nil, err
	}
	return list, nil
}

// GetOrder devuelve la orden con sus líneas o domain.ErrOrderNotFound.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "order.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	var found *entity.Order
	err := uc.tx.Run(ctx, func(s Stores) error {
		o, err := NewValidator(s).ValidateOrderExists(ctx, id)
		if err != nil {
			return err
		}
		if o.Lines, err = s.Lines.ListByOrder(ctx, id); err != nil {
			return err
		}
		found = o
		return nil
	})
	if err != nil {
		uc.reject(span, err, "consulta de orden fallida")
		return nil, err
	}
	return found, nil
}

// UpdateOrder aplica una modificación parcial: solo se tocan las líneas presentes en la solicitud.
// Una línea existente con otra cantidad recalcula su precio y ajusta el stock por la diferencia;
// un producto nuevo crea línea y descuenta stock. El total se recalcula con todas las líneas.
func (uc *UseCase) UpdateOrder(ctx context.Context, id, userID string, version int64, lines []LineInput) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrder", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.Int64("order.version", version),
	))
	defer span.End()

	uc.log.Info().Str("order_id", id).Int64("version", version).Msg("validando modificación de orden")
	var updated *entity.Order
	err := uc.tx.Run(ctx, func(s Stores) error {
		o, err := NewValidator(s).ValidateOrderUpdate(ctx, id, userID, version, lines)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, in := range lines {
			existing, err := s.Lines.GetByOrderAndProduct(ctx, o.ID, in.ProductID)
			if err != nil {
				return err
			}
			if existing != nil {
				diff := in.Quantity - existing.Quantity
				if diff == 0 {
					continue
				}
				if err := s.Products.AdjustStock(ctx, in.ProductID, -diff); err != nil {
					return err
				}
				existing.Quantity = in.Quantity
				existing.Price = entity.LinePrice(existing.UnitPrice, in.Quantity)
				if err := s.Lines.Update(ctx, existing); err != nil {
					return err
				}
				continue
			}
			if in.Quantity == 0 {
				continue
			}
			line, err := reserveLine(ctx, s, o.ID, in, now)
			if err != nil {
				return err
			}
			if err := s.Lines.Create(ctx, line); err != nil {
				return err
			}
		}

		if o.Lines, err = s.Lines.ListByOrder(ctx, o.ID); err != nil {
			return err
		}
		o.TotalPrice = entity.TotalOf(o.Lines)
		o.UpdatedAt = now
		if err := s.Orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		uc.reject(span, err, "modificación de orden rechazada")
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Int64("version", updated.Version).Msg("orden modificada")
	return updated, nil
}

// DeleteOrder elimina una orden PENDING con sus líneas y devuelve cada cantidad al stock.
func (uc *UseCase) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "order.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	uc.log.Info().Str("order_id", id).Msg("validando eliminación de orden")
	err := uc.tx.Run(ctx, func(s Stores) error {
		v := NewValidator(s)
		if _, err := v.ValidateOrderExists(ctx, id); err != nil {
			return err
		}
		if _, err := v.ValidateDeletable(ctx, id); err != nil {
			return err
		}
		lines, err := s.Lines.ListByOrder(ctx, id)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := s.Products.AdjustStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
			if err := s.Lines.Delete(ctx, l.ID); err != nil {
				return err
			}
		}
		return s.Orders.Delete(ctx, id)
	})
	if err != nil {
		uc.reject(span, err, "eliminación de orden rechazada")
		return err
	}
	uc.metrics.OrderDeleted()
	uc.log.Info().Str("order_id", id).Msg("orden eliminada")
	return nil
}

// UpdateOrderStatus avanza el estado de la orden. Al entrar en PROCESSING o COMPLETED
// publica la orden completa por el notificador, después del commit y sin esperar al broker.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, id string, next entity.OrderStatus) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(next)),
	))
	defer span.End()

	uc.log.Info().Str("order_id", id).Str("status", string(next)).Msg("validando cambio de estado")
	var updated *entity.Order
	err := uc.tx.Run(ctx, func(s Stores) error {
		v := NewValidator(s)
		if _, err := v.ValidateOrderExists(ctx, id); err != nil {
			return err
		}
		o, err := v.ValidateStatusTransition(ctx, id, next)
		if err != nil {
			return err
		}
		o.Status = next
		o.UpdatedAt = time.Now()
		if err := s.Orders.Update(ctx, o); err != nil {
			return err
		}
		if o.Lines, err = s.Lines.ListByOrder(ctx, id); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		uc.reject(span, err, "cambio de estado rechazado")
		return nil, err
	}
	uc.metrics.StatusChanged(next)

	if next.NotifiesFulfillment() {
		uc.log.Info().Str("order_id", id).Str("status", string(next)).Msg("publicando orden con estado actualizado")
		uc.notify(ctx, *updated)
	}
	return updated, nil
}

// notify publica en segundo plano. El contexto conserva la traza pero no la cancelación
// de la solicitud.
func (uc *UseCase) notify(ctx context.Context, o entity.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		defer cancel()
		err := uc.notifier.NotifyStatusChange(ctx, o)
		uc.metrics.NotificationSent(err)
		if err != nil {
			uc.log.Error().Err(err).Str("order_id", o.ID).Msg("no se pudo publicar la orden")
		}
	}()
}

// Wait bloquea hasta que terminen las publicaciones en curso. Se llama antes de cerrar el notificador.
func (uc *UseCase) Wait() {
	uc.inflight.Wait()
}

func (uc *UseCase) reject(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.log.Warn().Err(err).Msg(msg)
}

// reserveLine descuenta el stock del producto y arma la línea con el precio unitario actual.
func reserveLine(ctx context.Context, s Stores, orderID string, in LineInput, now time.Time) (*entity.OrderLine, error) {
	product, err := s.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.Products.AdjustStock(ctx, in.ProductID, -in.Quantity); err != nil {
		return nil, err
	}
	return &entity.OrderLine{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: product.UnitPrice,
		Price:     entity.LinePrice(product.UnitPrice, in.Quantity),
		CreatedAt: now,
	}, nil
}
