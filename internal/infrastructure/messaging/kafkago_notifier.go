package messaging

import (
	"context"
	"fmt"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var _ order.Notifier = (*KafkaGoNotifier)(nil)

// MessageWriter lo que el notificador usa del writer instrumentado de otel-kafka-konsumer.
type MessageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaGoNotifier publica con segmentio/kafka-go; el contexto de traza viaja en los headers.
type KafkaGoNotifier struct {
	writer MessageWriter
	topic  string
	log    zerolog.Logger
}

// NewKafkaGoNotifier crea el writer instrumentado contra brokers.
func NewKafkaGoNotifier(brokers []string, topic string, tp trace.TracerProvider, log zerolog.Logger) (*KafkaGoNotifier, error) {
	base := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
	}
	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			semconv.MessagingDestinationNameKey.String(topic),
			attribute.String("messaging.kafka.client_id", "ordenes-api"),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("crear writer kafka: %w", err)
	}
	return NewKafkaGoNotifierWithWriter(writer, topic, log), nil
}

// NewKafkaGoNotifierWithWriter usa un writer ya creado.
func NewKafkaGoNotifierWithWriter(w MessageWriter, topic string, log zerolog.Logger) *KafkaGoNotifier {
	return &KafkaGoNotifier{writer: w, topic: topic, log: log}
}

// NotifyStatusChange escribe la orden serializada con el id como clave.
func (n *KafkaGoNotifier) NotifyStatusChange(ctx context.Context, o entity.Order) error {
	key, value, err := Encode(o)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "order-status", Value: []byte(o.Status)},
		},
	}
	if err := n.writer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("escribir orden %s en %s: %w", o.ID, n.topic, err)
	}
	n.log.Debug().Str("topic", n.topic).Str("order_id", o.ID).Msg("orden publicada en kafka")
	return nil
}

// Close cierra el writer.
func (n *KafkaGoNotifier) Close() error {
	return n.writer.Close()
}
