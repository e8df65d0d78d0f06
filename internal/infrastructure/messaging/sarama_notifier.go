package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var _ order.Notifier = (*SaramaNotifier)(nil)

// SaramaNotifier publica en Kafka con un SyncProducer de sarama.
type SaramaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewSaramaNotifier crea el producer contra brokers.
func NewSaramaNotifier(brokers []string, topic string, log zerolog.Logger) (*SaramaNotifier, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "ordenes-api"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 0 // sin reintentos
	cfg.Producer.Timeout = 5 * time.Second
	cfg.Producer.Idempotent = false

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("crear producer kafka: %w", err)
	}
	return NewSaramaNotifierWithProducer(producer, topic, log), nil
}

// NewSaramaNotifierWithProducer usa un producer ya creado (pruebas con sarama/mocks).
func NewSaramaNotifierWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *SaramaNotifier {
	return &SaramaNotifier{producer: producer, topic: topic, log: log}
}

// NotifyStatusChange envía la orden serializada con el id como clave.
func (n *SaramaNotifier) NotifyStatusChange(_ context.Context, o entity.Order) error {
	key, value, err := Encode(o)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic:     n.topic,
		Key:       sarama.ByteEncoder(key),
		Value:     sarama.ByteEncoder(value),
		Timestamp: time.Now(),
	}
	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("enviar orden %s a %s: %w", o.ID, n.topic, err)
	}
	n.log.Debug().
		Str("topic", n.topic).
		Str("order_id", o.ID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("orden publicada en kafka")
	return nil
}

// Close cierra el producer.
func (n *SaramaNotifier) Close() error {
	if err := n.producer.Close(); err != nil {
		return fmt.Errorf("cerrar producer kafka: %w", err)
	}
	return nil
}
