package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var _ order.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada notificación como una línea de log. Se usa sin brokers configurados.
type LogNotifier struct {
	topic string
	log   zerolog.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(topic string, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{topic: topic, log: log}
}

// NotifyStatusChange registra la orden serializada.
func (n *LogNotifier) NotifyStatusChange(_ context.Context, o entity.Order) error {
	key, value, err := Encode(o)
	if err != nil {
		return err
	}
	n.log.Info().
		Str("topic", n.topic).
		Bytes("key", key).
		RawJSON("payload", value).
		Msg("orden publicada")
	return nil
}

// Close no libera nada.
func (n *LogNotifier) Close() error { return nil }
