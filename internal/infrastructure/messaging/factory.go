package messaging

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/pkg/config"
)

// Notifier notificador con cierre.
type Notifier interface {
	order.Notifier
	Close() error
}

// New elige el driver según la configuración.
func New(cfg config.NotifierConfig, tp trace.TracerProvider, log zerolog.Logger) (Notifier, error) {
	log = log.With().Str("component", "notifier").Str("driver", cfg.Driver).Logger()
	switch cfg.Driver {
	case config.NotifierSarama:
		return NewSaramaNotifier(cfg.Brokers, cfg.Topic, log)
	case config.NotifierKafkaGo:
		return NewKafkaGoNotifier(cfg.Brokers, cfg.Topic, tp, log)
	case config.NotifierLog, "":
		return NewLogNotifier(cfg.Topic, log), nil
	default:
		return nil, fmt.Errorf("notificador desconocido %q", cfg.Driver)
	}
}
