// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ordenes-api/internal/application/order"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
)

var _ order.Recorder = (*Metrics)(nil)

// Metrics contadores de órdenes y latencia HTTP sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	ordersCreated     prometheus.Counter
	ordersDeleted     prometheus.Counter
	statusTransitions *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registra los collectors. Incluye los de proceso y runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordenes_orders_created_total",
			Help: "Órdenes creadas",
		}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordenes_orders_deleted_total",
			Help: "Órdenes eliminadas",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordenes_order_status_transitions_total",
			Help: "Cambios de estado confirmados por estado destino",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordenes_notifications_total",
			Help: "Notificaciones publicadas por resultado",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordenes_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersCreated,
		m.ordersDeleted,
		m.statusTransitions,
		m.notifications,
		m.httpDuration,
	)
	return m
}

// OrderCreated cuenta una orden creada.
func (m *Metrics) OrderCreated() { m.ordersCreated.Inc() }

// OrderDeleted cuenta una orden eliminada.
func (m *Metrics) OrderDeleted() { m.ordersDeleted.Inc() }

// StatusChanged cuenta un cambio de estado confirmado.
func (m *Metrics) StatusChanged(status entity.OrderStatus) {
	m.statusTransitions.WithLabelValues(string(status)).Inc()
}

// NotificationSent cuenta una notificación por resultado (ok | error).
func (m *Metrics) NotificationSent(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notifications.WithLabelValues(result).Inc()
}

// ObserveHTTP registra la duración de una petición. route es el patrón, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposición para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso al registry (pruebas).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
