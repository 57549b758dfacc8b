package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated  prometheus.Counter
	Transitions    *prometheus.CounterVec
	PickerLogins   *prometheus.CounterVec
	ScanRejections *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	QueueDepth     prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "safepick_orders_created_total",
			Help: "Withdrawal orders issued with a picker credential",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safepick_order_transitions_total",
			Help: "Applied order status transitions by target status",
		}, []string{"to"}),
		PickerLogins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safepick_picker_logins_total",
			Help: "Picker authentication attempts by outcome",
		}, []string{"outcome"}),
		ScanRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safepick_scan_rejections_total",
			Help: "Rejected scan tokens by reason",
		}, []string{"reason"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "safepick_notifications_total",
			Help: "Notification deliveries by kind, channel and outcome",
		}, []string{"kind", "channel", "outcome"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "safepick_notification_queue_depth",
			Help: "Notifications waiting for a worker",
		}),
	}
}

// IncrementOrdersCreated counts a newly issued order.
func (m *Metrics) IncrementOrdersCreated() {
	m.OrdersCreated.Inc()
}

// ObserveTransition counts an applied transition into status.
func (m *Metrics) ObserveTransition(status string) {
	m.Transitions.WithLabelValues(status).Inc()
}

// ObservePickerLogin counts a picker authentication attempt.
func (m *Metrics) ObservePickerLogin(outcome string) {
	m.PickerLogins.WithLabelValues(outcome).Inc()
}

// ObserveScanRejection counts a rejected scan.
func (m *Metrics) ObserveScanRejection(reason string) {
	m.ScanRejections.WithLabelValues(reason).Inc()
}

// ObserveNotification counts a delivery attempt.
func (m *Metrics) ObserveNotification(kind, channel, outcome string) {
	m.Notifications.WithLabelValues(kind, channel, outcome).Inc()
}

// SetQueueDepth reports the pending notification count.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
