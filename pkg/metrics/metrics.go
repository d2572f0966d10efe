// Package metrics expone las métricas Prometheus del API.
//
// Se registran en un Registry propio (no el global) para que los tests puedan
// crear instancias independientes:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(reg)))
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tienda"

// Metrics colectores del dominio.
type Metrics struct {
	checkoutSteps   *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	authFailures    *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New crea y registra los colectores en reg. Incluye los colectores de runtime de Go.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checkoutSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "steps_total",
			Help:      "Transiciones de estado del checkout (PENDING, CHARGED, ORDER_CREATED, COMPLETED, FAILED, CHARGE_UNKNOWN).",
		}, []string{"status"}),
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "charge_duration_seconds",
			Help:      "Latencia de las llamadas a la pasarela de pago.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"outcome"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Fallos de autenticación/autorización por código.",
		}, []string{"code"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		m.checkoutSteps, m.gatewayDuration, m.authFailures, m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone las métricas del gatherer en formato Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// CheckoutStep cuenta una transición del checkout. Seguro con receptor nil.
func (m *Metrics) CheckoutStep(status string) {
	if m == nil {
		return
	}
	m.checkoutSteps.WithLabelValues(status).Inc()
}

// ObserveCharge registra la latencia de un cobro con su resultado (ok, declined, error).
func (m *Metrics) ObserveCharge(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// AuthFailure cuenta un error de autenticación/autorización devuelto al cliente.
func (m *Metrics) AuthFailure(code string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(code).Inc()
}

// ObserveHTTP registra una petición HTTP terminada.
func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
