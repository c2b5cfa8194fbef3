// Package metrics содержит метрики Prometheus сервиса отпусков.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vacation"

// Исходы операций жизненного цикла.
const (
	OutcomeSuccess = "ok"
)

// Metrics - набор метрик на собственном реестре.
// Методы безопасно вызывать у nil, тогда ничего не записывается.
type Metrics struct {
	registry          *prometheus.Registry
	lifecycleOps      *prometheus.CounterVec
	lifecycleDuration *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
}

// New регистрирует метрики сервиса, а также метрики процесса и рантайма Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		lifecycleOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "operations_total",
			Help:      "Количество операций над заявками по виду операции и исходу.",
		}, []string{"operation", "outcome"}),
		lifecycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "operation_duration_seconds",
			Help:      "Длительность операций над заявками, включая ожидание блокировки.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Количество HTTP запросов по методу, шаблону маршрута и коду ответа.",
		}, []string{"method", "route", "code"}),
	}
}

// ObserveLifecycle записывает исход и длительность операции.
func (m *Metrics) ObserveLifecycle(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lifecycleOps.WithLabelValues(operation, outcome).Inc()
	m.lifecycleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP учитывает обработанный HTTP запрос.
func (m *Metrics) ObserveHTTP(method, route string, code int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Registry возвращает реестр метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
