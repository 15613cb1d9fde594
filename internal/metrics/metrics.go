package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ordersCreated *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers the shop collectors on reg. Passing a fresh registry keeps
// tests isolated from the default one.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizza_shop",
			Name:      "orders_created_total",
			Help:      "Orders stored, by dine type and whether they arrived paid.",
		}, []string{"dine_type", "paid"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pizza_shop",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pizza_shop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.ordersCreated, m.httpRequests, m.httpDuration)
	return m
}

func (m *Metrics) OrderCreated(dineType string, paid bool) {
	m.ordersCreated.WithLabelValues(dineType, strconv.FormatBool(paid)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
