package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

const namespace = "storefront"

type Metrics struct {
	Orders        *prometheus.CounterVec
	OrderLatency  *prometheus.HistogramVec
	Requests      *prometheus.CounterVec
	RequestsLatMS *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "create_total",
		Help:      "Order creation attempts by result.",
	}, []string{"result"})
	orderLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "create_duration_seconds",
		Help:      "Order creation latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(orders, orderLatency, requests, latency)

	return &Metrics{
		Orders:        orders,
		OrderLatency:  orderLatency,
		Requests:      requests,
		RequestsLatMS: latency,
	}
}

// ObserveOrder records one order creation attempt.
func (m *Metrics) ObserveOrder(result string, elapsed time.Duration) {
	m.Orders.WithLabelValues(result).Inc()
	m.OrderLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(handler, status string, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, status).Inc()
	m.RequestsLatMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
