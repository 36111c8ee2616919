package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChatMetrics captures outcomes of reply generation.
type ChatMetrics interface {
	ObserveReply(provider, status string, durationSeconds float64)
}

// GatewayMetrics captures request metrics for the HTTP API.
type GatewayMetrics interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
}

// Noop implements both interfaces without emitting anything.
type Noop struct{}

func (Noop) ObserveReply(string, string, float64)           {}
func (Noop) ObserveRequest(string, string, string, float64) {}

// Prom holds Prometheus collectors on a private registry so several
// instances can coexist (one per server, one per test).
type Prom struct {
	registry *prometheus.Registry
	replies  *prometheus.CounterVec
	replyDur *prometheus.HistogramVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewProm constructs the collectors under namespace and registers them.
func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Replies generated by provider and status",
		}, []string{"provider", "status"}),
		replyDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_duration_seconds",
			Help:      "Provider call latency by provider",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"provider"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method/route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	p.registry.MustRegister(
		p.replies, p.replyDur, p.requests, p.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prom) ObserveReply(provider, status string, durationSeconds float64) {
	p.replies.WithLabelValues(provider, status).Inc()
	p.replyDur.WithLabelValues(provider).Observe(durationSeconds)
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Inc()
	p.latency.WithLabelValues(method, route).Observe(durationSeconds)
}

// Handler returns an HTTP handler for /metrics.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
