package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expirylens"

// Prometheus records detection outcomes on its own registry
type Prometheus struct {
	registry   *prometheus.Registry
	detections *prometheus.CounterVec
	latency    prometheus.Histogram
}

// NewPrometheus creates and registers the detection metrics
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Prometheus{
		registry: registry,
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Expiry detections by outcome status and result source.",
		}, []string{"status", "source"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detection_duration_seconds",
			Help:      "Time spent per expiry detection request.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	registry.MustRegister(p.detections, p.latency)
	return p
}

// ObserveDetection counts one detection and records its latency
func (p *Prometheus) ObserveDetection(status, source string, elapsed time.Duration) {
	p.detections.WithLabelValues(status, source).Inc()
	p.latency.Observe(elapsed.Seconds())
}

// Handler exposes the registry in Prometheus text format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
