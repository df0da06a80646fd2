// Package metrics exposes request counts, latency, and in-flight
// gauges for this client as Prometheus collectors wired onto the
// Context/Handler contract.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/henrywarne/http-transport/middleware"
)

// Config configures the metrics plugin.
type Config struct {
	Namespace string
	Subsystem string
	Registry  prometheus.Registerer
	Buckets   []float64
}

// DefaultConfig returns sensible collector defaults.
func DefaultConfig() Config {
	return Config{
		Subsystem: "http_client",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}
}

// Plugin is the metrics middleware: a post-phase that observes the
// outcome of each attempt.
type Plugin struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	inFlightRequests prometheus.Gauge
}

// New registers the plugin's collectors against cfg.Registry (falling
// back to the default registerer when unset) and returns the plugin.
func New(cfg Config) *Plugin {
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = DefaultConfig().Buckets
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = DefaultConfig().Subsystem
	}

	labels := []string{"method", "status_code"}
	factory := promauto.With(cfg.Registry)

	return &Plugin{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests made",
		}, labels),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   cfg.Buckets,
		}, labels),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "kind"}),
		inFlightRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
	}
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		p.inFlightRequests.Inc()
		start := time.Now()

		err := next(ctx, rc)

		p.inFlightRequests.Dec()
		duration := time.Since(start)

		statusCode := "0"
		if rc.Res != nil {
			statusCode = strconv.Itoa(rc.Res.StatusCode)
		}

		p.requestsTotal.WithLabelValues(rc.Req.Method, statusCode).Inc()
		p.requestDuration.WithLabelValues(rc.Req.Method, statusCode).Observe(duration.Seconds())

		if err != nil {
			kind := "unknown"
			if mwErr, ok := err.(*middleware.Error); ok {
				kind = string(mwErr.Kind)
			}
			p.errorsTotal.WithLabelValues(rc.Req.Method, kind).Inc()
		}

		return err
	}
}
