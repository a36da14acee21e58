package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's Prometheus collectors.
type Recorder struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	paymentIntentsTotal *prometheus.CounterVec
	verificationsTotal  *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		paymentIntentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_intents_total",
				Help: "Checkout requests by outcome",
			},
			[]string{"outcome"},
		),
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_verifications_total",
				Help: "Payment signature verifications by outcome",
			},
			[]string{"outcome"},
		),
	}
	r.registry.MustRegister(
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.paymentIntentsTotal,
		r.verificationsTotal,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Recorder) ObserveIntent(outcome string) {
	r.paymentIntentsTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveVerification(outcome string) {
	r.verificationsTotal.WithLabelValues(outcome).Inc()
}

// Middleware counts requests per route template.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		r.httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		r.httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
