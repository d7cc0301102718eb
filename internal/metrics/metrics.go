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

// Recorder collects pipeline and HTTP metrics on its own registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	scored       *prometheus.CounterVec
	failures     *prometheus.CounterVec
	matchScore   prometheus.Histogram
	scoreLatency prometheus.Summary

	requestDuration *prometheus.SummaryVec
	requestTotal    *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: registry,
		scored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_documents_scored_total",
				Help: "Documents scored, by status tier",
			},
			[]string{"status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_pipeline_failures_total",
				Help: "Pipeline failures, by stage",
			},
			[]string{"stage"},
		),
		matchScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_match_percentage",
			Help:    "Distribution of blended match percentages",
			Buckets: []float64{35, 50, 70, 85, 100},
		}),
		scoreLatency: prometheus.NewSummary(prometheus.SummaryOpts{
			Name: "resume_scoring_duration_seconds",
			Help: "Time spent scoring one document",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		}),
		requestDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}

	registry.MustRegister(r.scored, r.failures, r.matchScore, r.scoreLatency, r.requestDuration, r.requestTotal)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveScore(status string, matchPercentage float64, took time.Duration) {
	if r == nil {
		return
	}
	r.scored.WithLabelValues(status).Inc()
	r.matchScore.Observe(matchPercentage)
	r.scoreLatency.Observe(took.Seconds())
}

// Failure counts an error at one pipeline stage, e.g. "extract" or "persist".
func (r *Recorder) Failure(stage string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(stage).Inc()
}

// Middleware records request count and latency per route.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		path := c.Path()
		if route := c.Route(); route != nil && route.Path != "" {
			path = route.Path
		}
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		code := strconv.Itoa(status)

		r.requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		r.requestTotal.WithLabelValues(c.Method(), path, code).Inc()

		return err
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	if r == nil {
		return func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNotFound)
		}
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
