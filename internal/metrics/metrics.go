// Package metrics exposes Prometheus metrics for the survey service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcome labels.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

// Collector wraps the service's metric vectors on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	ActiveSessions     prometheus.Gauge
}

// NewCollector creates a collector under the given namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Survey submissions by outcome",
		}, []string{"status"}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent storing a survey submission",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of survey sessions currently held in memory",
		}),
	}

	reg.MustRegister(c.Submissions, c.SubmissionDuration, c.HTTPRequests, c.HTTPDuration, c.ActiveSessions)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler that serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordSubmission counts a submission attempt and how long the store took.
func (c *Collector) RecordSubmission(status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.Submissions.WithLabelValues(status).Inc()
	if status != StatusRejected {
		c.SubmissionDuration.Observe(duration.Seconds())
	}
}

// RecordHTTPRequest records an HTTP request metric.
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetActiveSessions sets the active session gauge.
func (c *Collector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.ActiveSessions.Set(float64(n))
}
