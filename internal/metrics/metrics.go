// Package metrics exposes prometheus collectors for HTTP traffic, media store
// operations and saga compensations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "videotube"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder owns the application collectors
type Recorder struct {
	gatherer        prometheus.Gatherer
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mediaOps        *prometheus.CounterVec
	mediaDuration   *prometheus.HistogramVec
	compensations   *prometheus.CounterVec
}

// New creates a Recorder registered on a fresh registry that also carries the Go and process collectors
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry creates a Recorder registered on reg and gathered from gatherer
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	r := &Recorder{
		gatherer: gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mediaOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_operations_total",
			Help:      "Media store operations by driver, operation and outcome.",
		}, []string{"driver", "operation", "outcome"}),
		mediaDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "media_operation_duration_seconds",
			Help:      "Media store operation latency by driver and operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"driver", "operation"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_compensations_total",
			Help:      "Compensating actions run after a failed multi-step operation.",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(r.requests, r.requestDuration, r.mediaOps, r.mediaDuration, r.compensations)
	return r
}

// Handler serves the collected metrics in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// ObserveMediaOperation records one media store call
func (r *Recorder) ObserveMediaOperation(driver, operation string, err error, duration time.Duration) {
	r.mediaOps.WithLabelValues(driver, operation, outcome(err)).Inc()
	r.mediaDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
}

// ObserveCompensation records one compensating action
func (r *Recorder) ObserveCompensation(action string, err error) {
	r.compensations.WithLabelValues(action, outcome(err)).Inc()
}

// Middleware records request count and latency labelled by the chi route pattern.
// The pattern keeps label cardinality bounded regardless of ids in the path.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		r.requests.WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).Inc()
		r.requestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// statusRecorder captures the final status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
